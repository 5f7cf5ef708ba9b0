// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-ledger/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the arXiv fetch stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Keyword is the arXiv query keyword matched against title and abstract.
	Keyword string `json:"keyword" yaml:"keyword"`

	// InitResults is the candidate window for the first run against an
	// empty ledger (default 500).
	InitResults int `json:"init_results" yaml:"init_results"`

	// DailyResults is the candidate window for incremental runs (default 20).
	DailyResults int `json:"daily_results" yaml:"daily_results"`

	// MaxRetries is the per-page retry budget for arXiv API requests (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// PageSize is the number of entries requested per API page (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`
}

// SummaryConfig holds settings for the summarization stage.
type SummaryConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the OpenAI-compatible inference endpoint
	// (default "https://api-inference.modelscope.cn/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the inference model identifier (default "deepseek-ai/DeepSeek-V3.2").
	Model string `json:"model" yaml:"model"`

	// AccessToken is the inference endpoint credential. Required.
	AccessToken string `json:"access_token,omitempty" yaml:"access_token,omitempty"`

	// HTTPMaxRetries is the retry budget for fetching paper HTML (default 3).
	HTTPMaxRetries int `json:"http_max_retries" yaml:"http_max_retries"`

	// APIMaxRetries is the retry budget for inference calls (default 3).
	APIMaxRetries int `json:"api_max_retries" yaml:"api_max_retries"`

	// HTMLMaxChars is the character bound applied to fetched HTML before it
	// is sent to the inference endpoint (default 180000).
	HTMLMaxChars int `json:"html_max_chars" yaml:"html_max_chars"`

	// FlushEvery is the number of successful summaries between ledger
	// write-backs (default 5).
	FlushEvery int `json:"flush_every" yaml:"flush_every"`
}

// SiteConfig holds settings for the static site renderer.
type SiteConfig struct {
	// OutputDir is the directory the site bundle is written to (default "site").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// PipelineConfig groups all stage configurations. It is built once at process
// start from the environment and passed into each component; components never
// consult the environment themselves.
type PipelineConfig struct {
	// LedgerPath is the path to the ledger file (default "papers.md").
	LedgerPath string `json:"ledger_path" yaml:"ledger_path"`

	Search  SearchConfig  `json:"search" yaml:"search"`
	Summary SummaryConfig `json:"summary" yaml:"summary"`
	Site    SiteConfig    `json:"site" yaml:"site"`
}
