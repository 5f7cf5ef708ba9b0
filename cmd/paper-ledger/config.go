// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-ledger/pkg/types"
)

// envBindings maps viper keys to the environment variables the pipeline is
// configured with.
var envBindings = map[string]string{
	"ledger_path":             "LEDGER_PATH",
	"site_dir":                "SITE_DIR",
	"arxiv.keyword":           "ARXIV_QUERY_KEYWORD",
	"arxiv.init_results":      "ARXIV_INIT_RESULTS",
	"arxiv.daily_results":     "ARXIV_DAILY_RESULTS",
	"arxiv.max_retries":       "ARXIV_MAX_RETRIES",
	"modelscope.access_token": "MODELSCOPE_ACCESS_TOKEN",
	"modelscope.base_url":     "MODELSCOPE_BASE_URL",
	"modelscope.model":        "MODELSCOPE_MODEL",
	"http.max_retries":        "HTTP_MAX_RETRIES",
	"http.timeout":            "HTTP_TIMEOUT",
	"api.max_retries":         "API_MAX_RETRIES",
	"html_max_chars":          "HTML_MAX_CHARS",
	"batch_write_size":        "BATCH_WRITE_SIZE",
}

// bindEnv wires environment variables and defaults into viper.
func bindEnv() {
	for key, env := range envBindings {
		viper.BindEnv(key, env)
	}

	viper.SetDefault("ledger_path", "papers.md")
	viper.SetDefault("site_dir", "site")
	viper.SetDefault("arxiv.keyword", "VLA")
	viper.SetDefault("arxiv.init_results", 500)
	viper.SetDefault("arxiv.daily_results", 20)
	viper.SetDefault("arxiv.max_retries", 3)
	viper.SetDefault("modelscope.base_url", "https://api-inference.modelscope.cn/v1")
	viper.SetDefault("modelscope.model", "deepseek-ai/DeepSeek-V3.2")
	viper.SetDefault("http.max_retries", 3)
	viper.SetDefault("http.timeout", 30)
	viper.SetDefault("api.max_retries", 3)
	viper.SetDefault("html_max_chars", 180000)
	viper.SetDefault("batch_write_size", 5)
}

// buildConfig assembles the immutable pipeline configuration once at startup.
// Components receive it by value and never consult the environment themselves.
func buildConfig() types.PipelineConfig {
	timeout := time.Duration(viper.GetInt("http.timeout")) * time.Second
	userAgent := fmt.Sprintf("paper-ledger/%s", version)

	httpCfg := types.HTTPConfig{
		Timeout:   timeout,
		UserAgent: userAgent,
	}

	token := viper.GetString("modelscope.access_token")
	if token == "" {
		token = loadedSecrets["modelscope-access-token"]
	}

	ledgerPath := viper.GetString("ledger_path")
	if flagPath, _ := rootCmd.PersistentFlags().GetString("ledger"); flagPath != "" {
		ledgerPath = flagPath
	}

	return types.PipelineConfig{
		LedgerPath: ledgerPath,
		Search: types.SearchConfig{
			HTTPConfig:   httpCfg,
			Keyword:      viper.GetString("arxiv.keyword"),
			InitResults:  viper.GetInt("arxiv.init_results"),
			DailyResults: viper.GetInt("arxiv.daily_results"),
			MaxRetries:   viper.GetInt("arxiv.max_retries"),
		},
		Summary: types.SummaryConfig{
			HTTPConfig:     httpCfg,
			BaseURL:        viper.GetString("modelscope.base_url"),
			Model:          viper.GetString("modelscope.model"),
			AccessToken:    token,
			HTTPMaxRetries: viper.GetInt("http.max_retries"),
			APIMaxRetries:  viper.GetInt("api.max_retries"),
			HTMLMaxChars:   viper.GetInt("html_max_chars"),
			FlushEvery:     viper.GetInt("batch_write_size"),
		},
		Site: types.SiteConfig{
			OutputDir: viper.GetString("site_dir"),
		},
	}
}
