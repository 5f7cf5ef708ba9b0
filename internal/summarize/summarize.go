// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize enriches pending ledger records with AI-generated
// summaries. Records are processed serially in ledger order; one record's
// failure never blocks the rest of the batch.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/pdiddy/paper-ledger/internal/httputil"
	"github.com/pdiddy/paper-ledger/pkg/types"
)

// ErrSourceUnavailable means the paper has no rendered HTML page. The record
// stays pending; a later run may find the page published.
var ErrSourceUnavailable = errors.New("paper HTML page not available")

// GenerationError reports an inference call that exhausted its retry budget
// for one record. It is recovered locally: the record stays pending and the
// batch continues.
type GenerationError struct {
	Link     string
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("summary generation for %s failed after %d attempts: %v", e.Link, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Summarizer fetches paper sources and calls the inference backend.
type Summarizer struct {
	Backend Backend
	HTTP    *http.Client
	Config  types.SummaryConfig
}

// New builds a Summarizer with a ModelScope backend from the configuration.
func New(cfg types.SummaryConfig) *Summarizer {
	client := &http.Client{Timeout: cfg.Timeout}
	return &Summarizer{
		Backend: &ModelScopeBackend{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Token:   cfg.AccessToken,
			Client:  client,
		},
		HTTP:   client,
		Config: cfg,
	}
}

// BatchSummary holds counts from a summarization run.
type BatchSummary struct {
	Generated int
	Skipped   int
	Failed    int
}

// Total returns the number of pending records processed.
func (s BatchSummary) Total() int {
	return s.Generated + s.Skipped + s.Failed
}

// HasFailures reports whether any record failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// Run processes every pending record in ledger order, mutating records in
// place. After each FlushEvery successes, and once at the end, it calls flush
// with the full record slice so progress survives a crash. Per-record
// failures are logged to w and counted; only a cancelled context or a failing
// final flush aborts the run.
func (s *Summarizer) Run(ctx context.Context, records []types.Record, flush func([]types.Record) error, w io.Writer) (BatchSummary, error) {
	flushEvery := s.Config.FlushEvery
	if flushEvery <= 0 {
		flushEvery = 5
	}

	var summary BatchSummary
	sinceFlush := 0

	for i := range records {
		if records[i].State() != types.SummaryPending {
			continue
		}

		text, err := s.Summarize(ctx, records[i])
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			if errors.Is(err, ErrSourceUnavailable) {
				fmt.Fprintf(w, "skipped %s: no HTML source yet\n", records[i].Link)
				summary.Skipped++
			} else {
				fmt.Fprintf(w, "failed  %s: %v\n", records[i].Link, err)
				summary.Failed++
			}
			continue
		}

		records[i].Summary = text
		summary.Generated++
		sinceFlush++
		fmt.Fprintf(w, "generated %s\n", records[i].Link)

		if sinceFlush >= flushEvery && flush != nil {
			if err := flush(records); err != nil {
				fmt.Fprintf(w, "warning: ledger write failed: %v\n", err)
			} else {
				sinceFlush = 0
			}
		}
	}

	if sinceFlush > 0 && flush != nil {
		if err := flush(records); err != nil {
			return summary, fmt.Errorf("final ledger write: %w", err)
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d generated, %d skipped, %d failed (total: %d)\n",
		summary.Generated, summary.Skipped, summary.Failed, summary.Total())
	return summary, nil
}

// Summarize produces the normalized summary text for one pending record:
// fetch the HTML source, call the inference backend with retries, normalize.
func (s *Summarizer) Summarize(ctx context.Context, rec types.Record) (string, error) {
	source, err := s.FetchSource(ctx, rec.Link)
	if err != nil {
		return "", err
	}

	attempts := s.Config.APIMaxRetries
	if attempts <= 0 {
		attempts = 3
	}
	policy := httputil.Policy{MaxAttempts: attempts}

	var raw string
	err = policy.Do(ctx, func() error {
		var callErr error
		raw, callErr = s.Backend.Complete(ctx, source)
		return callErr
	})
	if err != nil {
		return "", &GenerationError{Link: rec.Link, Attempts: attempts, Err: err}
	}

	text := Normalize(raw)
	if text == "" {
		return "", &GenerationError{Link: rec.Link, Attempts: attempts, Err: errors.New("empty summary after normalization")}
	}
	return text, nil
}

// FetchSource retrieves the rendered HTML of the paper, truncated to the
// configured character bound. A 404 means the paper has no HTML rendering
// and maps to ErrSourceUnavailable.
func (s *Summarizer) FetchSource(ctx context.Context, link string) (string, error) {
	htmlURL := strings.Replace(link, "/abs/", "/html/", 1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, htmlURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.HTTP, req, s.Config.HTTPMaxRetries)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", htmlURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrSourceUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: HTTP %d", htmlURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", htmlURL, err)
	}
	return Truncate(string(body), s.Config.HTMLMaxChars), nil
}

// Truncate hard-truncates s to at most max characters (runes). No re-fetch,
// no boundary adjustment: the bound exists to stay inside the inference
// context budget.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

var (
	thinkRe      = regexp.MustCompile(`(?is)<think>.*?</think>`)
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	trailSpaceRe = regexp.MustCompile(` +\n`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

// Normalize sanitizes raw model output into storable summary text: reasoning
// blocks are stripped, literal \n escape sequences become real line breaks,
// and whitespace is canonicalized.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	text = thinkRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, `\n`, "\n")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = trailSpaceRe.ReplaceAllString(text, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
