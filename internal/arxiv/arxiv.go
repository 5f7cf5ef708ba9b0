// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv queries the arXiv API for candidate papers matching the
// configured keyword and yields records not already present in the ledger.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/paper-ledger/internal/httputil"
	"github.com/pdiddy/paper-ledger/pkg/types"
)

// apiBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

const defaultPageSize = 100

// allowedCategories is the primary-category allow-list. Entries outside
// these categories are dropped before dedup.
var allowedCategories = map[string]bool{
	"cs.CV": true,
	"cs.AI": true,
	"cs.CL": true,
	"cs.LG": true,
	"cs.MM": true,
	"cs.RO": true,
}

// FetchError reports a page request that exhausted its retry budget.
// Candidates collected from earlier pages remain valid.
type FetchError struct {
	Page     int
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("arXiv fetch failed at page offset %d after %d attempts: %v", e.Page, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches candidate records from the arXiv API.
type Client struct {
	HTTP   *http.Client
	Config types.SearchConfig
}

// NewClient builds a Client with a timeout-bound HTTP client.
func NewClient(cfg types.SearchConfig) *Client {
	return &Client{
		HTTP:   &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

// Fetch scans up to maxResults candidates ordered by descending submission
// date, paginating internally, and returns the ones whose normalized link is
// not in known. Keyword matching is service-side; results are accepted as
// returned. When a page request fails after retries, the records collected
// from earlier pages are returned alongside a FetchError.
func (c *Client) Fetch(ctx context.Context, maxResults int, known map[string]types.Record) ([]types.Record, error) {
	pageSize := c.Config.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	seen := make(map[string]bool, len(known))
	for link := range known {
		seen[link] = true
	}

	var collected []types.Record
	for start := 0; start < maxResults; start += pageSize {
		size := pageSize
		if remaining := maxResults - start; remaining < size {
			size = remaining
		}

		entries, err := c.fetchPage(ctx, start, size)
		if err != nil {
			attempts := c.Config.MaxRetries
			if attempts <= 0 {
				attempts = 3
			}
			return collected, &FetchError{Page: start, Attempts: attempts, Err: err}
		}

		for _, entry := range entries {
			rec, ok := candidate(entry)
			if !ok || seen[rec.Identifier()] {
				continue
			}
			seen[rec.Identifier()] = true
			collected = append(collected, rec)
		}

		// A short page means the result set is exhausted.
		if len(entries) < size {
			break
		}
	}
	return collected, nil
}

// fetchPage requests one result page, retrying transient failures.
func (c *Client) fetchPage(ctx context.Context, start, size int) ([]atomEntry, error) {
	query := fmt.Sprintf("%s?search_query=all:%s&start=%d&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		apiBase, url.QueryEscape(c.Config.Keyword), start, size)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, query, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.Config.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return feed.Entries, nil
}

// candidate converts an Atom entry into a pending Record. Entries without a
// usable abs link or a parseable published date, or outside the category
// allow-list, are rejected. The date check matters: a zero date would
// serialize as an empty cell the ledger parser refuses to load back.
func candidate(entry atomEntry) (types.Record, bool) {
	if !allowedCategories[entry.PrimaryCategory.Term] {
		return types.Record{}, false
	}

	link := NormalizeLink(entry.ID)
	if !strings.Contains(strings.ToLower(link), "arxiv.org/abs/") {
		return types.Record{}, false
	}

	rec := types.Record{
		Title: strings.Join(strings.Fields(entry.Title), " "),
		Link:  link,
	}
	if rec.Title == "" {
		return types.Record{}, false
	}

	pub, err := time.Parse(time.RFC3339, entry.Published)
	if err != nil {
		return types.Record{}, false
	}
	rec.Date = time.Date(pub.Year(), pub.Month(), pub.Day(), 0, 0, 0, 0, time.UTC)
	return rec, true
}

// versionRe matches the version suffix on an arXiv abs URL
// (e.g. ".../abs/2510.09607v2").
var versionRe = regexp.MustCompile(`(?i)(arxiv\.org/abs/(\d+\.\d+))v\d+`)

// NormalizeLink strips the version suffix from an arXiv abs URL so that
// revisions of the same paper share one identifier. Scheme variants are left
// untouched.
func NormalizeLink(link string) string {
	return strings.TrimSpace(versionRe.ReplaceAllString(strings.TrimSpace(link), "$1"))
}

// atomFeed and atomEntry mirror the arXiv Atom response.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID              string       `xml:"id"`
	Title           string       `xml:"title"`
	Published       string       `xml:"published"`
	PrimaryCategory atomCategory `xml:"primary_category"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}
