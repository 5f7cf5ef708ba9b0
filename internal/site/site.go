// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package site renders the finalized ledger into a self-contained static
// bundle: index.html plus assets/{style.css,app.js,data.json}. It treats the
// ledger records as read-only input.
package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/pdiddy/paper-ledger/pkg/types"
)

// Entry is the renderer-facing view of one record. SummaryMarkdown is the
// raw stored text; SummaryHTML is escaped HTML safe for direct embedding.
type Entry struct {
	Date            string `json:"date"`
	Title           string `json:"title"`
	Link            string `json:"link"`
	SummaryMarkdown string `json:"summary_markdown"`
	SummaryHTML     string `json:"summary_html"`
}

// Render writes the full static bundle for records into outDir.
func Render(records []types.Record, outDir string) error {
	entries, err := BuildEntries(records)
	if err != nil {
		return err
	}

	assetsDir := filepath.Join(outDir, "assets")
	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return fmt.Errorf("creating site directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling site data: %w", err)
	}

	files := []struct {
		path    string
		content []byte
	}{
		{filepath.Join(outDir, "index.html"), []byte(indexHTML)},
		{filepath.Join(assetsDir, "style.css"), []byte(styleCSS)},
		{filepath.Join(assetsDir, "app.js"), []byte(appJS)},
		{filepath.Join(assetsDir, "data.json"), data},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, f.content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
	}
	return nil
}

// BuildEntries converts records into renderer entries, rendering each
// summary's markdown to HTML.
func BuildEntries(records []types.Record) ([]Entry, error) {
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		md := fixLinebreaks(r.Summary)
		html, err := renderMarkdown(md)
		if err != nil {
			return nil, fmt.Errorf("rendering summary for %s: %w", r.Link, err)
		}
		entries = append(entries, Entry{
			Date:            r.DateString(),
			Title:           r.Title,
			Link:            r.Link,
			SummaryMarkdown: md,
			SummaryHTML:     html,
		})
	}
	return entries, nil
}

// renderMarkdown converts markdown to HTML using goldmark. Raw HTML in the
// source is filtered by goldmark's default renderer, so the output is safe
// to embed directly.
func renderMarkdown(md string) (string, error) {
	if md == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var (
	inlineHeadingRe = regexp.MustCompile(`([^\n\s#])[ \t]*(#+\s)`)
	hrRe            = regexp.MustCompile(`([^\n])[ \t]*---[ \t]*([^\n])`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
)

// fixLinebreaks repairs markdown whose structural line breaks were collapsed
// during storage: headings and horizontal rules are pushed onto their own
// lines and runs of blank lines are merged.
func fixLinebreaks(md string) string {
	t := inlineHeadingRe.ReplaceAllString(md, "$1\n$2")
	t = hrRe.ReplaceAllString(t, "$1\n---\n$2")
	t = blankRunRe.ReplaceAllString(t, "\n\n")
	return strings.TrimSpace(t)
}
