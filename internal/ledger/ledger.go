// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger reads and writes the markdown-table ledger that is the sole
// source of truth between pipeline runs. The on-disk format is a four-column
// table (date, title, link, summary); loads are full parses and saves are
// full rewrites, never incremental edits.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/paper-ledger/pkg/types"
)

const (
	// Header and Separator are the first two lines of every ledger file.
	Header    = "| 日期 | 标题 | 链接 | 简要总结 |"
	Separator = "| --- | --- | --- | --- |"

	// placeholderText marks a summary cell that has not been generated yet.
	placeholderText = "待生成"

	detailsOpen  = "<details><summary>展开</summary>"
	detailsClose = "</details>"
)

// MalformedError reports a ledger file whose table structure cannot be parsed.
// It is fatal: proceeding against an unparseable ledger risks silent data loss.
type MalformedError struct {
	Path   string
	Line   int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed ledger %s: line %d: %s", e.Path, e.Line, e.Reason)
}

// IntegrityError reports two records sharing a link but disagreeing on title
// or date. It is fatal: the pipeline refuses to guess which copy is correct.
type IntegrityError struct {
	Link        string
	Existing    types.Record
	Conflicting types.Record
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("ledger integrity violation for %s: %q (%s) conflicts with %q (%s)",
		e.Link, e.Existing.Title, e.Existing.DateString(),
		e.Conflicting.Title, e.Conflicting.DateString())
}

// Load parses the ledger file into records in file order. A missing file is
// an empty ledger, not an error.
func Load(path string) ([]types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}

	lines := strings.Split(string(data), "\n")

	// Locate the two header lines, tolerating leading blank lines.
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) || len(splitCells(lines[i])) != 4 {
		return nil, &MalformedError{Path: path, Line: i + 1, Reason: "missing four-column header row"}
	}
	i++
	if i >= len(lines) || !isSeparator(lines[i]) {
		return nil, &MalformedError{Path: path, Line: i + 1, Reason: "missing header separator row"}
	}
	i++

	var records []types.Record
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		rec, err := parseRow(path, i+1, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Save serializes records in the given order and atomically replaces the
// ledger file via a temporary file and rename.
func Save(path string, records []types.Record) error {
	var b strings.Builder
	b.WriteString(Header + "\n")
	b.WriteString(Separator + "\n")
	for _, r := range records {
		b.WriteString(formatRow(r))
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.WriteString(b.String())
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing ledger: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Index builds an identifier-to-record map for O(1) reconciliation lookups.
// Records that repeat an identifier with identical title and date collapse
// silently; a repeat with different title or date is an IntegrityError.
func Index(records []types.Record) (map[string]types.Record, error) {
	idx := make(map[string]types.Record, len(records))
	for _, r := range records {
		prev, ok := idx[r.Identifier()]
		if !ok {
			idx[r.Identifier()] = r
			continue
		}
		if prev.Title != r.Title || !prev.Date.Equal(r.Date) {
			return nil, &IntegrityError{Link: r.Identifier(), Existing: prev, Conflicting: r}
		}
	}
	return idx, nil
}

// parseRow converts one table row back into a Record.
func parseRow(path string, lineNo int, line string) (types.Record, error) {
	if !strings.HasPrefix(line, "|") {
		return types.Record{}, &MalformedError{Path: path, Line: lineNo, Reason: "row does not start with '|'"}
	}
	cells := splitCells(line)
	if len(cells) != 4 {
		return types.Record{}, &MalformedError{
			Path: path, Line: lineNo,
			Reason: fmt.Sprintf("expected 4 cells, found %d", len(cells)),
		}
	}

	date, err := time.Parse("2006-01-02", cells[0])
	if err != nil {
		return types.Record{}, &MalformedError{
			Path: path, Line: lineNo,
			Reason: fmt.Sprintf("invalid date %q", cells[0]),
		}
	}

	return types.Record{
		Date:    date,
		Title:   unescapePipes(cells[1]),
		Link:    cells[2],
		Summary: parseSummaryCell(cells[3]),
	}, nil
}

// formatRow renders a Record as one table row, newline-terminated.
func formatRow(r types.Record) string {
	return fmt.Sprintf("| %s | %s | %s | %s |\n",
		r.DateString(), escapePipes(r.Title), r.Link, formatSummaryCell(r))
}

// formatSummaryCell wraps the summary text in the collapsible block, encoding
// newlines as <br> so the cell stays on one table row.
func formatSummaryCell(r types.Record) string {
	if r.State() == types.SummaryPending {
		return detailsOpen + placeholderText + detailsClose
	}
	body := strings.ReplaceAll(r.Summary, "\n", "<br>")
	return detailsOpen + escapePipes(body) + detailsClose
}

var (
	detailsRe = regexp.MustCompile(`(?is)<details>(.*?)</details>`)
	summaryRe = regexp.MustCompile(`(?is)<summary>.*?</summary>`)
	brRe      = regexp.MustCompile(`(?i)<br\s*/?>`)
)

// parseSummaryCell extracts the summary text from a cell, returning "" for
// the pending placeholder or an empty cell.
func parseSummaryCell(cell string) string {
	content := cell
	if m := detailsRe.FindStringSubmatch(cell); m != nil {
		content = m[1]
	}
	content = summaryRe.ReplaceAllString(content, "")
	content = brRe.ReplaceAllString(content, "\n")
	content = strings.TrimSpace(unescapePipes(content))
	if content == placeholderText {
		return ""
	}
	return content
}

// isSeparator reports whether a line is the header separator row.
func isSeparator(line string) bool {
	cells := splitCells(line)
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if strings.Trim(c, "-: ") != "" {
			return false
		}
	}
	return true
}

// splitCells splits a table row on unescaped pipes and trims each cell.
// Escaped pipes (\|) stay part of the cell.
func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")

	var cells []string
	var cur strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune('\\')
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteRune('\\')
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

func escapePipes(s string) string   { return strings.ReplaceAll(s, "|", `\|`) }
func unescapePipes(s string) string { return strings.ReplaceAll(s, `\|`, "|") }
