// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-ledger pipeline.
package types

import "time"

// SummaryState is the lifecycle state of a record's AI-generated summary.
type SummaryState string

const (
	// SummaryPending means no summary has been generated yet.
	SummaryPending SummaryState = "pending"

	// SummaryGenerated means a non-empty summary body is present.
	SummaryGenerated SummaryState = "generated"
)

// Record is one ledger row: a paper's metadata plus its summary state.
// The normalized link doubles as the globally unique identifier.
type Record struct {
	// Date is the paper's publication date. Immutable once recorded.
	Date time.Time `json:"date" yaml:"date"`

	// Title is the paper title with internal whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Link is the canonical arXiv abs URL with any version suffix stripped.
	// It is the unique key across the ledger.
	Link string `json:"link" yaml:"link"`

	// Summary is the normalized markdown text of the AI-generated summary,
	// or empty while the record is pending. The collapsible wrapper is
	// applied only at serialization time.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Identifier returns the ledger key for the record.
func (r Record) Identifier() string { return r.Link }

// State reports whether the record's summary has been generated.
func (r Record) State() SummaryState {
	if r.Summary != "" {
		return SummaryGenerated
	}
	return SummaryPending
}

// DateString formats the publication date as it appears in the ledger.
func (r Record) DateString() string {
	if r.Date.IsZero() {
		return ""
	}
	return r.Date.Format("2006-01-02")
}
