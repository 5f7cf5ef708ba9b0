// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile merges freshly fetched records into the ledger without
// duplicating entries or touching existing summaries.
package reconcile

import (
	"sort"

	"github.com/pdiddy/paper-ledger/internal/ledger"
	"github.com/pdiddy/paper-ledger/pkg/types"
)

// Merge appends the genuinely new records in fresh to existing and returns
// the result in canonical order: descending date, ties broken by insertion
// order. A fresh record that repeats an existing link with identical metadata
// is dropped, preserving the existing entry and its summary. A repeated link
// with conflicting title or date is a ledger.IntegrityError: it signals an
// upstream inconsistency the pipeline refuses to resolve by guessing.
//
// Merge is idempotent: merging an empty fresh sequence returns existing
// reordered but otherwise unchanged.
func Merge(existing, fresh []types.Record) ([]types.Record, error) {
	idx, err := ledger.Index(existing)
	if err != nil {
		return nil, err
	}

	merged := append([]types.Record(nil), existing...)
	for _, r := range fresh {
		prev, ok := idx[r.Identifier()]
		if ok {
			if prev.Title != r.Title || !prev.Date.Equal(r.Date) {
				return nil, &ledger.IntegrityError{Link: r.Identifier(), Existing: prev, Conflicting: r}
			}
			continue
		}
		idx[r.Identifier()] = r
		merged = append(merged, r)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date)
	})
	return merged, nil
}
