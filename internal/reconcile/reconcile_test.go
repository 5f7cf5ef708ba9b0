// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-ledger/internal/ledger"
	"github.com/pdiddy/paper-ledger/pkg/types"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMerge_EmptyFreshIsIdempotent(t *testing.T) {
	existing := []types.Record{
		{Date: date("2024-02-01"), Title: "A", Link: "https://arxiv.org/abs/2402.00001", Summary: "done"},
		{Date: date("2024-01-01"), Title: "B", Link: "https://arxiv.org/abs/2401.00001"},
	}

	merged, err := Merge(existing, nil)
	require.NoError(t, err)
	assert.Equal(t, existing, merged)

	again, err := Merge(merged, nil)
	require.NoError(t, err)
	assert.Equal(t, merged, again)
}

func TestMerge_AppendsNewAndSortsDescending(t *testing.T) {
	existing := []types.Record{
		{Date: date("2024-01-15"), Title: "Mid", Link: "https://arxiv.org/abs/1"},
	}
	fresh := []types.Record{
		{Date: date("2024-02-01"), Title: "New", Link: "https://arxiv.org/abs/2"},
		{Date: date("2024-01-01"), Title: "Old", Link: "https://arxiv.org/abs/3"},
	}

	merged, err := Merge(existing, fresh)
	require.NoError(t, err)
	require.Len(t, merged, 3)
	assert.Equal(t, "New", merged[0].Title)
	assert.Equal(t, "Mid", merged[1].Title)
	assert.Equal(t, "Old", merged[2].Title)
}

func TestMerge_SameDateTiesKeepInsertionOrder(t *testing.T) {
	existing := []types.Record{
		{Date: date("2024-01-01"), Title: "First", Link: "https://arxiv.org/abs/1"},
		{Date: date("2024-01-01"), Title: "Second", Link: "https://arxiv.org/abs/2"},
	}
	fresh := []types.Record{
		{Date: date("2024-01-01"), Title: "Third", Link: "https://arxiv.org/abs/3"},
	}

	merged, err := Merge(existing, fresh)
	require.NoError(t, err)
	require.Len(t, merged, 3)
	assert.Equal(t, "First", merged[0].Title)
	assert.Equal(t, "Second", merged[1].Title)
	assert.Equal(t, "Third", merged[2].Title)
}

func TestMerge_DuplicateKeepsExistingSummary(t *testing.T) {
	existing := []types.Record{
		{Date: date("2024-01-01"), Title: "A", Link: "https://arxiv.org/abs/1", Summary: "## 论文概述\n已有总结"},
	}
	fresh := []types.Record{
		{Date: date("2024-01-01"), Title: "A", Link: "https://arxiv.org/abs/1"},
	}

	merged, err := Merge(existing, fresh)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "## 论文概述\n已有总结", merged[0].Summary)
	assert.Equal(t, types.SummaryGenerated, merged[0].State())
}

func TestMerge_ConflictingDuplicateFails(t *testing.T) {
	existing := []types.Record{
		{Date: date("2024-01-01"), Title: "A", Link: "https://arxiv.org/abs/1"},
	}
	fresh := []types.Record{
		{Date: date("2024-01-02"), Title: "A revised", Link: "https://arxiv.org/abs/1"},
	}

	_, err := Merge(existing, fresh)

	var ie *ledger.IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "https://arxiv.org/abs/1", ie.Link)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	existing := []types.Record{
		{Date: date("2024-01-01"), Title: "A", Link: "https://arxiv.org/abs/1"},
	}
	fresh := []types.Record{
		{Date: date("2024-02-01"), Title: "B", Link: "https://arxiv.org/abs/2"},
	}

	_, err := Merge(existing, fresh)
	require.NoError(t, err)

	assert.Equal(t, "A", existing[0].Title)
	assert.Len(t, existing, 1)
}
