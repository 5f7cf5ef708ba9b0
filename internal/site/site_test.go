// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-ledger/pkg/types"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildEntries_RendersMarkdown(t *testing.T) {
	records := []types.Record{
		{
			Date:    date("2024-02-01"),
			Title:   "VLA Survey",
			Link:    "https://arxiv.org/abs/2402.00001",
			Summary: "## 论文概述\n多模态模型综述。\n\n## 论文核心贡献点\n- 统一框架",
		},
	}

	entries, err := BuildEntries(records)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "2024-02-01", e.Date)
	assert.Equal(t, "VLA Survey", e.Title)
	assert.Contains(t, e.SummaryHTML, "<h2>论文概述</h2>")
	assert.Contains(t, e.SummaryHTML, "<li>统一框架</li>")
}

func TestBuildEntries_PendingRecordHasEmptyHTML(t *testing.T) {
	records := []types.Record{
		{Date: date("2024-02-01"), Title: "Pending", Link: "https://arxiv.org/abs/1"},
	}

	entries, err := BuildEntries(records)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].SummaryMarkdown)
	assert.Empty(t, entries[0].SummaryHTML)
}

func TestBuildEntries_FiltersRawHTML(t *testing.T) {
	records := []types.Record{
		{
			Date:    date("2024-02-01"),
			Title:   "Sneaky",
			Link:    "https://arxiv.org/abs/1",
			Summary: "正文 <script>alert(1)</script> 继续",
		},
	}

	entries, err := BuildEntries(records)
	require.NoError(t, err)
	assert.NotContains(t, entries[0].SummaryHTML, "<script>")
}

func TestFixLinebreaks(t *testing.T) {
	cases := map[string]struct{ in, want string }{
		"inline heading pushed to own line": {
			in:   "前文结尾。## 论文概述",
			want: "前文结尾。\n## 论文概述",
		},
		"inline rule pushed to own line": {
			in:   "上文 --- 下文",
			want: "上文\n---\n下文",
		},
		"blank runs merged": {
			in:   "one\n\n\n\ntwo",
			want: "one\n\ntwo",
		},
		"well-formed text unchanged": {
			in:   "## 论文概述\n正文",
			want: "## 论文概述\n正文",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, fixLinebreaks(tc.in))
		})
	}
}

func TestRender_WritesBundle(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "site")
	records := []types.Record{
		{Date: date("2024-02-01"), Title: "A", Link: "https://arxiv.org/abs/1", Summary: "## 论文概述\n内容"},
		{Date: date("2024-01-01"), Title: "B", Link: "https://arxiv.org/abs/2"},
	}

	require.NoError(t, Render(records, outDir))

	for _, rel := range []string{"index.html", "assets/style.css", "assets/app.js", "assets/data.json"} {
		info, err := os.Stat(filepath.Join(outDir, rel))
		require.NoError(t, err, rel)
		assert.Positive(t, info.Size(), rel)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "assets", "data.json"))
	require.NoError(t, err)

	var entries []Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].Title)
	assert.Equal(t, "2024-01-01", entries[1].Date)
}

func TestRender_EmptyLedgerProducesEmptyData(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "site")
	require.NoError(t, Render(nil, outDir))

	data, err := os.ReadFile(filepath.Join(outDir, "assets", "data.json"))
	require.NoError(t, err)

	var entries []Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Empty(t, entries)
}
