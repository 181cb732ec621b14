package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const textReport = `📊 热点词汇统计

🔥 工资 : 3 条
━━━━━━━━━━━━━━━━━━━
  1. [微博] 🆕 多地工资拖欠问题引关注 [1] - 09:30 (3次)
  2. [知乎] 年轻人为何不敢辞职 [**2**] - 10:00 (1次)
  3. [百度] 短标题 [3]
  4. [头条] 物价上涨三成，网友直呼扛不住 [5] - 11:00

更新时间：2025-01-02 12:00:00
==================
本次新增热点新闻 (共 2 条)
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTextReportScanner(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "report.txt", textReport)
	src := NewStrategySource(NewDefaultRegistry(), path, FormatAuto, nil)

	titles, err := src.Titles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"多地工资拖欠问题引关注",
		"年轻人为何不敢辞职",
		"物价上涨三成，网友直呼扛不住",
	}, titles)
	assert.Equal(t, path, src.Name())
}

func TestParseTextLine(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		line  string
		title string
		ok    bool
	}{
		"entry":         {"1. [微博] 房租又涨了怎么办 [1]", "房租又涨了怎么办", true},
		"new marker":    {"12. [抖音] 🆕 外卖小哥的一天收入 [4] - 08:00", "外卖小哥的一天收入", true},
		"too short":     {"3. [百度] 五个字标题 [3]", "", false},
		"category":      {"🔥 工资 : 3 条", "", false},
		"separator":     {"━━━━━━━━", "", false},
		"counting noun": {"5. [微博] 这条新闻有共同点 [2]", "这条新闻有共同点", true},
		"no rank":       {"1. [微博] 没有排名的标题行", "", false},
	}
	for name, tc := range cases {
		title, ok := parseTextLine(tc.line)
		assert.Equal(t, tc.ok, ok, name)
		assert.Equal(t, tc.title, title, name)
	}
}

func TestHTMLReportScanner(t *testing.T) {
	t.Parallel()

	page := `<html><body>
	<div class="news-item"><div class="news-title"> 物价上涨三成，
	   网友直呼扛不住 </div></div>
	<div class="news-item"><div class="news-title">年轻人为何不敢辞职</div></div>
	<div class="news-item"><div class="news-title">年轻人为何不敢辞职</div></div>
	<div class="news-item"><div class="news-title">短</div></div>
	<h3>should be ignored when news-title exists</h3>
	</body></html>`
	path := writeFile(t, t.TempDir(), "report.html", page)

	titles, err := NewStrategySource(NewDefaultRegistry(), path, FormatAuto, nil).Titles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"物价上涨三成， 网友直呼扛不住", "年轻人为何不敢辞职"}, titles)
}

func TestHTMLReportFallbackSelectors(t *testing.T) {
	t.Parallel()

	page := `<html><body>
	<h3>裁员潮下的年轻人</h3>
	<span class="title">春节红包该给多少</span>
	<a href="/x" title="油价今晚再次上调">link</a>
	<a href="/y" title="裁员潮下的年轻人">dup</a>
	</body></html>`
	path := writeFile(t, t.TempDir(), "legacy.htm", page)

	titles, err := NewStrategySource(NewDefaultRegistry(), path, "html", nil).Titles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"裁员潮下的年轻人", "春节红包该给多少", "油价今晚再次上调"}, titles)
}

func TestStrategySourceUnknownFormat(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "report.csv", "a,b")

	_, err := NewStrategySource(NewDefaultRegistry(), path, FormatAuto, nil).Titles(context.Background())
	assert.Error(t, err)

	_, err = NewStrategySource(NewDefaultRegistry(), path, "pdf", nil).Titles(context.Background())
	assert.Error(t, err)
}

func TestFindLatestReport(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "2025年01月01日/txt/23时00分.txt", textReport)
	writeFile(t, root, "2025年01月02日/txt/08时00分.txt", textReport)
	newest := writeFile(t, root, "2025年01月02日/txt/12时30分.txt", textReport)
	writeFile(t, root, "2025年01月02日/html/13时00分.html", "<html></html>")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2025年01月03日"), 0o755))

	got, err := FindLatestReport(root)
	require.NoError(t, err)
	assert.Equal(t, newest, got)

	src := NewLatestSource(NewDefaultRegistry(), root, FormatAuto, nil)
	titles, err := src.Titles(context.Background())
	require.NoError(t, err)
	assert.Len(t, titles, 3)
	assert.Equal(t, newest, src.Name())
}

func TestFindLatestReportEmpty(t *testing.T) {
	t.Parallel()

	_, err := FindLatestReport(t.TempDir())
	assert.Error(t, err)

	_, err = FindLatestReport(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
