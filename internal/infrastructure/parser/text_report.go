package parser

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"HeadlineScorer/internal/scanner"
)

// minTitleRunes drops fragments too short to be a headline.
const minTitleRunes = 6

// Entry lines look like: "1. [platform] 🆕 title [rank] - time (count)".
var entryExpr = regexp.MustCompile(`^\s*\d+\.\s*\[.*?\]\s*(?:🆕\s*)?(.*?)\s*\[`)

// Header lines (统计, 更新时间, ...) never match entryExpr, so only separators
// and category banners need an explicit skip.
var (
	categoryPrefixes  = []string{"📊", "🔥", "📈", "📌", "🆕"}
	separatorPrefixes = []string{"━", "="}
)

// TextReportScanner extracts headlines from TrendRadar plain-text reports.
type TextReportScanner struct{}

// NewTextReportScanner returns the txt strategy.
func NewTextReportScanner() *TextReportScanner {
	return &TextReportScanner{}
}

// Name identifies the strategy inside the registry.
func (t *TextReportScanner) Name() string {
	return "txt"
}

// Extensions lists the file types handled by this strategy.
func (t *TextReportScanner) Extensions() []string {
	return []string{".txt"}
}

// Scan reads the report and returns titles in file order.
func (t *TextReportScanner) Scan(ctx context.Context, req scanner.Request) ([]string, error) {
	f, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	var titles []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if title, ok := parseTextLine(sc.Text()); ok {
			titles = append(titles, title)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return titles, nil
}

func parseTextLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || hasAnyPrefix(line, separatorPrefixes) || hasAnyPrefix(line, categoryPrefixes) {
		return "", false
	}

	match := entryExpr.FindStringSubmatch(line)
	if match == nil {
		return "", false
	}
	title := strings.TrimSpace(match[1])
	if utf8.RuneCountInString(title) < minTitleRunes {
		return "", false
	}
	return title, true
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
