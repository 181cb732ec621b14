package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"HeadlineScorer/internal/scanner"
)

// primarySelector matches the dedicated title blocks of HTML reports; the
// fallbacks cover older layouts.
const primarySelector = "div.news-title"

var fallbackSelectors = []string{"h3", "span.title"}

// HTMLReportScanner extracts headlines from rendered HTML reports.
type HTMLReportScanner struct{}

// NewHTMLReportScanner returns the html strategy.
func NewHTMLReportScanner() *HTMLReportScanner {
	return &HTMLReportScanner{}
}

// Name identifies the strategy inside the registry.
func (h *HTMLReportScanner) Name() string {
	return "html"
}

// Extensions lists the file types handled by this strategy.
func (h *HTMLReportScanner) Extensions() []string {
	return []string{".html", ".htm"}
}

// Scan opens the report and extracts deduplicated titles in document order.
func (h *HTMLReportScanner) Scan(ctx context.Context, req scanner.Request) ([]string, error) {
	f, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return extractHTMLTitles(f)
}

func extractHTMLTitles(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	titles := collectTexts(doc.Find(primarySelector))
	if len(titles) == 0 {
		for _, sel := range fallbackSelectors {
			titles = append(titles, collectTexts(doc.Find(sel))...)
		}
		doc.Find("a[title]").Each(func(_ int, a *goquery.Selection) {
			if title, ok := a.Attr("title"); ok {
				titles = appendTitle(titles, title)
			}
		})
	}

	return dedupe(titles), nil
}

func collectTexts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		out = appendTitle(out, s.Text())
	})
	return out
}

func appendTitle(titles []string, raw string) []string {
	title := strings.Join(strings.Fields(raw), " ")
	if utf8.RuneCountInString(title) < minTitleRunes {
		return titles
	}
	return append(titles, title)
}

func dedupe(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
