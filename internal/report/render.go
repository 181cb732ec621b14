// Package report renders scored runs for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"HeadlineScorer/internal/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	scoreStyles  = map[string]lipgloss.Style{
		"perfect":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		"excellent": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		"fair":      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
	}
	defaultScore = lipgloss.NewStyle().Bold(true)
)

const ruleWidth = 80

// Stats is the subset of pipeline counters shown in the header.
type Stats struct {
	Input         int
	SemanticCalls int
	Failed        int
}

// Render writes a human-readable report of run to w.
func Render(w io.Writer, run domain.Run, stats Stats) error {
	var b strings.Builder
	rule := ruleStyle.Render(strings.Repeat("━", ruleWidth))

	fmt.Fprintf(&b, "%s\n", titleStyle.Render(fmt.Sprintf("Scored %s", run.SourceName)))
	fmt.Fprintf(&b, "%s\n", mutedStyle.Render(fmt.Sprintf("mode=%s min_score=%d input=%d semantic_calls=%d failed=%d",
		run.Mode, run.MinScore, stats.Input, stats.SemanticCalls, stats.Failed)))

	if len(run.Results) == 0 {
		fmt.Fprintf(&b, "\n%s\n", warnStyle.Render(fmt.Sprintf("no headline met the bar of %d", run.MinScore)))
		b.WriteString("  1. lower the threshold, e.g. --score 15\n")
		b.WriteString("  2. check whether the keyword rules are too strict (see `rules`)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "%s\n", okStyle.Render(fmt.Sprintf("%d headlines kept, ranked by score", len(run.Results))))
	fmt.Fprintf(&b, "%s\n", rule)
	writeSummary(&b, run.Summary)
	fmt.Fprintf(&b, "%s\n", rule)

	for i, r := range run.Results {
		writeResult(&b, i+1, r)
	}

	fmt.Fprintf(&b, "\n%s\n", rule)
	writeAdvice(&b, run.Summary)
	fmt.Fprintf(&b, "%s\n", rule)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSummary(b *strings.Builder, s domain.Summary) {
	fmt.Fprintf(b, "%s perfect   (%d-%d): %d\n", stars(5), domain.PerfectScore, domain.MaxTotalScore, s.Perfect)
	fmt.Fprintf(b, "%s excellent (%d-%d): %d\n", stars(4), domain.ExcellentScore, domain.PerfectScore-1, s.Excellent)
	fmt.Fprintf(b, "%s fair      (%d-%d): %d\n", stars(3), domain.FairScore, domain.ExcellentScore-1, s.Fair)
}

func writeResult(b *strings.Builder, rank int, r domain.ScoreResult) {
	rating := r.Rating()
	style, ok := scoreStyles[rating.Name]
	if !ok {
		style = defaultScore
	}

	fmt.Fprintf(b, "\n%d. %s %s\n", rank, style.Render(fmt.Sprintf("[%d]", r.Total)), r.Headline)
	if r.Source == domain.SourceHybrid {
		fmt.Fprintf(b, "   blended: lexical %d + semantic %d => %d\n", r.LexicalTotal, r.SemanticTotal, r.Total)
	}
	if r.RejectReason != "" {
		fmt.Fprintf(b, "   blacklisted: %s\n", r.RejectReason)
	}
	d := r.Dimensions
	fmt.Fprintf(b, "   audience %d + interest %d + simplicity %d\n", d.Audience, d.Interest, d.Simplicity)
	fmt.Fprintf(b, "   rating: %s %s, %s\n", stars(rating.Stars), rating.Name, rating.Suggestion)
	if r.Rationale != "" {
		fmt.Fprintf(b, "   why: %s\n", r.Rationale)
	}
	if r.SuggestedAngle != "" {
		fmt.Fprintf(b, "   angle: %s\n", r.SuggestedAngle)
	}
}

func writeAdvice(b *strings.Builder, s domain.Summary) {
	if s.Perfect > 0 {
		fmt.Fprintf(b, "use first: %d perfect headlines\n", s.Perfect)
	}
	if s.Excellent > 0 {
		fmt.Fprintf(b, "recommended: %d excellent headlines\n", s.Excellent)
	}
	if s.Fair > 0 {
		fmt.Fprintf(b, "use with care: %d fair headlines\n", s.Fair)
	}
}

func stars(n int) string {
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
