package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"HeadlineScorer/internal/domain"
	"HeadlineScorer/internal/ports"
)

const scoredSuffix = "_scored.json"

// entry is one exported result with its quality band spelled out.
type entry struct {
	Rank int `json:"rank"`
	domain.ScoreResult
	RatingLabel     string `json:"rating_label"`
	UsageSuggestion string `json:"usage_suggestion"`
}

// JSONWriter saves ranked results next to the report they came from.
type JSONWriter struct {
	dir string
}

var _ ports.ResultWriter = (*JSONWriter)(nil)

// NewJSONWriter writes beside the input report; a non-empty dir overrides the
// destination folder.
func NewJSONWriter(dir string) *JSONWriter {
	return &JSONWriter{dir: dir}
}

// PathFor maps "report.txt" to "report_scored.json".
func (w *JSONWriter) PathFor(source string) string {
	base := source
	switch strings.ToLower(filepath.Ext(source)) {
	case ".txt", ".html", ".htm":
		base = strings.TrimSuffix(source, filepath.Ext(source))
	}
	out := base + scoredSuffix
	if w.dir != "" {
		out = filepath.Join(w.dir, filepath.Base(out))
	}
	return out
}

// Write renders the run as an indented UTF-8 JSON array.
func (w *JSONWriter) Write(ctx context.Context, run domain.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries := make([]entry, 0, len(run.Results))
	for i, r := range run.Results {
		rating := r.Rating()
		entries = append(entries, entry{
			Rank:            i + 1,
			ScoreResult:     r,
			RatingLabel:     rating.Name,
			UsageSuggestion: rating.Suggestion,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	path := w.PathFor(run.SourceName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
