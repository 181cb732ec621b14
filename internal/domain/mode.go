package domain

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects which scoring stages a batch runs through.
type Mode string

const (
	ModeLexical  Mode = "lexical"
	ModeSemantic Mode = "semantic"
	ModeHybrid   Mode = "hybrid"
)

// ParseMode accepts the canonical names plus the legacy keyword/ai aliases.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "lexical", "keyword", "lexicalonly":
		return ModeLexical, nil
	case "semantic", "ai", "semanticonly":
		return ModeSemantic, nil
	case "hybrid":
		return ModeHybrid, nil
	default:
		return "", &ConfigError{Field: "mode", Reason: fmt.Sprintf("unsupported mode %q (want lexical, semantic or hybrid)", value)}
	}
}

// NeedsSemantic reports whether the mode calls the language model.
func (m Mode) NeedsSemantic() bool {
	return m == ModeSemantic || m == ModeHybrid
}

// maxWeight keeps a blended total well inside int range.
const maxWeight = 1000.0

// Weights blend lexical and semantic totals in hybrid mode.
type Weights struct {
	Lexical  float64 `json:"lexical_weight" yaml:"lexicalWeight"`
	Semantic float64 `json:"semantic_weight" yaml:"semanticWeight"`
}

// DefaultWeights favours the semantic judgment.
func DefaultWeights() Weights {
	return Weights{Lexical: 0.3, Semantic: 0.7}
}

// Validate rejects weights that cannot produce a meaningful blend.
// Weights are not required to sum to one.
func (w Weights) Validate() error {
	if math.IsNaN(w.Lexical) || math.IsNaN(w.Semantic) || math.IsInf(w.Lexical, 0) || math.IsInf(w.Semantic, 0) {
		return &ConfigError{Field: "weights", Reason: "weights must be finite numbers"}
	}
	if w.Lexical > maxWeight || w.Semantic > maxWeight {
		return &ConfigError{Field: "weights", Reason: fmt.Sprintf("weights must not exceed %g, got %g/%g", maxWeight, w.Lexical, w.Semantic)}
	}
	if w.Lexical < 0 || w.Semantic < 0 {
		return &ConfigError{Field: "weights", Reason: fmt.Sprintf("weights must be non-negative, got %.2f/%.2f", w.Lexical, w.Semantic)}
	}
	if w.Lexical == 0 && w.Semantic == 0 {
		return &ConfigError{Field: "weights", Reason: "at least one weight must be positive"}
	}
	return nil
}
