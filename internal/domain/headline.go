package domain

import (
	"strings"
	"time"
)

// Score bounds shared by every dimension and by the aggregate.
const (
	MinDimensionScore = 0
	MaxDimensionScore = 10
	MaxTotalScore     = 3 * MaxDimensionScore
)

// ScoreSource records which stage produced a ScoreResult.
type ScoreSource string

const (
	SourceLexical  ScoreSource = "lexical"
	SourceSemantic ScoreSource = "semantic"
	SourceHybrid   ScoreSource = "hybrid"
)

// Sentiment is the emotional tone reported by the semantic stage.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ParseSentiment normalises free text into a Sentiment; unknown values stay unset.
func ParseSentiment(value string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(value))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	case SentimentNeutral:
		return SentimentNeutral
	default:
		return ""
	}
}

// DimensionScore holds the three independent hook-quality scores.
type DimensionScore struct {
	Audience   int `json:"audience" yaml:"audience"`
	Interest   int `json:"interest" yaml:"interest"`
	Simplicity int `json:"simplicity" yaml:"simplicity"`
}

// Clamped returns a copy with every component forced into [0,10].
func (d DimensionScore) Clamped() DimensionScore {
	return DimensionScore{
		Audience:   ClampDimension(d.Audience),
		Interest:   ClampDimension(d.Interest),
		Simplicity: ClampDimension(d.Simplicity),
	}
}

// Total is always recomputed from the components.
func (d DimensionScore) Total() int {
	return d.Audience + d.Interest + d.Simplicity
}

// ClampDimension forces a single dimension score into [0,10].
func ClampDimension(v int) int {
	if v < MinDimensionScore {
		return MinDimensionScore
	}
	if v > MaxDimensionScore {
		return MaxDimensionScore
	}
	return v
}

// LexicalScore is the outcome of the keyword rules for one headline.
type LexicalScore struct {
	Total        int
	Dimensions   DimensionScore
	RejectReason string
}

// Rejected reports whether the blacklist vetoed the headline.
func (s LexicalScore) Rejected() bool {
	return s.RejectReason != ""
}

// ScoreResult is the scored form of a single headline.
type ScoreResult struct {
	Headline       string         `json:"headline"`
	Source         ScoreSource    `json:"source"`
	Dimensions     DimensionScore `json:"dimensions"`
	Total          int            `json:"total"`
	Rationale      string         `json:"rationale,omitempty"`
	SuggestedAngle string         `json:"suggested_angle,omitempty"`
	AudienceHint   string         `json:"audience_hint,omitempty"`
	Sentiment      Sentiment      `json:"sentiment,omitempty"`
	LexicalTotal   int            `json:"lexical_total,omitempty"`
	SemanticTotal  int            `json:"semantic_total,omitempty"`
	RejectReason   string         `json:"reject_reason,omitempty"`
}

// Rating returns the quality band of the result's total.
func (r ScoreResult) Rating() Rating {
	return RatingFor(r.Total)
}

// FromLexical converts a lexical score into a result.
func FromLexical(headline string, s LexicalScore) ScoreResult {
	return ScoreResult{
		Headline:     headline,
		Source:       SourceLexical,
		Dimensions:   s.Dimensions,
		Total:        s.Total,
		LexicalTotal: s.Total,
		RejectReason: s.RejectReason,
	}
}

// Run captures one scored batch handed to the result sinks.
type Run struct {
	ID         string
	SourceName string
	Mode       Mode
	MinScore   int
	InputCount int
	Results    []ScoreResult
	Summary    Summary
	CreatedAt  time.Time
}
