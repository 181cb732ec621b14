package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"HeadlineScorer/internal/domain"
	"HeadlineScorer/internal/infrastructure/pacing"
)

// stubLexical returns fixed totals per headline; unknown headlines score 0.
type stubLexical struct {
	totals map[string]int
	vetoed map[string]string
}

func (s stubLexical) Score(headline string) domain.LexicalScore {
	if reason, ok := s.vetoed[headline]; ok {
		return domain.LexicalScore{RejectReason: reason}
	}
	total := s.totals[headline]
	return domain.LexicalScore{Total: total, Dimensions: domain.DimensionScore{Audience: total}}
}

// stubSemantic answers from a table and records every call.
type stubSemantic struct {
	mu      sync.Mutex
	totals  map[string]int
	failing map[string]error
	calls   []string
}

func (s *stubSemantic) Score(_ context.Context, headline string) (domain.ScoreResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, headline)
	s.mu.Unlock()

	if err, ok := s.failing[headline]; ok {
		return domain.ScoreResult{}, err
	}
	total := s.totals[headline]
	return domain.ScoreResult{
		Headline:       headline,
		Source:         domain.SourceSemantic,
		Dimensions:     domain.DimensionScore{Interest: total},
		Total:          total,
		SemanticTotal:  total,
		SuggestedAngle: "angle for " + headline,
	}, nil
}

type countingPacer struct{ waits, dones int }

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits++
	return ctx.Err()
}

func (p *countingPacer) Done() { p.dones++ }

func hybridConfig() PipelineConfig {
	return PipelineConfig{
		Mode:               domain.ModeHybrid,
		MinScore:           0,
		PrefilterThreshold: 12,
		Weights:            domain.DefaultWeights(),
	}
}

func TestMergeFloorsWeightedSum(t *testing.T) {
	t.Parallel()

	got := Merge(20, domain.ScoreResult{Total: 10, Headline: "h"}, domain.Weights{Lexical: 0.3, Semantic: 0.7})

	assert.Equal(t, 13, got.Total)
	assert.Equal(t, domain.SourceHybrid, got.Source)
	assert.Equal(t, 20, got.LexicalTotal)
	assert.Equal(t, 10, got.SemanticTotal)

	// 1*0.1 + 3*0.3 evaluates to 0.9999999999999999 but must floor to 1.
	assert.Equal(t, 1, Merge(1, domain.ScoreResult{Total: 3}, domain.Weights{Lexical: 0.1, Semantic: 0.3}).Total)
}

func TestHybridCallsSemanticOnlyForSurvivors(t *testing.T) {
	t.Parallel()

	lex := stubLexical{totals: map[string]int{"strong": 20, "weak": 11, "edge": 12}}
	sem := &stubSemantic{totals: map[string]int{"strong": 10, "edge": 30}}
	pacer := &countingPacer{}

	p, err := NewPipeline(hybridConfig(), PipelineDeps{Lexical: lex, Semantic: sem, Pacer: pacer})
	require.NoError(t, err)

	out, err := p.Run(context.Background(), []string{"weak", "strong", "edge"})
	require.NoError(t, err)

	assert.Equal(t, []string{"strong", "edge"}, sem.calls)
	assert.Equal(t, 2, pacer.waits)
	assert.Equal(t, 2, pacer.dones)
	require.Len(t, out.Results, 2)

	// edge: floor(12*0.3 + 30*0.7) = floor(24.6) = 24; strong: 13.
	assert.Equal(t, "edge", out.Results[0].Headline)
	assert.Equal(t, 24, out.Results[0].Total)
	assert.Equal(t, "strong", out.Results[1].Headline)
	assert.Equal(t, 13, out.Results[1].Total)
	assert.Equal(t, "angle for strong", out.Results[1].SuggestedAngle)

	assert.Equal(t, Stats{Input: 3, Prefiltered: 2, SemanticCalls: 2, Kept: 2}, out.Stats)
}

func TestHybridAppliesMinScoreToMergedTotal(t *testing.T) {
	t.Parallel()

	cfg := hybridConfig()
	cfg.MinScore = 14
	lex := stubLexical{totals: map[string]int{"a": 20, "b": 20}}
	sem := &stubSemantic{totals: map[string]int{"a": 10, "b": 12}}

	p, err := NewPipeline(cfg, PipelineDeps{Lexical: lex, Semantic: sem})
	require.NoError(t, err)

	out, err := p.Run(context.Background(), []string{"a", "b"})
	require.NoError(t, err)

	// a: 13 (dropped), b: floor(6 + 8.4) = 14 (kept).
	require.Len(t, out.Results, 1)
	assert.Equal(t, "b", out.Results[0].Headline)
}

func TestAllSemanticFailuresYieldEmptyOutcome(t *testing.T) {
	t.Parallel()

	headlines := []string{"a", "b", "c"}
	sem := &stubSemantic{failing: map[string]error{
		"a": &domain.TransportError{StatusCode: 500},
		"b": &domain.NetworkError{Timeout: true, Err: errors.New("deadline")},
		"c": &domain.ParseError{Reason: "no JSON object found"},
	}}

	p, err := NewPipeline(PipelineConfig{Mode: domain.ModeSemantic, MinScore: 0}, PipelineDeps{Semantic: sem})
	require.NoError(t, err)

	out, err := p.Run(context.Background(), headlines)
	require.NoError(t, err)

	assert.True(t, out.Empty())
	assert.Equal(t, headlines, sem.calls, "one failure never stops the rest of the batch")
	assert.Equal(t, 3, out.Stats.Failed)
}

func TestPartialFailureKeepsOtherItems(t *testing.T) {
	t.Parallel()

	sem := &stubSemantic{
		totals:  map[string]int{"a": 20, "c": 25},
		failing: map[string]error{"b": &domain.TransportError{StatusCode: 502}},
	}
	p, err := NewPipeline(PipelineConfig{Mode: domain.ModeSemantic, MinScore: 18}, PipelineDeps{Semantic: sem})
	require.NoError(t, err)

	out, err := p.Run(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)

	require.Len(t, out.Results, 2)
	assert.Equal(t, "c", out.Results[0].Headline)
	assert.Equal(t, "a", out.Results[1].Headline)
	assert.Equal(t, domain.Summary{Excellent: 1, Fair: 1, Kept: 2}, out.Summary)
}

func TestLexicalModeRanksStablyAndKeepsVetoedAtZeroThreshold(t *testing.T) {
	t.Parallel()

	lex := stubLexical{
		totals: map[string]int{"first": 20, "second": 25, "third": 20, "low": 5},
		vetoed: map[string]string{"celebrity": "明星"},
	}
	input := []string{"first", "celebrity", "second", "low", "third"}

	p, err := NewPipeline(PipelineConfig{Mode: domain.ModeLexical, MinScore: 0}, PipelineDeps{Lexical: lex})
	require.NoError(t, err)

	out, err := p.Run(context.Background(), input)
	require.NoError(t, err)

	var order []string
	for _, r := range out.Results {
		order = append(order, r.Headline)
		assert.Equal(t, domain.SourceLexical, r.Source)
	}
	assert.Equal(t, []string{"second", "first", "third", "low", "celebrity"}, order, "a vetoed headline scores 0 and 0 >= 0")
	assert.Equal(t, 0, out.Results[4].Total)
	assert.Equal(t, 1, out.Stats.Rejected)

	p, err = NewPipeline(PipelineConfig{Mode: domain.ModeLexical, MinScore: 1}, PipelineDeps{Lexical: lex})
	require.NoError(t, err)

	out, err = p.Run(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, out.Results, 4)
	for _, r := range out.Results {
		assert.NotEqual(t, "celebrity", r.Headline)
	}
	assert.Equal(t, 1, out.Stats.Rejected)
}

func TestRankingIsDescendingAndStable(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		totals := rapid.SliceOfN(rapid.IntRange(0, domain.MaxTotalScore), 0, 40).Draw(rt, "totals")
		minScore := rapid.IntRange(0, domain.MaxTotalScore).Draw(rt, "minScore")

		lex := stubLexical{totals: map[string]int{}}
		headlines := make([]string, len(totals))
		position := map[string]int{}
		for i, total := range totals {
			headlines[i] = fmt.Sprintf("h%02d", i)
			lex.totals[headlines[i]] = total
			position[headlines[i]] = i
		}

		p, err := NewPipeline(PipelineConfig{Mode: domain.ModeLexical, MinScore: minScore}, PipelineDeps{Lexical: lex})
		if err != nil {
			rt.Fatalf("new pipeline: %v", err)
		}
		out, err := p.Run(context.Background(), headlines)
		if err != nil {
			rt.Fatalf("run: %v", err)
		}

		want := 0
		for _, total := range totals {
			if total >= minScore {
				want++
			}
		}
		if len(out.Results) != want {
			rt.Fatalf("kept %d results, want %d", len(out.Results), want)
		}
		for i := 1; i < len(out.Results); i++ {
			prev, cur := out.Results[i-1], out.Results[i]
			if prev.Total < cur.Total {
				rt.Fatalf("rank %d (%d) above rank %d (%d)", i, prev.Total, i+1, cur.Total)
			}
			if prev.Total == cur.Total && position[prev.Headline] > position[cur.Headline] {
				rt.Fatalf("tie %s/%s not in input order", prev.Headline, cur.Headline)
			}
		}
	})
}

func TestSemanticCallsAreSpacedFromPreviousCompletion(t *testing.T) {
	t.Parallel()

	const (
		callTime = 60 * time.Millisecond
		delay    = 40 * time.Millisecond
	)
	sem := &timedSemantic{latency: callTime}
	p, err := NewPipeline(PipelineConfig{Mode: domain.ModeSemantic}, PipelineDeps{Semantic: sem, Pacer: pacing.New(delay)})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)

	require.Len(t, sem.starts, 3)
	for i := 1; i < len(sem.starts); i++ {
		gap := sem.starts[i].Sub(sem.ends[i-1])
		assert.GreaterOrEqual(t, gap, delay-5*time.Millisecond, "gap before call %d", i+1)
	}
}

// timedSemantic sleeps for latency and records when each call started and ended.
type timedSemantic struct {
	latency time.Duration
	starts  []time.Time
	ends    []time.Time
}

func (s *timedSemantic) Score(ctx context.Context, headline string) (domain.ScoreResult, error) {
	s.starts = append(s.starts, time.Now())
	defer func() { s.ends = append(s.ends, time.Now()) }()

	select {
	case <-time.After(s.latency):
	case <-ctx.Done():
		return domain.ScoreResult{}, ctx.Err()
	}
	return domain.ScoreResult{Headline: headline, Source: domain.SourceSemantic, Total: 20, SemanticTotal: 20}, nil
}

func TestLexicalModeDuplicatesAreScoredIndependently(t *testing.T) {
	t.Parallel()

	lex := stubLexical{totals: map[string]int{"dup": 20}}
	p, err := NewPipeline(PipelineConfig{Mode: domain.ModeLexical, MinScore: 18}, PipelineDeps{Lexical: lex})
	require.NoError(t, err)

	out, err := p.Run(context.Background(), []string{"dup", "dup"})
	require.NoError(t, err)
	assert.Len(t, out.Results, 2)
}

func TestEmptyInput(t *testing.T) {
	t.Parallel()

	p, err := NewPipeline(hybridConfig(), PipelineDeps{Lexical: stubLexical{}, Semantic: &stubSemantic{}})
	require.NoError(t, err)

	out, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, out.Empty())
}

func TestCancellationAbortsBatch(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sem := &stubSemantic{totals: map[string]int{"a": 20}}
	p, err := NewPipeline(PipelineConfig{Mode: domain.ModeSemantic}, PipelineDeps{Semantic: sem, Pacer: &countingPacer{}})
	require.NoError(t, err)

	_, err = p.Run(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sem.calls)
}

func TestNewPipelinePreconditions(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		cfg  PipelineConfig
		deps PipelineDeps
	}{
		"semantic without scorer": {PipelineConfig{Mode: domain.ModeSemantic}, PipelineDeps{}},
		"hybrid without scorer":   {hybridConfig(), PipelineDeps{Lexical: stubLexical{}}},
		"lexical without scorer":  {PipelineConfig{Mode: domain.ModeLexical}, PipelineDeps{}},
		"unknown mode":            {PipelineConfig{Mode: "vector"}, PipelineDeps{Lexical: stubLexical{}}},
		"score out of range":      {PipelineConfig{Mode: domain.ModeLexical, MinScore: 31}, PipelineDeps{Lexical: stubLexical{}}},
		"negative weight": {
			PipelineConfig{Mode: domain.ModeHybrid, Weights: domain.Weights{Lexical: -1, Semantic: 1}},
			PipelineDeps{Lexical: stubLexical{}, Semantic: &stubSemantic{}},
		},
	}
	for name, tc := range cases {
		_, err := NewPipeline(tc.cfg, tc.deps)
		var cfgErr *domain.ConfigError
		assert.ErrorAs(t, err, &cfgErr, name)
	}
}
