package usecase

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"HeadlineScorer/internal/domain"
	"HeadlineScorer/internal/ports"
)

// floorEpsilon absorbs float noise such as 6.9999999 before flooring.
const floorEpsilon = 1e-9

// PipelineConfig fixes thresholds and weights for a batch.
type PipelineConfig struct {
	Mode               domain.Mode
	MinScore           int
	PrefilterThreshold int
	Weights            domain.Weights
}

// Validate rejects configurations that cannot produce a meaningful ranking.
func (c PipelineConfig) Validate() error {
	switch c.Mode {
	case domain.ModeLexical, domain.ModeSemantic, domain.ModeHybrid:
	default:
		return &domain.ConfigError{Field: "mode", Reason: fmt.Sprintf("unsupported mode %q", c.Mode)}
	}
	if c.MinScore < 0 || c.MinScore > domain.MaxTotalScore {
		return &domain.ConfigError{Field: "minScore", Reason: fmt.Sprintf("%d outside [0,%d]", c.MinScore, domain.MaxTotalScore)}
	}
	if c.Mode == domain.ModeHybrid {
		if c.PrefilterThreshold < 0 || c.PrefilterThreshold > domain.MaxTotalScore {
			return &domain.ConfigError{Field: "keywordPrefilterThreshold", Reason: fmt.Sprintf("%d outside [0,%d]", c.PrefilterThreshold, domain.MaxTotalScore)}
		}
		if err := c.Weights.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// PipelineDeps wires the scoring stages into the orchestration pipeline.
type PipelineDeps struct {
	Lexical  ports.LexicalScorer
	Semantic ports.SemanticScorer
	Pacer    ports.Pacer
	Logger   *slog.Logger
}

// Pipeline scores a batch sequentially: a cheap lexical cut, an expensive
// semantic refinement on survivors, then a weighted merge.
type Pipeline struct {
	cfg      PipelineConfig
	lexical  ports.LexicalScorer
	semantic ports.SemanticScorer
	pacer    ports.Pacer
	logger   *slog.Logger
}

// Stats describes how a batch moved through the stages.
type Stats struct {
	Input         int
	Prefiltered   int
	Rejected      int
	SemanticCalls int
	Failed        int
	Kept          int
}

// Outcome is the ranked result of one batch.
type Outcome struct {
	Results []domain.ScoreResult
	Summary domain.Summary
	Stats   Stats
}

// Empty reports that no headline met the bar. This is not an error.
func (o Outcome) Empty() bool {
	return len(o.Results) == 0
}

// NewPipeline constructs the orchestration component. Preconditions are
// checked here so a misconfigured batch fails before any headline is scored.
func NewPipeline(cfg PipelineConfig, deps PipelineDeps) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode != domain.ModeSemantic && deps.Lexical == nil {
		return nil, &domain.ConfigError{Field: "lexical", Reason: fmt.Sprintf("%s mode requires a lexical scorer", cfg.Mode)}
	}
	if cfg.Mode.NeedsSemantic() && deps.Semantic == nil {
		return nil, &domain.ConfigError{Field: "llm.apiKey", Reason: fmt.Sprintf("%s mode requires semantic scoring credentials", cfg.Mode)}
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(discardHandler{})
	}

	return &Pipeline{
		cfg:      cfg,
		lexical:  deps.Lexical,
		semantic: deps.Semantic,
		pacer:    deps.Pacer,
		logger:   logger,
	}, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() PipelineConfig {
	return p.cfg
}

// Run scores headlines in input order and returns them ranked by descending
// total; equal totals keep their input order. Per-item semantic failures are
// logged and dropped. Only context cancellation aborts the batch.
func (p *Pipeline) Run(ctx context.Context, headlines []string) (Outcome, error) {
	stats := Stats{Input: len(headlines)}
	p.logger.Debug("run batch", "mode", p.cfg.Mode, "headlines", len(headlines), "min_score", p.cfg.MinScore)

	var (
		results []domain.ScoreResult
		err     error
	)
	switch p.cfg.Mode {
	case domain.ModeLexical:
		results = p.runLexical(headlines, p.cfg.MinScore, &stats)
	case domain.ModeSemantic:
		results, err = p.runSemantic(ctx, headlines, &stats)
	case domain.ModeHybrid:
		results, err = p.runHybrid(ctx, headlines, &stats)
	}
	if err != nil {
		return Outcome{}, err
	}

	slices.SortStableFunc(results, func(a, b domain.ScoreResult) int {
		return cmp.Compare(b.Total, a.Total)
	})
	stats.Kept = len(results)

	p.logger.Info("batch scored",
		"mode", p.cfg.Mode,
		"input", stats.Input,
		"prefiltered", stats.Prefiltered,
		"semantic_calls", stats.SemanticCalls,
		"failed", stats.Failed,
		"kept", stats.Kept)

	return Outcome{Results: results, Summary: domain.Summarize(results), Stats: stats}, nil
}

// runLexical keeps headlines whose lexical total reaches threshold. A
// blacklist hit scores 0 and is counted in Stats.Rejected.
func (p *Pipeline) runLexical(headlines []string, threshold int, stats *Stats) []domain.ScoreResult {
	var kept []domain.ScoreResult
	for _, headline := range headlines {
		score := p.lexical.Score(headline)
		if score.Rejected() {
			stats.Rejected++
			p.logger.Debug("headline vetoed", "headline", headline, "term", score.RejectReason)
		}
		if score.Total < threshold {
			continue
		}
		kept = append(kept, domain.FromLexical(headline, score))
	}
	stats.Prefiltered = len(kept)
	return kept
}

func (p *Pipeline) runSemantic(ctx context.Context, headlines []string, stats *Stats) ([]domain.ScoreResult, error) {
	var kept []domain.ScoreResult
	for _, headline := range headlines {
		res, ok, err := p.scoreSemantic(ctx, headline, stats)
		if err != nil {
			return nil, err
		}
		if ok && res.Total >= p.cfg.MinScore {
			kept = append(kept, res)
		}
	}
	return kept, nil
}

func (p *Pipeline) runHybrid(ctx context.Context, headlines []string, stats *Stats) ([]domain.ScoreResult, error) {
	survivors := p.runLexical(headlines, p.cfg.PrefilterThreshold, stats)
	if len(survivors) == 0 {
		p.logger.Info("no headline passed the lexical prefilter", "threshold", p.cfg.PrefilterThreshold)
		return nil, nil
	}

	var kept []domain.ScoreResult
	for _, lex := range survivors {
		sem, ok, err := p.scoreSemantic(ctx, lex.Headline, stats)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		merged := Merge(lex.Total, sem, p.cfg.Weights)
		if merged.Total >= p.cfg.MinScore {
			kept = append(kept, merged)
		}
	}
	return kept, nil
}

// scoreSemantic paces and performs one semantic call. ok is false when the
// item failed and was dropped; err is set only when the batch must stop.
func (p *Pipeline) scoreSemantic(ctx context.Context, headline string, stats *Stats) (domain.ScoreResult, bool, error) {
	if p.pacer != nil {
		if err := p.pacer.Wait(ctx); err != nil {
			return domain.ScoreResult{}, false, err
		}
	}

	stats.SemanticCalls++
	res, err := p.semantic.Score(ctx, headline)
	if p.pacer != nil {
		p.pacer.Done()
	}
	if err == nil {
		return res, true, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.ScoreResult{}, false, fmt.Errorf("semantic scoring interrupted: %w", ctxErr)
	}

	stats.Failed++
	attrs := []any{"headline", headline, "kind", domain.FailureKind(err), "error", err}
	var transport *domain.TransportError
	if errors.As(err, &transport) {
		attrs = append(attrs, "status", transport.StatusCode)
	}
	p.logger.Warn("semantic scoring failed, skipping headline", attrs...)
	return domain.ScoreResult{}, false, nil
}

// Merge blends a lexical total with a semantic result:
// floor(lexical*w.Lexical + semantic*w.Semantic). Dimensions and metadata
// come from the semantic stage.
func Merge(lexicalTotal int, sem domain.ScoreResult, w domain.Weights) domain.ScoreResult {
	blended := float64(lexicalTotal)*w.Lexical + float64(sem.Total)*w.Semantic
	merged := sem
	merged.Source = domain.SourceHybrid
	merged.Total = int(math.Floor(blended + floorEpsilon))
	merged.LexicalTotal = lexicalTotal
	merged.SemanticTotal = sem.Total
	return merged
}
