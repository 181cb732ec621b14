package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"HeadlineScorer/internal/domain"
	"HeadlineScorer/internal/ports"
)

const defaultDigestSize = 5

// JobDeps wires a title source and the result sinks around a pipeline.
type JobDeps struct {
	Source     ports.TitleSource
	Pipeline   *Pipeline
	Repository ports.ResultRepository
	Writers    []ports.ResultWriter
	Notifier   ports.Notifier
	Logger     *slog.Logger
	// SkipSeen drops headlines the repository already stored.
	SkipSeen bool
	TopN     int
	Clock    func() time.Time
}

// Job reads one report, scores it and fans the run out to the sinks.
type Job struct {
	source     ports.TitleSource
	pipeline   *Pipeline
	repository ports.ResultRepository
	writers    []ports.ResultWriter
	notifier   ports.Notifier
	logger     *slog.Logger
	skipSeen   bool
	topN       int
	clock      func() time.Time
}

// Report is what a single Process call produced.
type Report struct {
	Run   domain.Run
	Stats Stats
}

// NewJob validates the wiring.
func NewJob(deps JobDeps) (*Job, error) {
	if deps.Source == nil {
		return nil, &domain.ConfigError{Field: "source", Reason: "a title source is required"}
	}
	if deps.Pipeline == nil {
		return nil, &domain.ConfigError{Field: "pipeline", Reason: "a scoring pipeline is required"}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	topN := deps.TopN
	if topN <= 0 {
		topN = defaultDigestSize
	}

	return &Job{
		source:     deps.Source,
		pipeline:   deps.Pipeline,
		repository: deps.Repository,
		writers:    deps.Writers,
		notifier:   deps.Notifier,
		logger:     logger,
		skipSeen:   deps.SkipSeen,
		topN:       topN,
		clock:      clock,
	}, nil
}

// Process executes one end-to-end pass. An empty outcome is returned without
// touching the sinks.
func (j *Job) Process(ctx context.Context) (Report, error) {
	titles, err := j.source.Titles(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("read titles: %w", err)
	}
	sourceName := j.source.Name()
	j.logger.Info("titles loaded", "source", sourceName, "count", len(titles))

	if j.skipSeen && j.repository != nil && len(titles) > 0 {
		titles, err = j.filterSeen(ctx, titles)
		if err != nil {
			return Report{}, err
		}
	}

	outcome, err := j.pipeline.Run(ctx, titles)
	if err != nil {
		return Report{}, err
	}

	cfg := j.pipeline.Config()
	run := domain.Run{
		ID:         uuid.NewString(),
		SourceName: sourceName,
		Mode:       cfg.Mode,
		MinScore:   cfg.MinScore,
		InputCount: len(titles),
		Results:    outcome.Results,
		Summary:    outcome.Summary,
		CreatedAt:  j.clock().UTC(),
	}
	report := Report{Run: run, Stats: outcome.Stats}

	if outcome.Empty() {
		j.logger.Info("no headline met the bar", "source", sourceName, "min_score", cfg.MinScore)
		return report, nil
	}

	if j.repository != nil {
		if err := j.repository.SaveRun(ctx, run); err != nil {
			return report, fmt.Errorf("save run: %w", err)
		}
	}
	for _, w := range j.writers {
		if err := w.Write(ctx, run); err != nil {
			return report, fmt.Errorf("write run: %w", err)
		}
	}
	if j.notifier != nil {
		if err := j.notifier.PublishDigest(ctx, FormatDigest(run, j.topN)); err != nil {
			j.logger.Warn("digest not delivered", "error", err)
		}
	}

	return report, nil
}

func (j *Job) filterSeen(ctx context.Context, titles []string) ([]string, error) {
	seen, err := j.repository.SeenHeadlines(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("load seen headlines: %w", err)
	}
	fresh := make([]string, 0, len(titles))
	for _, t := range titles {
		if !seen[t] {
			fresh = append(fresh, t)
		}
	}
	if skipped := len(titles) - len(fresh); skipped > 0 {
		j.logger.Debug("skipping already stored headlines", "count", skipped)
	}
	return fresh, nil
}

// FormatDigest renders the top n results of a run as a Markdown message.
func FormatDigest(run domain.Run, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Headline digest* (%s, %d of %d kept)\n", run.Mode, run.Summary.Kept, run.InputCount)
	for i, r := range run.Results {
		if i >= n {
			break
		}
		rating := r.Rating()
		fmt.Fprintf(&b, "%d. [%d] %s (%s)\n", i+1, r.Total, escapeMarkdown(r.Headline), rating.Name)
		if r.SuggestedAngle != "" {
			fmt.Fprintf(&b, "   _%s_\n", escapeMarkdown(r.SuggestedAngle))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "[", `\[`, "`", "\\`")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
