package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"HeadlineScorer/internal/config"
	"HeadlineScorer/internal/domain"
	"HeadlineScorer/internal/infrastructure/export"
	"HeadlineScorer/internal/infrastructure/llm"
	"HeadlineScorer/internal/infrastructure/pacing"
	"HeadlineScorer/internal/infrastructure/parser"
	"HeadlineScorer/internal/infrastructure/scheduler"
	"HeadlineScorer/internal/infrastructure/storage"
	"HeadlineScorer/internal/infrastructure/telegram"
	"HeadlineScorer/internal/lexical"
	"HeadlineScorer/internal/logging"
	"HeadlineScorer/internal/ports"
	"HeadlineScorer/internal/report"
	"HeadlineScorer/internal/scanner"
	"HeadlineScorer/internal/semantic"
	"HeadlineScorer/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *scanner.Registry
	out      io.Writer
}

// Options toggles the optional sinks of a run.
type Options struct {
	// Save persists the run when a database DSN is configured.
	Save bool
	// Notify sends a Telegram digest when credentials are configured.
	Notify bool
}

// New builds an application instance around a validated configuration.
func New(cfg config.Config, baseLogger *slog.Logger, out io.Writer) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	if out == nil {
		out = io.Discard
	}
	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		registry: parser.NewDefaultRegistry(),
		out:      out,
	}
}

// Config returns the configuration the application runs with.
func (a *Application) Config() config.Config {
	return a.cfg
}

// Rules loads the effective lexical rule tables.
func (a *Application) Rules() (lexical.RuleSet, error) {
	if a.cfg.Scoring.RulesPath == "" {
		return lexical.DefaultRuleSet(), nil
	}
	rules, err := lexical.LoadRuleSet(a.cfg.Scoring.RulesPath)
	if err != nil {
		return lexical.RuleSet{}, err
	}
	return rules, nil
}

// Score runs one batch over the report at path and prints the ranked result.
func (a *Application) Score(ctx context.Context, path string, opts Options) (usecase.Report, error) {
	source := parser.NewStrategySource(a.registry, path, a.cfg.Source.Format, a.logger.With("component", "source"))
	job, closeFn, err := a.buildJob(ctx, source, opts, false)
	if err != nil {
		return usecase.Report{}, err
	}
	defer closeFn()

	rep, err := job.Process(ctx)
	if err != nil {
		return rep, err
	}
	if err := report.Render(a.out, rep.Run, reportStats(rep.Stats)); err != nil {
		return rep, fmt.Errorf("render report: %w", err)
	}
	return rep, nil
}

// Watch re-scores the newest report under dir on every scheduler tick until
// ctx is cancelled. Headlines already stored are skipped when storage is on.
func (a *Application) Watch(ctx context.Context, dir string, opts Options) error {
	source := parser.NewLatestSource(a.registry, dir, a.cfg.Source.Format, a.logger.With("component", "source"))
	job, closeFn, err := a.buildJob(ctx, source, opts, true)
	if err != nil {
		return err
	}
	defer closeFn()

	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Every(), a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, job, a.logger.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("watching reports", "dir", dir, "every", a.cfg.Scheduler.Every())

	<-ctx.Done()
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.LLM.Timeout()+a.cfg.Scheduler.Every())
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return nil
}

// RecentRuns lists stored runs, newest first.
func (a *Application) RecentRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if a.cfg.Database.DSN == "" {
		return nil, &domain.ConfigError{Field: "database.dsn", Reason: "listing runs requires a DSN (set DATABASE_DSN)"}
	}
	repo, err := storage.Open(ctx, a.cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	defer repo.Close()
	return repo.RecentRuns(ctx, limit)
}

// NewPipeline assembles the scorers required by the configured mode.
func (a *Application) NewPipeline() (*usecase.Pipeline, error) {
	mode, err := a.cfg.Scoring.ParsedMode()
	if err != nil {
		return nil, err
	}

	deps := usecase.PipelineDeps{Logger: a.logger.With("component", "pipeline")}

	if mode != domain.ModeSemantic {
		rules, err := a.Rules()
		if err != nil {
			return nil, err
		}
		lex, err := lexical.NewScorer(rules)
		if err != nil {
			return nil, err
		}
		deps.Lexical = lex
	}

	if mode.NeedsSemantic() {
		client, err := llm.NewChatGPTClient(a.cfg.LLM)
		if err != nil {
			return nil, err
		}
		sem, err := semantic.NewScorer(client, a.cfg.LLM.PromptTemplate)
		if err != nil {
			return nil, err
		}
		deps.Semantic = sem
		deps.Pacer = pacing.New(a.cfg.Scoring.BatchDelay())
		a.logger.Debug("semantic scoring enabled", "model", client.Model(), "delay", a.cfg.Scoring.BatchDelay())
	}

	return usecase.NewPipeline(usecase.PipelineConfig{
		Mode:               mode,
		MinScore:           a.cfg.Scoring.MinScore,
		PrefilterThreshold: a.cfg.Scoring.KeywordPrefilterThreshold,
		Weights:            a.cfg.Scoring.Weights,
	}, deps)
}

func (a *Application) buildJob(ctx context.Context, source ports.TitleSource, opts Options, skipSeen bool) (*usecase.Job, func(), error) {
	pipeline, err := a.NewPipeline()
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {}
	deps := usecase.JobDeps{
		Source:   source,
		Pipeline: pipeline,
		Logger:   a.logger.With("component", "job"),
		TopN:     a.cfg.Notifications.Telegram.TopN,
	}

	if a.cfg.Output.JSON {
		deps.Writers = append(deps.Writers, export.NewJSONWriter(""))
	}

	if opts.Save {
		if a.cfg.Database.DSN == "" {
			return nil, nil, &domain.ConfigError{Field: "database.dsn", Reason: "saving runs requires a DSN (set DATABASE_DSN)"}
		}
		repo, err := storage.Open(ctx, a.cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		deps.Repository = repo
		deps.SkipSeen = skipSeen
		closeFn = func() {
			if err := repo.Close(); err != nil {
				a.logger.Warn("close repository", "error", err)
			}
		}
	}

	if opts.Notify {
		tg := a.cfg.Notifications.Telegram
		if !tg.Enabled() {
			closeFn()
			return nil, nil, &domain.ConfigError{Field: "notifications.telegram", Reason: "bot token and chat id are required"}
		}
		deps.Notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	job, err := usecase.NewJob(deps)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return job, closeFn, nil
}

func reportStats(s usecase.Stats) report.Stats {
	return report.Stats{Input: s.Input, SemanticCalls: s.SemanticCalls, Failed: s.Failed}
}
