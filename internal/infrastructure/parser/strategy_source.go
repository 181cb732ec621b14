package parser

import (
	"context"
	"fmt"
	"log/slog"

	"HeadlineScorer/internal/ports"
	"HeadlineScorer/internal/scanner"
)

// FormatAuto selects the scanner from the report's file extension.
const FormatAuto = "auto"

// StrategySource implements TitleSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	path     string
	format   string
	logger   *slog.Logger
}

var _ ports.TitleSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with one report path.
func NewStrategySource(reg *scanner.Registry, path, format string, log *slog.Logger) *StrategySource {
	if format == "" {
		format = FormatAuto
	}
	return &StrategySource{
		registry: reg,
		path:     path,
		format:   format,
		logger:   log,
	}
}

// NewDefaultRegistry registers every built-in report format.
func NewDefaultRegistry() *scanner.Registry {
	registry := scanner.NewRegistry()
	registry.Register(NewTextReportScanner())
	registry.Register(NewHTMLReportScanner())
	return registry
}

// Name identifies the source in runs and logs.
func (s *StrategySource) Name() string {
	return s.path
}

// Titles resolves the strategy for the report and executes it.
func (s *StrategySource) Titles(ctx context.Context) ([]string, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	var (
		strategy scanner.Scanner
		err      error
	)
	if s.format == FormatAuto {
		strategy, err = s.registry.ResolvePath(s.path)
	} else {
		strategy, err = s.registry.Resolve(s.format)
	}
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", s.path, err)
	}

	s.debug("scan report", "path", s.path, "scanner", strategy.Name())
	titles, err := strategy.Scan(ctx, scanner.Request{Path: s.path})
	if err != nil {
		return nil, fmt.Errorf("scan report %s: %w", s.path, err)
	}
	s.debug("report produced titles", "path", s.path, "count", len(titles))
	return titles, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
