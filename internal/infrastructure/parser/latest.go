package parser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"HeadlineScorer/internal/ports"
	"HeadlineScorer/internal/scanner"
)

// FindLatestReport returns the newest text report under root, laid out as
// <root>/<date>/txt/<time>.txt. Directory and file names sort chronologically,
// so the lexically largest entry wins. Date folders without reports are skipped.
func FindLatestReport(root string) (string, error) {
	dates, err := sortedEntries(root, true)
	if err != nil {
		return "", fmt.Errorf("list report root: %w", err)
	}
	for _, date := range dates {
		txtDir := filepath.Join(root, date, "txt")
		files, err := sortedEntries(txtDir, false)
		if err != nil {
			continue
		}
		for _, name := range files {
			if filepath.Ext(name) == ".txt" {
				return filepath.Join(txtDir, name), nil
			}
		}
	}
	return "", fmt.Errorf("no report found under %s", root)
}

func sortedEntries(dir string, dirs bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() == dirs {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// LatestSource re-resolves the newest report under a root on every read.
type LatestSource struct {
	root     string
	registry *scanner.Registry
	format   string
	logger   *slog.Logger

	mu   sync.Mutex
	last string
}

var _ ports.TitleSource = (*LatestSource)(nil)

// NewLatestSource watches root for TrendRadar-style report folders.
func NewLatestSource(reg *scanner.Registry, root, format string, log *slog.Logger) *LatestSource {
	return &LatestSource{root: root, registry: reg, format: format, logger: log}
}

// Name returns the report read by the most recent Titles call.
func (l *LatestSource) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last == "" {
		return l.root
	}
	return l.last
}

// Titles locates the newest report and scans it.
func (l *LatestSource) Titles(ctx context.Context) ([]string, error) {
	path, err := FindLatestReport(l.root)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.last = path
	l.mu.Unlock()

	return NewStrategySource(l.registry, path, l.format, l.logger).Titles(ctx)
}
