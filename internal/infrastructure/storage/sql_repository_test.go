package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HeadlineScorer/internal/domain"
)

func openTestRepo(t *testing.T) *SQLRepository {
	t.Helper()
	repo, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleRun(id string, created time.Time, headlines ...string) domain.Run {
	results := make([]domain.ScoreResult, 0, len(headlines))
	for i, h := range headlines {
		results = append(results, domain.ScoreResult{
			Headline:   h,
			Source:     domain.SourceLexical,
			Dimensions: domain.DimensionScore{Audience: 10, Interest: 10, Simplicity: 10 - i},
			Total:      30 - i,
		})
	}
	return domain.Run{
		ID:         id,
		SourceName: "output/2025年01月02日/txt/12时30分.txt",
		Mode:       domain.ModeLexical,
		MinScore:   18,
		InputCount: len(headlines) + 1,
		Results:    results,
		Summary:    domain.Summarize(results),
		CreatedAt:  created,
	}
}

func TestDialectFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "postgres", DialectFor("postgres://user@localhost/db").Driver)
	assert.Equal(t, "postgres", DialectFor("POSTGRESQL://localhost/db").Driver)
	assert.Equal(t, "sqlite", DialectFor("file:runs.db").Driver)
	assert.Equal(t, "sqlite", DialectFor("/var/lib/scorer/runs.db").Driver)
}

func TestPostgresPlaceholders(t *testing.T) {
	t.Parallel()

	repo := NewSQLRepository(nil, Postgres)
	query, _, err := repo.builder.Select("headline").From("scored_headlines").
		Where("headline = ?", "x").ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "$1")
}

func TestSaveRunAndSeenHeadlines(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	run := sampleRun("run-1", time.Date(2025, 1, 2, 12, 30, 0, 0, time.UTC), "工资拖欠", "房租上涨")
	require.NoError(t, repo.SaveRun(ctx, run))

	seen, err := repo.SeenHeadlines(ctx, []string{"工资拖欠", "春节红包", "房租上涨"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"工资拖欠": true, "房租上涨": true}, seen)

	empty, err := repo.SeenHeadlines(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSeenHeadlinesBatches(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveRun(ctx, sampleRun("run-1", time.Now(), "needle")))

	haystack := make([]string, 0, seenBatchSize*2+1)
	for i := 0; i < seenBatchSize*2; i++ {
		haystack = append(haystack, "filler")
	}
	haystack = append(haystack, "needle")

	seen, err := repo.SeenHeadlines(ctx, haystack)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"needle": true}, seen)
}

func TestRecentRunsNewestFirst(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveRun(ctx, sampleRun("old", base, "a")))
	require.NoError(t, repo.SaveRun(ctx, sampleRun("new", base.Add(90*time.Minute), "b", "c")))
	require.NoError(t, repo.SaveRun(ctx, sampleRun("mid", base.Add(500*time.Millisecond), "d")))

	runs, err := repo.RecentRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "mid", runs[1].ID)
	assert.Equal(t, domain.ModeLexical, runs[0].Mode)
	assert.Equal(t, 2, runs[0].Summary.Kept)
	assert.True(t, runs[0].CreatedAt.Equal(base.Add(90*time.Minute)))
}

func TestSaveRunDuplicateIDFails(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()
	run := sampleRun("same", time.Now(), "a")

	require.NoError(t, repo.SaveRun(ctx, run))
	assert.Error(t, repo.SaveRun(ctx, run))

	runs, err := repo.RecentRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "failed transaction leaves no partial run")
}
