package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"HeadlineScorer/internal/domain"
	"HeadlineScorer/internal/ports"
)

const (
	// seenBatchSize bounds the IN list of a single lookup.
	seenBatchSize   = 500
	// insertBatchSize keeps multi-row inserts under SQLite's variable limit.
	insertBatchSize = 200
	// timeLayout is fixed width so created_at sorts as text.
	timeLayout      = "2006-01-02T15:04:05.000000000Z07:00"
)

// Dialect selects driver name, placeholders and DDL.
type Dialect struct {
	Driver      string
	Placeholder sq.PlaceholderFormat
	schema      []string
}

var (
	// Postgres stores runs through lib/pq.
	Postgres = Dialect{Driver: "postgres", Placeholder: sq.Dollar, schema: schema("BIGINT")}
	// SQLite stores runs in an embedded database file.
	SQLite = Dialect{Driver: "sqlite", Placeholder: sq.Question, schema: schema("INTEGER")}
)

func schema(intType string) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			source      TEXT NOT NULL,
			mode        TEXT NOT NULL,
			min_score   ` + intType + ` NOT NULL,
			input_count ` + intType + ` NOT NULL,
			kept        ` + intType + ` NOT NULL,
			perfect     ` + intType + ` NOT NULL,
			excellent   ` + intType + ` NOT NULL,
			fair        ` + intType + ` NOT NULL,
			created_at  TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scored_headlines (
			run_id          TEXT NOT NULL REFERENCES runs(id),
			position        ` + intType + ` NOT NULL,
			headline        TEXT NOT NULL,
			source          TEXT NOT NULL,
			total           ` + intType + ` NOT NULL,
			audience        ` + intType + ` NOT NULL,
			interest        ` + intType + ` NOT NULL,
			simplicity      ` + intType + ` NOT NULL,
			lexical_total   ` + intType + ` NOT NULL,
			semantic_total  ` + intType + ` NOT NULL,
			rationale       TEXT NOT NULL,
			suggested_angle TEXT NOT NULL,
			audience_hint   TEXT NOT NULL,
			sentiment       TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS scored_headlines_headline ON scored_headlines (headline)`,
	}
}

// DialectFor picks Postgres for postgres URLs and SQLite for anything else.
func DialectFor(dsn string) Dialect {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return Postgres
	}
	return SQLite
}

// SQLRepository persists scored runs into Postgres or SQLite.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
	builder sq.StatementBuilderType
}

var _ ports.ResultRepository = (*SQLRepository)(nil)

// Open connects to dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*SQLRepository, error) {
	dialect := DialectFor(dsn)
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Driver, err)
	}
	if dialect.Driver == SQLite.Driver {
		// modernc serialises writers; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	repo := NewSQLRepository(db, dialect)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLRepository wires an existing sql.DB.
func NewSQLRepository(db *sql.DB, dialect Dialect) *SQLRepository {
	return &SQLRepository{
		db:      db,
		dialect: dialect,
		builder: sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder),
	}
}

// Close releases the connection pool.
func (r *SQLRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Migrate creates tables and indexes when missing.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	for _, stmt := range r.dialect.schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SeenHeadlines returns the subset of headlines already stored by any run.
func (r *SQLRepository) SeenHeadlines(ctx context.Context, headlines []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if r.db == nil || len(headlines) == 0 {
		return result, nil
	}

	for start := 0; start < len(headlines); start += seenBatchSize {
		end := min(start+seenBatchSize, len(headlines))
		query, args, err := r.builder.
			Select("DISTINCT headline").
			From("scored_headlines").
			Where(sq.Eq{"headline": headlines[start:end]}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build seen query: %w", err)
		}

		if err := r.collectStrings(ctx, query, args, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *SQLRepository) collectStrings(ctx context.Context, query string, args []interface{}, into map[string]bool) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query seen: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var headline string
		if err := rows.Scan(&headline); err != nil {
			return fmt.Errorf("scan headline: %w", err)
		}
		into[headline] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}
	return nil
}

// SaveRun stores a run and its ranked results in one transaction.
func (r *SQLRepository) SaveRun(ctx context.Context, run domain.Run) error {
	if r.db == nil {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := r.builder.
		Insert("runs").
		Columns("id", "source", "mode", "min_score", "input_count", "kept", "perfect", "excellent", "fair", "created_at").
		Values(run.ID, run.SourceName, string(run.Mode), run.MinScore, run.InputCount,
			run.Summary.Kept, run.Summary.Perfect, run.Summary.Excellent, run.Summary.Fair,
			run.CreatedAt.UTC().Format(timeLayout)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build run insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for start := 0; start < len(run.Results); start += insertBatchSize {
		end := min(start+insertBatchSize, len(run.Results))
		insert := r.builder.
			Insert("scored_headlines").
			Columns("run_id", "position", "headline", "source", "total", "audience", "interest", "simplicity",
				"lexical_total", "semantic_total", "rationale", "suggested_angle", "audience_hint", "sentiment")
		for i, res := range run.Results[start:end] {
			insert = insert.Values(run.ID, start+i+1, res.Headline, string(res.Source), res.Total,
				res.Dimensions.Audience, res.Dimensions.Interest, res.Dimensions.Simplicity,
				res.LexicalTotal, res.SemanticTotal, res.Rationale, res.SuggestedAngle,
				res.AudienceHint, string(res.Sentiment))
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("build results insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert results: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RecentRuns lists the latest runs, newest first, without their results.
func (r *SQLRepository) RecentRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	query, args, err := r.builder.
		Select("id", "source", "mode", "min_score", "input_count", "kept", "perfect", "excellent", "fair", "created_at").
		From("runs").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build runs query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var (
			run     domain.Run
			mode    string
			created string
		)
		if err := rows.Scan(&run.ID, &run.SourceName, &mode, &run.MinScore, &run.InputCount,
			&run.Summary.Kept, &run.Summary.Perfect, &run.Summary.Excellent, &run.Summary.Fair, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Mode = domain.Mode(mode)
		if run.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return runs, nil
}
