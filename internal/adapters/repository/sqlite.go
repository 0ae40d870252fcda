package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/scoring"
	"github.com/okian/newsheat/pkg/logger"
	"github.com/okian/newsheat/pkg/metrics"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const defaultMetricsUpdateInterval = 5 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id               TEXT PRIMARY KEY,
	url              TEXT NOT NULL DEFAULT '',
	title            TEXT NOT NULL DEFAULT '',
	summary          TEXT NOT NULL DEFAULT '',
	source           TEXT NOT NULL DEFAULT '',
	published_at     INTEGER,
	extra            TEXT,
	score            INTEGER NOT NULL,
	categories       TEXT NOT NULL DEFAULT '[]',
	triggers         TEXT NOT NULL DEFAULT '[]',
	high_value_count INTEGER NOT NULL DEFAULT 0,
	is_generic       INTEGER NOT NULL DEFAULT 0,
	hook_potential   TEXT NOT NULL DEFAULT '',
	copy_angle       TEXT NOT NULL DEFAULT '',
	scored_by        TEXT NOT NULL DEFAULT '',
	scored_at        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_rank ON articles(score DESC, scored_at ASC, id ASC);
CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at DESC);
CREATE INDEX IF NOT EXISTS idx_articles_recent ON articles(scored_at DESC);
`

const columns = `id, url, title, summary, source, published_at, extra, score, categories,
	triggers, high_value_count, is_generic, hook_potential, copy_angle, scored_by, scored_at`

// SQLiteStore is the Store backed by SQLite. Writes are serialized in process;
// reads run concurrently.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	log logger.Logger
	now func() time.Time

	closed                bool
	metricsUpdateInterval time.Duration
	wg                    sync.WaitGroup
	stopChan              chan struct{}
}

// Open opens (creating if needed) the database at path. MemoryPath gives a
// private database that lives until Close.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		log:                   logger.Named("repository"),
		now:                   time.Now,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == MemoryPath {
		// Every connection would get its own empty database, so keep exactly one.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != MemoryPath {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	s.db = db
	s.startMetricsUpdater(ctx)
	return s, nil
}

// Close stops the metrics updater and closes the database. It is safe to call
// more than once.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	return s.db.Close()
}

// Save implements Store.Save.
func (s *SQLiteStore) Save(ctx context.Context, a model.ScoredArticle) (err error) {
	start := time.Now()
	defer func() { s.observe("save", start, err) }()

	if strings.TrimSpace(a.ID) == "" {
		return ErrInvalidArticle
	}
	row, err := encode(a)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO articles (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			summary = excluded.summary,
			source = excluded.source,
			published_at = excluded.published_at,
			extra = excluded.extra,
			score = excluded.score,
			categories = excluded.categories,
			triggers = excluded.triggers,
			high_value_count = excluded.high_value_count,
			is_generic = excluded.is_generic,
			hook_potential = excluded.hook_potential,
			copy_angle = excluded.copy_angle,
			scored_by = excluded.scored_by,
			scored_at = excluded.scored_at`,
		a.ID, a.URL, a.Title, a.Summary, a.Source, row.publishedAt, row.extra,
		a.RelevanceScore, row.categories, row.triggers, a.HighValueCount, a.IsGeneric,
		a.HookPotential, a.CopyAngle, a.ScoredBy, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", a.ID, err)
	}
	return nil
}

// Get implements Store.Get.
func (s *SQLiteStore) Get(ctx context.Context, id string) (a model.ScoredArticle, err error) {
	start := time.Now()
	defer func() { s.observe("get", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.ScoredArticle{}, ErrClosed
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM articles WHERE id = ?`, id)
	a, err = scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ScoredArticle{}, ErrNotFound
	}
	return a, err
}

// TopN implements Store.TopN.
func (s *SQLiteStore) TopN(ctx context.Context, n int) (out []model.ScoredArticle, err error) {
	start := time.Now()
	defer func() { s.observe("top", start, err) }()

	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	return s.query(ctx, `SELECT `+columns+` FROM articles
		ORDER BY score DESC, scored_at ASC, id ASC LIMIT ?`, n)
}

// Recent implements Store.Recent.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) (out []model.ScoredArticle, err error) {
	start := time.Now()
	defer func() { s.observe("recent", start, err) }()

	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	return s.query(ctx, `SELECT `+columns+` FROM articles
		ORDER BY scored_at DESC, id ASC LIMIT ?`, limit)
}

// Search implements Store.Search. An empty query matches every article.
func (s *SQLiteStore) Search(ctx context.Context, q string, limit int) (out []model.ScoredArticle, err error) {
	start := time.Now()
	defer func() { s.observe("search", start, err) }()

	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	pattern := "%" + escapeLike(strings.TrimSpace(q)) + "%"
	return s.query(ctx, `SELECT `+columns+` FROM articles
		WHERE title LIKE ? ESCAPE '\' OR summary LIKE ? ESCAPE '\'
		ORDER BY published_at IS NULL, published_at DESC, scored_at DESC, id ASC
		LIMIT ?`, pattern, pattern, limit)
}

// Count implements Store.Count.
func (s *SQLiteStore) Count(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { s.observe("count", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]model.ScoredArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := make([]model.ScoredArticle, 0)
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) observe(op string, start time.Time, err error) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordStoreError(op)
	}
}

// startMetricsUpdater refreshes the stored-articles gauge in the background.
func (s *SQLiteStore) startMetricsUpdater(ctx context.Context) {
	if s.metricsUpdateInterval <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				n, err := s.Count(ctx)
				if err != nil {
					if !errors.Is(err, ErrClosed) {
						s.log.Warn(ctx, "count for metrics failed", logger.Error(err))
					}
					continue
				}
				metrics.UpdateArticlesStored(n)
			}
		}
	}()
}

type encodedRow struct {
	publishedAt sql.NullInt64
	extra       sql.NullString
	categories  string
	triggers    string
}

func encode(a model.ScoredArticle) (encodedRow, error) {
	var r encodedRow
	if !a.PublishedAt.IsZero() {
		r.publishedAt = sql.NullInt64{Int64: a.PublishedAt.UnixNano(), Valid: true}
	}
	if len(a.Extra) > 0 {
		b, err := json.Marshal(a.Extra)
		if err != nil {
			return r, fmt.Errorf("encode extra: %w", err)
		}
		r.extra = sql.NullString{String: string(b), Valid: true}
	}

	cats := a.Categories
	if cats == nil {
		cats = scoring.NewCategorySet()
	}
	b, err := json.Marshal(cats)
	if err != nil {
		return r, fmt.Errorf("encode categories: %w", err)
	}
	r.categories = string(b)

	triggers := a.EmotionalTriggers
	if triggers == nil {
		triggers = []string{}
	}
	b, err = json.Marshal(triggers)
	if err != nil {
		return r, fmt.Errorf("encode triggers: %w", err)
	}
	r.triggers = string(b)
	return r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(sc scanner) (model.ScoredArticle, error) {
	var (
		a           model.ScoredArticle
		publishedAt sql.NullInt64
		extra       sql.NullString
		categories  string
		triggers    string
		scoredAt    int64
	)
	err := sc.Scan(&a.ID, &a.URL, &a.Title, &a.Summary, &a.Source, &publishedAt, &extra,
		&a.RelevanceScore, &categories, &triggers, &a.HighValueCount, &a.IsGeneric,
		&a.HookPotential, &a.CopyAngle, &a.ScoredBy, &scoredAt)
	if err != nil {
		return model.ScoredArticle{}, err
	}

	if publishedAt.Valid {
		a.PublishedAt = time.Unix(0, publishedAt.Int64).UTC()
	}
	if extra.Valid && extra.String != "" {
		if err := json.Unmarshal([]byte(extra.String), &a.Extra); err != nil {
			return model.ScoredArticle{}, fmt.Errorf("decode extra for %s: %w", a.ID, err)
		}
	}
	if err := json.Unmarshal([]byte(categories), &a.Categories); err != nil {
		return model.ScoredArticle{}, fmt.Errorf("decode categories for %s: %w", a.ID, err)
	}
	if a.Categories == nil {
		a.Categories = scoring.NewCategorySet()
	}
	if err := json.Unmarshal([]byte(triggers), &a.EmotionalTriggers); err != nil {
		return model.ScoredArticle{}, fmt.Errorf("decode triggers for %s: %w", a.ID, err)
	}
	return a, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
