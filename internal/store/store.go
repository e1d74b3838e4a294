// Package store keeps the optional SQLite translation memory and request log.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// RequestRecord is one served translation request, successful or not.
type RequestRecord struct {
	ID string
	// RequestID correlates the row with logs. Clients may reuse it across
	// retries, so it is not unique.
	RequestID      string
	SourceText     string
	SourceLang     string
	TargetLang     string
	Engine         string
	TranslatedText string
	Error          string
	Latency        time.Duration
	Timestamp      time.Time
}

// MemoryEntry is a row from the translation_memory table.
type MemoryEntry struct {
	ID             string
	SourceText     string
	SourceLang     string
	TargetLang     string
	TranslatedText string
	Engine         string
	UsageCount     int
	Invalidated    bool
	LastUsed       time.Time
}

// CacheStats summarises translation memory usage.
type CacheStats struct {
	TotalEntries   int
	ActiveEntries  int
	InvalidEntries int
	TotalUsage     int
	TotalRequests  int
	FailedRequests int
}

func New(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS translation_requests (
		id TEXT PRIMARY KEY,
		request_id TEXT,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		engine TEXT,
		translated_text TEXT,
		error TEXT,
		latency_ms INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS translation_memory (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		engine TEXT,
		usage_count INTEGER DEFAULT 1,
		invalidated BOOLEAN DEFAULT FALSE,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text, source_lang, target_lang)
	);

	CREATE INDEX IF NOT EXISTS idx_memory_lookup ON translation_memory(source_text, source_lang, target_lang);
	CREATE INDEX IF NOT EXISTS idx_requests_created ON translation_requests(created_at);
	CREATE INDEX IF NOT EXISTS idx_requests_request_id ON translation_requests(request_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) SaveRequest(ctx context.Context, rec RequestRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translation_requests (id, request_id, source_text, source_lang, target_lang, engine, translated_text, error, latency_ms, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RequestID, rec.SourceText, rec.SourceLang, rec.TargetLang, rec.Engine, rec.TranslatedText, rec.Error, rec.Latency.Milliseconds(), rec.Timestamp)
	return err
}

// ListRequests returns the most recent requests first.
func (s *Store) ListRequests(ctx context.Context, limit int) ([]RequestRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(request_id, ''), source_text, source_lang, target_lang, COALESCE(engine, ''), COALESCE(translated_text, ''), COALESCE(error, ''), COALESCE(latency_ms, 0), created_at FROM translation_requests ORDER BY created_at DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RequestRecord
	for rows.Next() {
		var r RequestRecord
		var latencyMs int64
		if err := rows.Scan(&r.ID, &r.RequestID, &r.SourceText, &r.SourceLang, &r.TargetLang, &r.Engine, &r.TranslatedText, &r.Error, &latencyMs, &r.Timestamp); err != nil {
			return nil, err
		}
		r.Latency = time.Duration(latencyMs) * time.Millisecond
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) GetCachedTranslation(ctx context.Context, sourceText, sourceLang, targetLang string) (string, bool, error) {
	var translated string
	var invalidated bool

	key := normalizeText(sourceText)
	err := s.db.QueryRowContext(ctx,
		`SELECT translated_text, invalidated FROM translation_memory WHERE source_text = ? AND source_lang = ? AND target_lang = ?`,
		key, sourceLang, targetLang).Scan(&translated, &invalidated)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if invalidated {
		return "", false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE translation_memory SET usage_count = usage_count + 1, last_used = ? WHERE source_text = ? AND source_lang = ? AND target_lang = ?`,
		time.Now(), key, sourceLang, targetLang)

	return translated, true, err
}

// SaveToMemory inserts or refreshes the entry for the text and language pair.
// Refreshing clears an invalidation and keeps the usage count.
func (s *Store) SaveToMemory(ctx context.Context, sourceText, sourceLang, targetLang, translatedText, engine string) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translation_memory (id, source_text, source_lang, target_lang, translated_text, engine, usage_count, invalidated, last_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, FALSE, ?, ?)
		ON CONFLICT(source_text, source_lang, target_lang) DO UPDATE SET
			translated_text = excluded.translated_text,
			engine = excluded.engine,
			invalidated = FALSE,
			last_used = excluded.last_used`,
		"mem_"+uuid.NewString(), normalizeText(sourceText), sourceLang, targetLang, translatedText, engine, now, now)
	return err
}

func (s *Store) InvalidateMemory(ctx context.Context, id string) error {
	return s.execOne(ctx, `UPDATE translation_memory SET invalidated = TRUE WHERE id = ?`, id)
}

// DeleteMemory permanently removes a translation memory entry by ID.
func (s *Store) DeleteMemory(ctx context.Context, id string) error {
	return s.execOne(ctx, `DELETE FROM translation_memory WHERE id = ?`, id)
}

// ClearMemory removes all translation memory entries.
func (s *Store) ClearMemory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translation_memory`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListMemory returns all translation memory entries ordered by most recently used.
func (s *Store) ListMemory(ctx context.Context) ([]MemoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, source_lang, target_lang, translated_text, COALESCE(engine, ''), usage_count, invalidated, last_used FROM translation_memory ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MemoryEntry
	for rows.Next() {
		var e MemoryEntry
		if err := rows.Scan(&e.ID, &e.SourceText, &e.SourceLang, &e.TargetLang, &e.TranslatedText, &e.Engine, &e.UsageCount, &e.Invalidated, &e.LastUsed); err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// Stats returns summary statistics for the translation memory and request log.
func (s *Store) Stats(ctx context.Context) (*CacheStats, error) {
	stats := &CacheStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN NOT invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(usage_count), 0)
		FROM translation_memory`).Scan(
		&stats.TotalEntries,
		&stats.ActiveEntries,
		&stats.InvalidEntries,
		&stats.TotalUsage,
	)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN error IS NOT NULL AND error != '' THEN 1 ELSE 0 END), 0)
		FROM translation_requests`).Scan(&stats.TotalRequests, &stats.FailedRequests)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) execOne(ctx context.Context, query, id string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("entry not found: %s", id)
	}
	return nil
}

// normalizeText trims whitespace and applies Unicode NFC normalization
// for consistent cache key comparison.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
