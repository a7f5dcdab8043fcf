// Package history keeps a small persistent log of crawl runs.
//
// The response cache is deliberately volatile; crawl history is the one
// piece of local state worth keeping across restarts, because "when was
// this domain last re-crawled and what did it find" is a question the
// assistant asks about past sessions. Backed by SQLite in the seolens
// data directory.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// CrawlRecord is one completed crawl request for a domain.
type CrawlRecord struct {
	ID            int64  `json:"id"`
	Domain        string `json:"domain"`
	JobID         string `json:"job_id"`
	PagesQueued   int    `json:"pages_queued"`
	CacheEvicted  int    `json:"cache_evicted"`
	RequestedAt   string `json:"requested_at"`
}

// Store is the crawl history log.
type Store struct {
	db *sql.DB
}

// Open creates the data directory if needed, opens the history
// database with WAL mode, and runs the schema migration.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS crawls (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			domain        TEXT    NOT NULL,
			job_id        TEXT    NOT NULL,
			pages_queued  INTEGER NOT NULL DEFAULT 0,
			cache_evicted INTEGER NOT NULL DEFAULT 0,
			requested_at  TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_crawls_domain ON crawls(domain, requested_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends a crawl run to the log. RequestedAt defaults to now
// when empty.
func (s *Store) Record(rec CrawlRecord) error {
	if rec.Domain == "" {
		return fmt.Errorf("history: domain is required")
	}
	requestedAt := rec.RequestedAt
	if requestedAt == "" {
		requestedAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := s.db.Exec(
		`INSERT INTO crawls (domain, job_id, pages_queued, cache_evicted, requested_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Domain, rec.JobID, rec.PagesQueued, rec.CacheEvicted, requestedAt,
	)
	if err != nil {
		return fmt.Errorf("history: insert crawl: %w", err)
	}
	return nil
}

// Recent returns the newest crawl runs for a domain, most recent first.
// A limit of 0 or less defaults to 10.
func (s *Store) Recent(domain string, limit int) ([]CrawlRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, domain, job_id, pages_queued, cache_evicted, requested_at
		 FROM crawls WHERE domain = ?
		 ORDER BY requested_at DESC, id DESC LIMIT ?`,
		domain, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query crawls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []CrawlRecord
	for rows.Next() {
		var rec CrawlRecord
		if err := rows.Scan(&rec.ID, &rec.Domain, &rec.JobID, &rec.PagesQueued, &rec.CacheEvicted, &rec.RequestedAt); err != nil {
			return nil, fmt.Errorf("history: scan crawl: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate crawls: %w", err)
	}
	return out, nil
}
