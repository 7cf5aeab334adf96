package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alexpolo1/newolddkprice/models"
)

// SQLiteWriter appends listings to a local SQLite file, one run per run id.
type SQLiteWriter struct {
	db    *sql.DB
	runID string
	now   func() time.Time
}

// NewSQLiteWriter opens (or creates) the database at path and ensures the
// listings table exists.
func NewSQLiteWriter(path, runID string) (*SQLiteWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("sqlite: create output dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	sw := &SQLiteWriter{db: db, runID: runID, now: time.Now}
	if err := sw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return sw, nil
}

func (sw *SQLiteWriter) migrate() error {
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS listings (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL,
			site       TEXT NOT NULL,
			title      TEXT NOT NULL,
			price      TEXT NOT NULL DEFAULT '',
			price_num  REAL,
			url        TEXT NOT NULL DEFAULT '',
			location   TEXT NOT NULL DEFAULT '',
			scraped_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_listings_run_id ON listings(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_listings_site ON listings(site)`,
	} {
		if _, err := sw.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Write inserts all listings in a single transaction.
func (sw *SQLiteWriter) Write(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := sw.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO listings (run_id, site, title, price, price_num, url, location, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer stmt.Close()

	scrapedAt := timestamp(sw.now())
	for _, l := range listings {
		if _, err := stmt.Exec(sw.runID, string(l.Site), l.Title, l.Price, l.PriceValue, l.URL, l.Location, scrapedAt); err != nil {
			return fmt.Errorf("sqlite: insert %q: %w", l.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Close closes the database.
func (sw *SQLiteWriter) Close() error {
	return sw.db.Close()
}
