package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/alexpolo1/newolddkprice/models"
)

const pgColumns = 7

// price_num is unbounded: it holds whatever the price normaliser produced.
const pgSchema = `
		CREATE TABLE IF NOT EXISTS price_listings (
			id         SERIAL PRIMARY KEY,
			run_id     UUID          NOT NULL,
			site       VARCHAR(20)   NOT NULL,
			title      TEXT          NOT NULL,
			price      TEXT          NOT NULL DEFAULT '',
			price_num  DOUBLE PRECISION,
			url        TEXT          NOT NULL DEFAULT '',
			location   TEXT          NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_price_listings_run_id ON price_listings(run_id);
		CREATE INDEX IF NOT EXISTS idx_price_listings_site   ON price_listings(site);
		CREATE INDEX IF NOT EXISTS idx_price_listings_price  ON price_listings(price_num);
	`

// PostgresWriter appends listings to PostgreSQL, tagged with the run id.
type PostgresWriter struct {
	db    *sql.DB
	runID string
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn, runID string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	pw := &PostgresWriter{db: db, runID: runID}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, pgSchema)
	return err
}

// Write batch-inserts all listings.
func (pw *PostgresWriter) Write(listings []models.Listing) error {
	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		query, args := pw.insertBatch(listings[i:end])
		if _, err := pw.db.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch: %w", err)
		}
	}
	return nil
}

// insertBatch builds one multi-row INSERT for batch.
func (pw *PostgresWriter) insertBatch(batch []models.Listing) (string, []any) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*pgColumns)

	for idx, l := range batch {
		base := idx * pgColumns
		placeholders := make([]string, pgColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			pw.runID, string(l.Site), l.Title, l.Price, l.PriceValue, l.URL, l.Location)
	}

	query := fmt.Sprintf(`
		INSERT INTO price_listings (run_id, site, title, price, price_num, url, location)
		VALUES %s
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

// Close closes the connection pool.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
