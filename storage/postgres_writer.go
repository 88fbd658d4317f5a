package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"travel-search/models"
)

// PostgresWriter persists ranked search results to PostgreSQL.
type PostgresWriter struct {
	db    *sql.DB
	query string
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a writer that tags every stored result with
// the originating search query.
func NewPostgresWriter(dsn, searchQuery string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db, query: searchQuery}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS search_results (
			id           SERIAL PRIMARY KEY,
			search_query TEXT          NOT NULL,
			listing_id   TEXT          NOT NULL,
			title        TEXT          NOT NULL,
			location     TEXT          NOT NULL DEFAULT '',
			price        NUMERIC(10,2),
			currency     VARCHAR(3)    NOT NULL DEFAULT '',
			rating       NUMERIC(4,2),
			bedrooms     INT,
			score        NUMERIC(6,2)  NOT NULL DEFAULT 0,
			url          TEXT          NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ   NOT NULL DEFAULT NOW(),

			UNIQUE (search_query, listing_id)
		);

		CREATE INDEX IF NOT EXISTS idx_results_query    ON search_results(search_query);
		CREATE INDEX IF NOT EXISTS idx_results_score    ON search_results(score);
		CREATE INDEX IF NOT EXISTS idx_results_location ON search_results(location);
	`)
	return err
}

// Write batch-inserts the ranked results for the writer's search query,
// replacing any previous rows for the same query.
func (pw *PostgresWriter) Write(results []models.RankedResult) error {
	if len(results) == 0 {
		return nil
	}

	if _, err := pw.db.Exec("DELETE FROM search_results WHERE search_query = $1", pw.query); err != nil {
		return fmt.Errorf("postgres: clear previous run: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(results); i += batchSize {
		end := i + batchSize
		if end > len(results) {
			end = len(results)
		}
		if err := pw.insertBatch(results[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.RankedResult) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*10)

	for idx, r := range batch {
		base := idx * 10
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10))

		var price interface{}
		if r.PriceKnown {
			price = r.ConvertedPrice.Amount
		}
		var rating interface{}
		if r.Rating != nil {
			rating = *r.Rating
		}
		var bedrooms interface{}
		if r.Bedrooms != nil {
			bedrooms = *r.Bedrooms
		}

		valueArgs = append(valueArgs,
			pw.query, r.ID, r.Title, r.Location, price,
			r.ConvertedPrice.Currency, rating, bedrooms, r.Score, r.URL)
	}

	query := fmt.Sprintf(`
		INSERT INTO search_results (search_query, listing_id, title, location, price, currency, rating, bedrooms, score, url)
		VALUES %s
		ON CONFLICT (search_query, listing_id) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves the stored results for the writer's search query.
func (pw *PostgresWriter) FetchAll() ([]models.RankedResult, error) {
	rows, err := pw.db.Query(`
		SELECT listing_id, title, location, price, currency, rating, bedrooms, score, url
		FROM search_results
		WHERE search_query = $1
		ORDER BY score DESC, price ASC, listing_id ASC
	`, pw.query)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var results []models.RankedResult
	for rows.Next() {
		var r models.RankedResult
		var price sql.NullFloat64
		var rating sql.NullFloat64
		var bedrooms sql.NullInt64

		if err := rows.Scan(
			&r.ID, &r.Title, &r.Location, &price, &r.ConvertedPrice.Currency,
			&rating, &bedrooms, &r.Score, &r.URL,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}

		if price.Valid {
			r.PriceKnown = true
			r.ConvertedPrice.Amount = price.Float64
		}
		if rating.Valid {
			v := rating.Float64
			r.Rating = &v
		}
		if bedrooms.Valid {
			v := int(bedrooms.Int64)
			r.Bedrooms = &v
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
