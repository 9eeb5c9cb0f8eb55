package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/models"
)

// Store persists completed crawl runs to Postgres. It sits outside the core
// pipeline: the crawler never touches it, the API layer writes through it
// when a DATABASE_URL is configured.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func New(ctx context.Context, databaseURL string, logger *slog.Logger) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool, logger: logger.With("component", "store")}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the crawl tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS crawl_runs (
			id UUID PRIMARY KEY,
			total_products INT NOT NULL,
			duration_sec DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL,
			scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS crawl_products (
			id BIGSERIAL PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES crawl_runs(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			sizes JSONB NOT NULL,
			prices JSONB NOT NULL,
			price_info TEXT NOT NULL,
			price_sources JSONB NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// SaveRun writes one completed run and its products in a single transaction.
func (s *Store) SaveRun(ctx context.Context, result *models.CrawlResult) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO crawl_runs (id, total_products, duration_sec, status) VALUES ($1, $2, $3, $4)`,
		result.RunID, result.TotalProducts, result.DurationSec, result.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert crawl run: %w", err)
	}

	rows := make([][]interface{}, 0, len(result.Products))
	for _, p := range result.Products {
		sizes, err := json.Marshal(p.Sizes)
		if err != nil {
			return fmt.Errorf("failed to marshal sizes: %w", err)
		}
		prices, err := json.Marshal(p.Prices)
		if err != nil {
			return fmt.Errorf("failed to marshal prices: %w", err)
		}
		sources, err := json.Marshal(p.PriceSources)
		if err != nil {
			return fmt.Errorf("failed to marshal price sources: %w", err)
		}
		rows = append(rows, []interface{}{result.RunID, p.Name, sizes, prices, p.PriceInfo, sources})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"crawl_products"},
		[]string{"run_id", "name", "sizes", "prices", "price_info", "price_sources"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert crawl products: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("saved crawl run", "run_id", result.RunID, "products", len(result.Products))
	return nil
}

// LatestRun returns the most recent run summary, or nil when none exists.
func (s *Store) LatestRun(ctx context.Context) (*RunSummary, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, total_products, duration_sec, status, scraped_at
		 FROM crawl_runs ORDER BY scraped_at DESC LIMIT 1`,
	)

	var summary RunSummary
	err := row.Scan(&summary.ID, &summary.TotalProducts, &summary.DurationSec, &summary.Status, &summary.ScrapedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}
	return &summary, nil
}

type RunSummary struct {
	ID            string    `json:"id"`
	TotalProducts int       `json:"total_products"`
	DurationSec   float64   `json:"duration_sec"`
	Status        string    `json:"status"`
	ScrapedAt     time.Time `json:"scraped_at"`
}
