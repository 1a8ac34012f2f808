package words

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProvider reads categories from a Postgres content database, for
// deployments where the word lists are curated centrally.
type PostgresProvider struct {
	pool *pgxpool.Pool
}

// NewPostgresProvider connects to the content database at connStr.
// Expects the same categories/words schema as the SQLite provider.
func NewPostgresProvider(ctx context.Context, connStr string) (*PostgresProvider, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping words database: %w", err)
	}

	return &PostgresProvider{pool: pool}, nil
}

func (p *PostgresProvider) Categories(ctx context.Context) ([]Category, error) {
	q := `
	SELECT c.name, w.word
	FROM categories c
	JOIN words w ON w.category_id = c.id
	ORDER BY c.id, w.position;
	`
	rows, err := p.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories, err := collectCategories(rows.Next, rows.Scan)
	if err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	if err := ValidateCategories(categories); err != nil {
		return nil, fmt.Errorf("invalid words database content: %w", err)
	}

	return categories, nil
}

func (p *PostgresProvider) Close(_ context.Context) error {
	p.pool.Close()
	return nil
}
