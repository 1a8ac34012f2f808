package words

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteProvider reads categories from a local SQLite content file.
type SQLiteProvider struct {
	db *sql.DB
}

// NewSQLiteProvider opens the content database at path.
// Expected schema:
//
//	CREATE TABLE categories (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE);
//	CREATE TABLE words (category_id INTEGER NOT NULL REFERENCES categories(id),
//	                    position INTEGER NOT NULL, word TEXT NOT NULL);
func NewSQLiteProvider(ctx context.Context, path string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open words database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping words database: %w", err)
	}

	return &SQLiteProvider{db: db}, nil
}

func (p *SQLiteProvider) Categories(ctx context.Context) ([]Category, error) {
	q := `
	SELECT c.name, w.word
	FROM categories c
	JOIN words w ON w.category_id = c.id
	ORDER BY c.id, w.position;
	`
	rows, err := p.db.QueryContext(ctx, q)
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

func (p *SQLiteProvider) Close(_ context.Context) error {
	return p.db.Close()
}

// collectCategories folds (name, word) rows ordered by category into Category
// values. Shared between the SQL-backed providers.
func collectCategories(next func() bool, scan func(...any) error) ([]Category, error) {
	var categories []Category
	for next() {
		var name, word string
		if err := scan(&name, &word); err != nil {
			return nil, fmt.Errorf("failed to scan word row: %w", err)
		}

		if len(categories) == 0 || categories[len(categories)-1].Name != name {
			categories = append(categories, Category{Name: name})
		}
		last := &categories[len(categories)-1]
		last.Words = append(last.Words, word)
	}
	return categories, nil
}
