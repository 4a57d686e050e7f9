package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres serves datasets from a `datasets` table keyed by name, with the
// raw Solomon text under the `content` key of a JSONB document:
//
//	CREATE TABLE datasets (
//	    name TEXT PRIMARY KEY,
//	    data JSONB NOT NULL
//	);
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) GetDataset(ctx context.Context, name string) (Dataset, error) {
	var content string
	err := p.db.QueryRowContext(ctx, `SELECT data->>'content' FROM datasets WHERE name=$1`, name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return Dataset{}, ErrNotFound
	}
	if err != nil {
		return Dataset{}, err
	}
	d, err := ParseSolomon(name, strings.NewReader(content))
	if err != nil {
		return Dataset{}, fmt.Errorf("dataset %s: %w", name, err)
	}
	return d, nil
}

func (p *Postgres) ListDatasets(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT name FROM datasets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
