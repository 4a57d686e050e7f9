//go:build postgres_integration

package dataset

import (
	"errors"
	"os"
	"testing"
)

func TestPostgresConnectivity(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	p, err := NewPostgres(dsn)
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}
	defer p.Close()

	if _, err := p.ListDatasets(t.Context()); err != nil {
		t.Fatalf("ListDatasets: %v", err)
	}
	if _, err := p.GetDataset(t.Context(), "definitely-absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
