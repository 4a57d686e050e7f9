// Command seed-datasets loads Solomon benchmark files into the Postgres
// datasets table the API reads from. Each .txt file in the source directory
// becomes one row keyed by its base name, with the raw text under the
// `content` key of the JSONB document. Existing rows are overwritten.
package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/dkvc/AutumSem-OR/internal/dataset"
)

const schema = `CREATE TABLE IF NOT EXISTS datasets (
	name TEXT PRIMARY KEY,
	data JSONB NOT NULL
)`

func main() {
	// Local development convenience; absent .env is fine.
	_ = godotenv.Load()

	dir := flag.String("dir", "data", "directory of Solomon .txt files")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("create table: %v", err)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("read %s: %v", *dir, err)
	}
	seeded := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".txt")
		raw, err := os.ReadFile(filepath.Join(*dir, e.Name()))
		if err != nil {
			log.Fatalf("read %s: %v", e.Name(), err)
		}
		// Reject files the API would fail to parse later.
		if _, err := dataset.ParseSolomon(name, strings.NewReader(string(raw))); err != nil {
			log.Fatalf("%s: %v", e.Name(), err)
		}
		doc, err := json.Marshal(map[string]string{"content": string(raw)})
		if err != nil {
			log.Fatalf("%s: encode: %v", e.Name(), err)
		}
		_, err = db.Exec(
			`INSERT INTO datasets (name, data) VALUES ($1, $2)
			 ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data`,
			name, doc,
		)
		if err != nil {
			log.Fatalf("%s: insert: %v", e.Name(), err)
		}
		log.Printf("seeded %s", name)
		seeded++
	}
	log.Printf("done: %d dataset(s)", seeded)
}
