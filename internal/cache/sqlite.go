package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tharindu-jay/policyscan/internal/record"
)

// Schema for the extraction cache table. Applied by OpenSQLite.
const Schema = `
CREATE TABLE IF NOT EXISTS extraction_cache (
	digest TEXT PRIMARY KEY,
	record TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
`

// SQLite persists mapped records in a local database so identical documents
// are not re-sent to the extraction service across restarts.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the cache database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (c *SQLite) Get(ctx context.Context, digest string) (record.FlatRecord, bool, error) {
	var blob string
	err := c.db.QueryRowContext(ctx,
		`SELECT record FROM extraction_cache WHERE digest = ?`, digest,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return record.FlatRecord{}, false, nil
	}
	if err != nil {
		return record.FlatRecord{}, false, fmt.Errorf("cache get: %w", err)
	}
	var rec record.FlatRecord
	if err := json.Unmarshal([]byte(blob), &rec); err != nil {
		return record.FlatRecord{}, false, fmt.Errorf("cache decode: %w", err)
	}
	return rec, true, nil
}

func (c *SQLite) Put(ctx context.Context, digest string, rec record.FlatRecord) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO extraction_cache (digest, record, created_at) VALUES (?, ?, ?)`,
		digest, string(blob), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

func (c *SQLite) Close() error {
	return c.db.Close()
}
