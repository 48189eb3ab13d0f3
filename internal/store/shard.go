// Package store implements the collector's date-sharded persistence layer.
//
// Each UTC calendar day gets its own SQLite file holding a single
// append-only probe_data table. Exactly one writer actor owns write access
// to the active shard; reads go through a separate pooled connection set.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nodepulse/nodepulse/internal/errors"
)

// schema is applied on every shard open. Creation is idempotent; there
// are no further migrations.
const schema = `
CREATE TABLE IF NOT EXISTS probe_data (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    node_id TEXT NOT NULL,
    timestamp TEXT NOT NULL,
    probe_type TEXT NOT NULL,
    probe_name TEXT NOT NULL,
    probe_value TEXT NOT NULL,
    created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_probe_data_node_timestamp
    ON probe_data(node_id, timestamp);

CREATE INDEX IF NOT EXISTS idx_probe_data_probe_type
    ON probe_data(probe_type);
`

// ShardDate formats t as the UTC calendar date that names a shard.
func ShardDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ShardPath returns the backing file for the given date's shard.
func ShardPath(dataDir, date string) string {
	return filepath.Join(dataDir, fmt.Sprintf("metrics_%s.db", date))
}

// OpenShard opens (creating if missing) the shard for the given date and
// applies the schema. WAL journal mode keeps concurrent readers from being
// blocked by the writer. maxConns bounds the connection count: the writer
// opens with 1, the reader pool with its pool size.
func OpenShard(dataDir, date string, maxConns int) (*sql.DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000",
		ShardPath(dataDir, date))

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open shard %s", date)
	}

	db.SetMaxOpenConns(maxConns)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "apply schema for shard %s", date)
	}

	return db, nil
}
