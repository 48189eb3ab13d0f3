package store

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/nodepulse/nodepulse/internal/errors"
	"github.com/nodepulse/nodepulse/internal/logging"
	"github.com/nodepulse/nodepulse/internal/telemetry"
)

// ReadPoolSize is the connection count of a shard's read pool.
const ReadPoolSize = 5

// ReaderPool provides read-only access to day shards. It resolves "today"
// fresh per query, so a process running across UTC midnight reads the same
// shard the writer rolled over to. The current date's handle is cached and
// never shares a connection with the writer; pools for earlier dates are
// closed when the date changes.
type ReaderPool struct {
	dataDir string

	mu    sync.Mutex
	pools map[string]*sql.DB

	now func() time.Time
	log *slog.Logger
}

// NewReaderPool creates a reader over the given data directory. Shards are
// opened lazily on first read for their date.
func NewReaderPool(dataDir string) *ReaderPool {
	return &ReaderPool{
		dataDir: dataDir,
		pools:   make(map[string]*sql.DB),
		now:     time.Now,
		log:     logging.Component("reader"),
	}
}

// forToday returns the pooled handle for the current UTC date's shard,
// opening it if needed.
func (r *ReaderPool) forToday() (*sql.DB, error) {
	date := ShardDate(r.now())

	r.mu.Lock()
	defer r.mu.Unlock()

	if db, ok := r.pools[date]; ok {
		return db, nil
	}

	db, err := OpenShard(r.dataDir, date, ReadPoolSize)
	if err != nil {
		return nil, err
	}

	// Drop pools for earlier dates; after a midnight rollover the old
	// day's handles would otherwise stay open until process exit.
	for stale, old := range r.pools {
		if err := old.Close(); err != nil {
			r.log.Warn("close stale reader pool", "shard", stale, "error", err)
		}
		delete(r.pools, stale)
	}

	r.log.Info("reader pool opened", "shard", date, "connections", ReadPoolSize)
	r.pools[date] = db
	return db, nil
}

// NodeMetrics returns all points for nodeID whose probe_name matches the
// SQL LIKE pattern and whose timestamp falls in [now-hours, now], ordered
// ascending by timestamp.
func (r *ReaderPool) NodeMetrics(ctx context.Context, nodeID, pattern string, hours int) ([]telemetry.Point, error) {
	db, err := r.forToday()
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	start := now.Add(-time.Duration(hours) * time.Hour)

	rows, err := db.QueryContext(ctx, `
		SELECT node_id, timestamp, probe_type, probe_name, probe_value
		FROM probe_data
		WHERE node_id = ?
		  AND probe_name LIKE ?
		  AND timestamp >= ?
		  AND timestamp <= ?
		ORDER BY timestamp ASC`,
		nodeID, pattern,
		start.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return nil, errors.Wrap(err, "query node metrics")
	}
	defer rows.Close()

	return scanPoints(rows)
}

// LatestNodeMetrics returns the full point set of the node's most recent
// collection cycle: every point whose timestamp equals the maximum
// timestamp seen for that node.
func (r *ReaderPool) LatestNodeMetrics(ctx context.Context, nodeID string) ([]telemetry.Point, error) {
	db, err := r.forToday()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT node_id, timestamp, probe_type, probe_name, probe_value
		FROM probe_data
		WHERE node_id = ?
		  AND timestamp = (
		      SELECT MAX(timestamp)
		      FROM probe_data
		      WHERE node_id = ?
		  )`,
		nodeID, nodeID)
	if err != nil {
		return nil, errors.Wrap(err, "query latest metrics")
	}
	defer rows.Close()

	return scanPoints(rows)
}

// NodeIDs returns all distinct node ids present in today's shard, ordered
// lexicographically. This defines which nodes are known.
func (r *ReaderPool) NodeIDs(ctx context.Context) ([]string, error) {
	db, err := r.forToday()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT node_id
		FROM probe_data
		ORDER BY node_id`)
	if err != nil {
		return nil, errors.Wrap(err, "query node ids")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scan node id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes every cached shard handle.
func (r *ReaderPool) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for date, db := range r.pools {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "close reader pool for %s", date)
		}
		delete(r.pools, date)
	}
	return firstErr
}

func scanPoints(rows *sql.Rows) ([]telemetry.Point, error) {
	var points []telemetry.Point
	for rows.Next() {
		var p telemetry.Point
		if err := rows.Scan(&p.NodeID, &p.Timestamp, &p.ProbeType, &p.ProbeName, &p.ProbeValue); err != nil {
			return nil, errors.Wrap(err, "scan point")
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
