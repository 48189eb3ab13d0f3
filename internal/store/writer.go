package store

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/nodepulse/nodepulse/internal/errors"
	"github.com/nodepulse/nodepulse/internal/logging"
	"github.com/nodepulse/nodepulse/internal/metrics"
	"github.com/nodepulse/nodepulse/internal/telemetry"
)

// CommandQueueCapacity bounds the writer's inbound queue. A full queue
// blocks producers instead of growing without bound.
const CommandQueueCapacity = 1000

type commandKind int

const (
	cmdInsertBatch commandKind = iota
	cmdShutdown
)

// writeCommand is the only message protocol between producers and the
// writer actor: an insert-batch or a shutdown. No other kinds exist.
type writeCommand struct {
	kind   commandKind
	points []telemetry.Point
}

// Handle is the producer-side view of the writer actor. It is safe for
// concurrent use; the actor's database connection is never exposed
// through it.
type Handle struct {
	tx   chan<- writeCommand
	done <-chan struct{}
}

// InsertBatch queues a batch for durable write. It blocks while the queue
// is full (backpressure) and returns ErrNotInitialized once the actor has
// stopped. A nil error means queued, not committed.
func (h *Handle) InsertBatch(ctx context.Context, points []telemetry.Point) error {
	select {
	case <-h.done:
		return errors.ErrNotInitialized
	default:
	}

	select {
	case h.tx <- writeCommand{kind: cmdInsertBatch, points: points}:
		return nil
	case <-h.done:
		return errors.ErrNotInitialized
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown signals the actor to drain and stop.
func (h *Handle) Shutdown(ctx context.Context) error {
	select {
	case h.tx <- writeCommand{kind: cmdShutdown}:
		return nil
	case <-h.done:
		return errors.ErrNotInitialized
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the actor has drained and closed its connection.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Writer is the single owner of write access to the active day's shard.
// All inserts are serialized through its command queue.
type Writer struct {
	dataDir string
	date    string
	db      *sql.DB

	rx   <-chan writeCommand
	done chan struct{}

	now func() time.Time
	log *slog.Logger
}

// NewWriter opens the shard for the current UTC date and returns the actor
// plus the handle producers use to reach it. The actor does not process
// commands until Run is called.
func NewWriter(dataDir string) (*Writer, *Handle, error) {
	now := time.Now
	date := ShardDate(now())

	db, err := OpenShard(dataDir, date, 1)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan writeCommand, CommandQueueCapacity)
	done := make(chan struct{})

	w := &Writer{
		dataDir: dataDir,
		date:    date,
		db:      db,
		rx:      ch,
		done:    done,
		now:     now,
		log:     logging.Component("writer"),
	}
	h := &Handle{tx: ch, done: done}

	return w, h, nil
}

// Run processes commands until a shutdown is observed, then drains any
// commands already queued and closes the connection. It is meant to be
// run as a dedicated goroutine; it never returns an error because a bad
// batch must not take the actor down.
func (w *Writer) Run() {
	w.log.Info("writer started", "shard", w.date)

	for cmd := range w.rx {
		if cmd.kind == cmdShutdown {
			w.log.Info("shutdown received, draining")
			break
		}
		w.handleInsert(cmd.points)
	}

	w.drain()

	if err := w.db.Close(); err != nil {
		w.log.Error("close shard", "error", err)
	}
	close(w.done)

	w.log.Info("writer stopped")
}

// drain consumes commands already queued without waiting for new
// arrivals. Batches submitted before the shutdown was observed are still
// committed; a second shutdown ends the drain early.
func (w *Writer) drain() {
	drained := 0
	for {
		select {
		case cmd := <-w.rx:
			if cmd.kind == cmdShutdown {
				w.log.Info("second shutdown during drain")
				if drained > 0 {
					w.log.Info("drained queued batches", "count", drained)
				}
				return
			}
			w.handleInsert(cmd.points)
			drained++
		default:
			if drained > 0 {
				w.log.Info("drained queued batches", "count", drained)
			}
			return
		}
	}
}

func (w *Writer) handleInsert(points []telemetry.Point) {
	if len(points) == 0 {
		return
	}

	if err := w.rollover(); err != nil {
		w.log.Error("shard rollover failed, batch dropped", "error", err)
		metrics.BatchesFailed.Inc()
		return
	}

	inserted, err := insertBatch(w.db, points)
	if err != nil {
		w.log.Error("insert batch failed", "count", len(points), "error", err)
		metrics.BatchesFailed.Inc()
		return
	}

	if inserted != int64(len(points)) {
		w.log.Warn("row count mismatch",
			"submitted", len(points), "inserted", inserted)
	}

	metrics.BatchesWritten.Inc()
	metrics.PointsWritten.Add(float64(inserted))
	w.log.Debug("batch committed", "rows", inserted)
}

// rollover re-resolves "today" before each batch so a process running
// across UTC midnight starts writing to the new day's shard instead of
// silently appending to yesterday's file.
func (w *Writer) rollover() error {
	today := ShardDate(w.now())
	if today == w.date {
		return nil
	}

	w.log.Info("rolling over to new shard", "from", w.date, "to", today)

	db, err := OpenShard(w.dataDir, today, 1)
	if err != nil {
		return err
	}

	if err := w.db.Close(); err != nil {
		w.log.Warn("close previous shard", "error", err)
	}
	w.db = db
	w.date = today
	return nil
}

// insertBatch inserts all points in a single transaction. A failure
// partway rolls back the whole batch; prior committed batches are
// unaffected.
func insertBatch(db *sql.DB, points []telemetry.Point) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "begin transaction")
	}

	stmt, err := tx.Prepare(`
		INSERT INTO probe_data (node_id, timestamp, probe_type, probe_name, probe_value)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return 0, errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	var count int64
	for _, p := range points {
		res, err := stmt.Exec(p.NodeID, p.Timestamp, p.ProbeType, p.ProbeName, p.ProbeValue)
		if err != nil {
			tx.Rollback()
			return 0, errors.Wrap(err, "insert point")
		}
		n, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return 0, errors.Wrap(err, "rows affected")
		}
		count += n
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit batch")
	}

	return count, nil
}
