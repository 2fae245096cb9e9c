package ingest

import (
	"context"
	"database/sql"
	"fmt"
)

// WriteFunc is a callback that performs database writes inside a transaction.
type WriteFunc func(ctx context.Context, tx *sql.Tx) error

// BatchWriter buffers write operations and commits them in batches, one
// transaction per batch. It is not safe for concurrent use; flushes run on
// the caller's goroutine so a returned error always belongs to the batch just
// submitted.
type BatchWriter struct {
	buf    []WriteFunc
	cap    int
	closed bool
	db     *sql.DB

	// committed counts write funcs in successfully committed batches.
	committed int
	batches   int
}

// NewBatchWriter creates a new BatchWriter.
// db: the database connection to use for transactions.
// bufferSize: commit when buffer reaches this size.
func NewBatchWriter(db *sql.DB, bufferSize int) *BatchWriter {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	return &BatchWriter{
		buf: make([]WriteFunc, 0, bufferSize),
		cap: bufferSize,
		db:  db,
	}
}

// Submit enqueues a write function, committing the buffer once it is full.
func (bw *BatchWriter) Submit(ctx context.Context, w WriteFunc) error {
	if bw.closed {
		return ErrBatchWriterClosed
	}
	bw.buf = append(bw.buf, w)
	if len(bw.buf) >= bw.cap {
		return bw.Flush(ctx)
	}
	return nil
}

// Flush commits any buffered writes.
func (bw *BatchWriter) Flush(ctx context.Context) error {
	if len(bw.buf) == 0 {
		return nil
	}
	batch := bw.buf
	bw.buf = make([]WriteFunc, 0, bw.cap)
	if err := bw.executeBatch(ctx, batch); err != nil {
		return err
	}
	bw.committed += len(batch)
	bw.batches++
	return nil
}

// Pending returns the number of buffered, uncommitted writes.
func (bw *BatchWriter) Pending() int { return len(bw.buf) }

// Committed returns the number of writes committed so far.
func (bw *BatchWriter) Committed() int { return bw.committed }

// Batches returns the number of committed transactions.
func (bw *BatchWriter) Batches() int { return bw.batches }

func (bw *BatchWriter) executeBatch(ctx context.Context, batch []WriteFunc) error {
	// If no DB is configured (e.g. testing without DB), just run callbacks with nil tx
	if bw.db == nil {
		for _, w := range batch {
			if err := w(ctx, nil); err != nil {
				return err
			}
		}
		return nil
	}

	// The commit itself is not cancelable: a batch is either fully written or
	// rolled back.
	txCtx := context.WithoutCancel(ctx)

	tx, err := bw.db.BeginTx(txCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	for _, w := range batch {
		if err := w(txCtx, tx); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch (%d items): %w", len(batch), err)
	}
	return nil
}

// Close commits remaining writes and stops accepting submissions.
func (bw *BatchWriter) Close() error {
	if bw.closed {
		return ErrBatchWriterClosed
	}
	bw.closed = true
	return bw.Flush(context.Background())
}

// Abort drops buffered writes and stops accepting submissions.
func (bw *BatchWriter) Abort() int {
	dropped := len(bw.buf)
	bw.buf = nil
	bw.closed = true
	return dropped
}

var ErrBatchWriterClosed = &BatchWriterError{"batch writer closed"}

type BatchWriterError struct{ msg string }

func (e *BatchWriterError) Error() string { return e.msg }
