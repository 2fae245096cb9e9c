package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/japaniel/sajeon/pkg/lexicon"
	"github.com/japaniel/sajeon/pkg/store"
)

// DefaultBatchSize is the commit cadence, in admitted records.
const DefaultBatchSize = 5000

// EntrySource yields raw entries in document order.
type EntrySource interface {
	Walk(ctx context.Context, fn lexicon.EntryFunc) error
}

// Stats summarizes one ingestion run.
type Stats struct {
	Entries  int
	Admitted int
	Rejected map[lexicon.Reason]int
	Batches  int
}

// RejectedTotal returns the number of rejected entries.
func (s Stats) RejectedTotal() int {
	n := 0
	for _, c := range s.Rejected {
		n += c
	}
	return n
}

// Reasons returns the rejection reasons seen, in enum order.
func (s Stats) Reasons() []lexicon.Reason {
	out := make([]lexicon.Reason, 0, len(s.Rejected))
	for r := range s.Rejected {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Ingester runs raw entries through the normalizer and persists admitted
// records.
type Ingester struct {
	Normalizer *lexicon.Normalizer
	// BatchSize is the number of admitted records per commit.
	BatchSize int
	// MaxRecords stops the run after this many admitted records. 0 means
	// no limit.
	MaxRecords int
	// Logger is used for informational messages. nil means no logging.
	Logger *slog.Logger
	// OnProgress is called after each commit boundary with the number of
	// admitted (and committed) records.
	OnProgress func(admitted int)
}

// NewIngester creates a new Ingester.
func NewIngester(n *lexicon.Normalizer) *Ingester {
	return &Ingester{
		Normalizer: n,
		BatchSize:  DefaultBatchSize,
	}
}

// Ingest normalizes every entry from src and writes admitted records to conn.
// Rejected entries are counted, never reported as errors. On error the
// uncommitted tail is dropped.
func (ig *Ingester) Ingest(ctx context.Context, conn *sql.DB, src EntrySource) (Stats, error) {
	stats := Stats{Rejected: make(map[lexicon.Reason]int)}
	batchSize := ig.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	bw := NewBatchWriter(conn, batchSize)

	err := src.Walk(ctx, func(member string, e lexicon.Entry) error {
		stats.Entries++
		d := ig.Normalizer.Normalize(e)
		if !d.Admitted() {
			stats.Rejected[d.Reason]++
			if ig.Logger != nil {
				ig.Logger.Debug("entry rejected", "member", member, "word", e.Headword(), "reason", d.Reason)
			}
			return nil
		}

		rec := d.Record
		err := bw.Submit(ctx, func(ctx context.Context, tx *sql.Tx) error {
			_, err := store.InsertEntry(tx, rec)
			return err
		})
		if err != nil {
			return err
		}
		stats.Admitted++

		if stats.Admitted%batchSize == 0 && ig.OnProgress != nil {
			ig.OnProgress(stats.Admitted)
		}
		if ig.MaxRecords > 0 && stats.Admitted >= ig.MaxRecords {
			return lexicon.ErrStopWalk
		}
		return nil
	})
	if errors.Is(err, lexicon.ErrStopWalk) {
		err = nil
	}
	if err != nil {
		dropped := bw.Abort()
		if ig.Logger != nil && dropped > 0 {
			ig.Logger.Warn("dropping uncommitted records", "count", dropped)
		}
		stats.Batches = bw.Batches()
		return stats, err
	}

	if err := bw.Close(); err != nil {
		return stats, err
	}
	stats.Batches = bw.Batches()

	if ig.Logger != nil {
		ig.Logger.Info("ingest finished",
			"entries", stats.Entries,
			"admitted", stats.Admitted,
			"rejected", stats.RejectedTotal(),
			"batches", stats.Batches)
	}
	return stats, nil
}

// Build recreates the store at storePath, ingests the package at
// archivePath into it, and closes the store.
func (ig *Ingester) Build(ctx context.Context, archivePath, storePath string) (Stats, error) {
	src, err := lexicon.OpenArchive(archivePath)
	if err != nil {
		return Stats{}, err
	}
	src.Logger = ig.Logger

	conn, err := store.Recreate(storePath)
	if err != nil {
		return Stats{}, err
	}

	stats, err := ig.Ingest(ctx, conn, src)
	if cerr := conn.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close store: %w", cerr)
	}
	if errors.Is(err, lexicon.ErrMalformedDocument) && ig.Logger != nil {
		ig.Logger.Error("package member failed to decode", "package", archivePath, "error", err)
	}
	return stats, err
}
