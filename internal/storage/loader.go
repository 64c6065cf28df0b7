package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations insert
// the provided rows (aligned to the destination column order) and return the
// number of rows reported as inserted.
type CopyFn func(ctx context.Context, rows [][]any) (int64, error)

// InsertBatches writes rows through copyFn in batches of batchSize, logging a
// concise progress line per flush with running totals and instantaneous
// rows/sec. It returns the total inserted and the first error encountered.
func InsertBatches(ctx context.Context, rows [][]any, batchSize int, copyFn CopyFn) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total   int64
		batches int64
		start   = time.Now()
	)

	for off := 0; off < len(rows); off += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		end := off + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		flushStart := time.Now()
		n, err := copyFn(ctx, rows[off:end])
		total += n
		if err != nil {
			log.Printf("loader: batch insert failed after=%d total=%d err=%v", n, total, err)
			return total, err
		}
		batches++
		elapsed := time.Since(flushStart)
		rps := float64(0)
		if elapsed > 0 {
			rps = float64(n) / elapsed.Seconds()
		}
		log.Printf("batch #%d: rps=%.0f inserted=%d total_inserted=%d elapsed=%s",
			batches, rps, n, total, time.Since(start).Truncate(time.Millisecond))
	}
	return total, nil
}
