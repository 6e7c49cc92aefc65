// This file implements a generic, batched loader: it slices prepared rows
// into batches and invokes the repository's bulk-insert per batch, logging
// concise progress with running totals and instantaneous rows/sec.
package storage

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"
)

// DefaultBatchSize is used when a load is requested with batchSize <= 0.
const DefaultBatchSize = 500

// LoadRows inserts rows into repo in batches of batchSize, aligned to the
// given column order. It returns the total number of rows reported inserted
// and the first error encountered.
func LoadRows(ctx context.Context, repo Repository, columns []string, rows [][]any, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var (
		total   int64
		batches int64
		start   = time.Now()
	)
	for lo := 0; lo < len(rows); lo += batchSize {
		hi := lo + batchSize
		if hi > len(rows) {
			hi = len(rows)
		}
		n, err := repo.CopyFrom(ctx, columns, rows[lo:hi])
		total += n
		if err != nil {
			return total, fmt.Errorf("load batch %d: %w", batches+1, err)
		}
		batches++
		elapsed := time.Since(start)
		rps := float64(0)
		if elapsed > 0 {
			rps = float64(total) / elapsed.Seconds()
		}
		log.Printf("batch #%d: inserted=%d total_inserted=%d rps=%.0f elapsed=%s",
			batches, n, total, rps, elapsed.Truncate(time.Millisecond))
	}
	return total, nil
}

// Rows converts delimited table data into insert rows aligned to header
// order. Values of integer-marked columns are parsed to int64; empty cells
// become NULL; everything else stays text.
func Rows(columns []Column, data [][]string) ([][]any, error) {
	out := make([][]any, len(data))
	for i, rec := range data {
		if len(rec) != len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, want %d", i, len(rec), len(columns))
		}
		row := make([]any, len(rec))
		for j, v := range rec {
			switch {
			case v == "":
				row[j] = nil
			case columns[j].Integer:
				n, err := strconv.ParseInt(v, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("row %d column %s: %q is not an integer: %w", i, columns[j].Name, v, err)
				}
				row[j] = n
			default:
				row[j] = v
			}
		}
		out[i] = row
	}
	return out, nil
}
