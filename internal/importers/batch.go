package importers

import (
	"context"
	"fmt"
	"iter"
)

// CommitStats describes one batched commit pass.
type CommitStats struct {
	Batches    int
	Committed  int
	BatchSizes []int
}

// CommitBatches drains seq into buffers of at most batchSize items and hands
// each buffer to create, in input order. It stops when the sequence is
// exhausted. A failing create aborts the pass with a *PersistenceError;
// earlier batches stay committed.
func CommitBatches[T any](ctx context.Context, seq iter.Seq[T], batchSize int, create func(context.Context, []T) error) (CommitStats, error) {
	var stats CommitStats
	if batchSize <= 0 {
		return stats, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	buffer := make([]T, 0, batchSize)
	flush := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := create(ctx, buffer); err != nil {
			return &PersistenceError{Batch: stats.Batches, Committed: stats.Committed, Err: err}
		}
		stats.Batches++
		stats.Committed += len(buffer)
		stats.BatchSizes = append(stats.BatchSizes, len(buffer))
		buffer = make([]T, 0, batchSize)
		return nil
	}

	for item := range seq {
		buffer = append(buffer, item)
		if len(buffer) == batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}

	if len(buffer) > 0 {
		if err := flush(); err != nil {
			return stats, err
		}
	}
	return stats, nil
}
