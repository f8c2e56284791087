package indexer

import "context"

// IndexerWorker is the minimal surface the runner needs from a module's
// indexer.
type IndexerWorker interface {
	Run(ctx context.Context) error
}

// BlockProcessor processes one block height and returns a typed result record
// for aggregation. Process must be idempotent: re-processing an
// already-committed height must not double-apply any claim.
type BlockProcessor[R any] interface {
	Name() string
	Process(ctx context.Context, blockHeight int64) (R, error)
	Shutdown(ctx context.Context) error
}

// ProgressTracker persists which heights have been fully processed. Markers
// are the sole resumption checkpoint after a crash.
type ProgressTracker interface {
	// GetLatestProcessedHeight returns the highest marked height, or
	// errs.NotFound if nothing was marked yet.
	GetLatestProcessedHeight(ctx context.Context) (int64, error)
	// GetUnprocessedHeights lists heights in [fromHeight, toHeight] without
	// a marker.
	GetUnprocessedHeights(ctx context.Context, fromHeight, toHeight int64) ([]int64, error)
	// MarkHeightsProcessed writes markers for the given heights. Must be
	// idempotent (insert if absent).
	MarkHeightsProcessed(ctx context.Context, heights []int64) error
}
