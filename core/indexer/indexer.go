package indexer

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/brc420-network/brc420-indexer/common/errs"
	"github.com/brc420-network/brc420-indexer/pkg/logger"
	"github.com/brc420-network/brc420-indexer/pkg/logger/slogx"
	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchSize    = 100
	defaultWorkers      = 4
	defaultRetryDelay   = 5 * time.Second
	defaultPollInterval = 1 * time.Second
)

type Options struct {
	// StartHeight is the first height to index when no progress markers
	// exist yet.
	StartHeight int64

	// BatchSize is the window width in blocks.
	BatchSize int

	// Workers is the number of parallel block workers per window.
	Workers int

	// RetryDelay is the constant backoff between retries of a failed
	// window.
	RetryDelay time.Duration

	// PollInterval is the pause before re-polling once a window is fully
	// processed (tip chasing).
	PollInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = defaultBatchSize
	}
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = defaultRetryDelay
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	return o
}

// WindowResult pairs a processed height with the processor's result record.
type WindowResult[R any] struct {
	BlockHeight int64
	Value       R
}

// Indexer drives indexing as one long-lived loop: compute a fixed-size window
// of heights, fan the unprocessed ones out across workers over a task channel,
// collect typed per-height results, then mark the whole window processed in a
// single idempotent write. Any worker failure retries the entire window;
// nothing is marked until the window fully succeeds.
type Indexer[R any] struct {
	processor BlockProcessor[R]
	tracker   ProgressTracker
	opts      Options

	// WindowDone, if set, is invoked after each successfully committed
	// window with every freshly processed height's result.
	WindowDone func(ctx context.Context, fromHeight, toHeight int64, results []WindowResult[R])

	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

func New[R any](processor BlockProcessor[R], tracker ProgressTracker, opts Options) *Indexer[R] {
	return &Indexer[R]{
		processor: processor,
		tracker:   tracker,
		opts:      opts.withDefaults(),

		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (i *Indexer[R]) Shutdown() error {
	return i.ShutdownWithContext(context.Background())
}

func (i *Indexer[R]) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return i.ShutdownWithContext(ctx)
}

func (i *Indexer[R]) ShutdownWithContext(ctx context.Context) (err error) {
	i.quitOnce.Do(func() {
		close(i.quit)
		select {
		case <-i.done:
		case <-time.After(180 * time.Second):
			err = errors.Wrap(errs.Timeout, "indexer shutdown timeout")
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "indexer shutdown context canceled")
		}
	})
	return
}

func (i *Indexer[R]) Run(ctx context.Context) (err error) {
	defer close(i.done)

	ctx = logger.WithContext(ctx,
		slog.String("package", "indexer"),
		slog.String("processor", i.processor.Name()),
	)

	// Cancel in-flight work when a quit signal arrives.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-i.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	current := i.opts.StartHeight
	latest, err := i.tracker.GetLatestProcessedHeight(ctx)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "can't init state, failed to get latest processed height")
	}
	if err == nil && latest+1 > current {
		current = latest + 1
	}

	logger.InfoContext(ctx, "Starting indexer", slogx.Int64("start_height", current))
	for {
		select {
		case <-i.quit:
			logger.InfoContext(ctx, "Got quit signal, stopping indexer")
			if err := i.processor.Shutdown(context.Background()); err != nil {
				logger.ErrorContext(ctx, "Failed to shutdown processor", slogx.Error(err))
				return errors.Wrap(err, "processor shutdown failed")
			}
			return nil
		default:
		}
		if ctx.Err() != nil {
			return nil
		}

		toHeight := current + int64(i.opts.BatchSize) - 1
		processed, err := i.processWindow(ctx, current, toHeight)
		if err != nil {
			// only unrecoverable at this point: context canceled
			continue
		}
		if processed == 0 {
			// window fully processed already, pause before chasing the tip
			select {
			case <-time.After(i.opts.PollInterval):
			case <-i.quit:
			case <-ctx.Done():
			}
		}
		current = toHeight + 1
	}
}

// processWindow retries the window with a constant backoff until every
// unprocessed height in it succeeds. Returns the number of freshly processed
// heights.
func (i *Indexer[R]) processWindow(ctx context.Context, fromHeight, toHeight int64) (int, error) {
	var processed int
	operation := func() error {
		heights, err := i.tracker.GetUnprocessedHeights(ctx, fromHeight, toHeight)
		if err != nil {
			return errors.Wrap(err, "failed to get unprocessed heights")
		}
		if len(heights) == 0 {
			processed = 0
			return nil
		}

		results, err := i.dispatch(ctx, heights)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := i.tracker.MarkHeightsProcessed(ctx, heights); err != nil {
			return errors.Wrap(err, "failed to mark heights processed")
		}
		if i.WindowDone != nil {
			i.WindowDone(ctx, fromHeight, toHeight, results)
		}
		processed = len(heights)
		return nil
	}

	policy := backoff.WithContext(backoff.NewConstantBackOff(i.opts.RetryDelay), ctx)
	err := backoff.Retry(func() error {
		if err := operation(); err != nil {
			logger.WarnContext(ctx, "Window processing failed, will retry whole window",
				slogx.Int64("from", fromHeight),
				slogx.Int64("to", toHeight),
				slogx.Error(err),
			)
			return err
		}
		return nil
	}, policy)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return processed, nil
}

type taskResult[R any] struct {
	blockHeight int64
	value       R
	err         error
}

// dispatch fans heights out to i.opts.Workers workers over a task channel.
// Each worker processes its heights strictly sequentially; results come back
// per height so failures are reported precisely.
func (i *Indexer[R]) dispatch(ctx context.Context, heights []int64) ([]WindowResult[R], error) {
	workers := min(i.opts.Workers, len(heights))
	tasks := make(chan int64)
	resultCh := make(chan taskResult[R], len(heights))

	g, gctx := errgroup.WithContext(ctx)
	go func() {
		defer close(tasks)
		for _, height := range heights {
			select {
			case tasks <- height:
			case <-gctx.Done():
				return
			}
		}
	}()
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for height := range tasks {
				value, err := i.processor.Process(gctx, height)
				resultCh <- taskResult[R]{blockHeight: height, value: value, err: err}
				if err != nil {
					return errors.Wrapf(err, "failed to process block %d", height)
				}
			}
			return nil
		})
	}
	werr := g.Wait()
	close(resultCh)

	var failedHeights []int64
	results := make([]WindowResult[R], 0, len(heights))
	for result := range resultCh {
		if result.err != nil {
			failedHeights = append(failedHeights, result.blockHeight)
			continue
		}
		results = append(results, WindowResult[R]{BlockHeight: result.blockHeight, Value: result.value})
	}
	if werr != nil {
		sort.Slice(failedHeights, func(a, b int) bool { return failedHeights[a] < failedHeights[b] })
		logger.WarnContext(ctx, "Some blocks in window failed",
			slogx.Any("failed_heights", failedHeights),
		)
		return nil, errors.WithStack(werr)
	}
	sort.Slice(results, func(a, b int) bool { return results[a].BlockHeight < results[b].BlockHeight })
	return results, nil
}
