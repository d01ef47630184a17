package convert

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cyberdeco/bg3kit/internal/pathtrans"
	"github.com/cyberdeco/bg3kit/internal/procmon"
)

// DefaultWorkerCount is the default bounded worker pool size (spec §5).
const DefaultWorkerCount = 4

// BatchState is a conversion request's position in its state machine:
// Queued -> Running -> (Succeeded | Failed | Cancelled), terminal states
// only (spec §4.12).
type BatchState int

const (
	BatchQueued BatchState = iota
	BatchRunning
	BatchSucceeded
	BatchFailed
	BatchCancelled
)

func (s BatchState) String() string {
	switch s {
	case BatchQueued:
		return "queued"
	case BatchRunning:
		return "running"
	case BatchSucceeded:
		return "succeeded"
	case BatchFailed:
		return "failed"
	case BatchCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// BatchRequest is a single independent conversion to run.
type BatchRequest struct {
	Source       string
	TargetFormat string
}

// BatchResult is the terminal outcome of one BatchRequest.
type BatchResult struct {
	Source  string
	Target  string
	State   BatchState
	Success bool
	Output  string
	Err     error
}

// BatchProgress is a per-job progress update, identified by the request's
// position in the original input slice so a UI can track many concurrent
// jobs independently.
type BatchProgress struct {
	Index   int
	Source  string
	Percent int
	Message string
}

// CancelFlag is the shared cooperative-cancellation token spec §4.12
// describes: setting it causes in-flight jobs to be asked to stop (via
// the converter's own cancellation) and queued jobs to be skipped with
// BatchCancelled.
type CancelFlag struct {
	flag atomic.Bool
}

// Cancel sets the flag. Safe to call multiple times and concurrently.
func (c *CancelFlag) Cancel() { c.flag.Store(true) }

// Cancelled reports whether Cancel has been called.
func (c *CancelFlag) Cancelled() bool { return c.flag.Load() }

// BatchDriver fans BatchRequests out across a bounded worker pool,
// driving each one through a Converter (spec §4.12, §5).
type BatchDriver struct {
	converter  Converter
	translator pathtrans.Translator
	workers    int
}

// NewBatchDriver builds a BatchDriver with the given worker count; a
// non-positive count uses DefaultWorkerCount.
func NewBatchDriver(converter Converter, translator pathtrans.Translator, workers int) *BatchDriver {
	if workers <= 0 {
		workers = DefaultWorkerCount
	}
	return &BatchDriver{converter: converter, translator: translator, workers: workers}
}

// Run executes every request, respecting cancel and ctx, and returns
// results ordered by input position regardless of completion order (spec
// §5 "A batch's final aggregate list is ordered by input position").
func (b *BatchDriver) Run(ctx context.Context, requests []BatchRequest, cancel *CancelFlag, onProgress func(BatchProgress)) []BatchResult {
	results := make([]BatchResult, len(requests))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			if cancel != nil && cancel.Cancelled() {
				results[i] = BatchResult{Source: req.Source, Target: req.TargetFormat, State: BatchCancelled}
				reportProgress(onProgress, BatchProgress{Index: i, Source: req.Source, Percent: 0, Message: "cancelled before start"})
				return nil
			}

			reportProgress(onProgress, BatchProgress{Index: i, Source: req.Source, Percent: 0, Message: "running"})
			rec := b.runOne(gctx, i, req, cancel, onProgress)

			mu.Lock()
			results[i] = rec
			mu.Unlock()

			reportProgress(onProgress, BatchProgress{Index: i, Source: req.Source, Percent: 100, Message: rec.State.String()})
			return nil
		})
	}
	g.Wait()

	return results
}

func (b *BatchDriver) runOne(ctx context.Context, index int, req BatchRequest, cancel *CancelFlag, onProgress func(BatchProgress)) BatchResult {
	rec := BatchResult{Source: req.Source, Target: req.TargetFormat, State: BatchRunning}

	targetPath := targetPathFor(req.Source, req.TargetFormat)

	emulatedIn, err := b.translator.ToEmulated(req.Source)
	if err != nil {
		rec.State = BatchFailed
		rec.Err = fmt.Errorf("translate input path: %w", err)
		return rec
	}
	emulatedOut, err := b.translator.ToEmulated(targetPath)
	if err != nil {
		rec.State = BatchFailed
		rec.Err = fmt.Errorf("translate output path: %w", err)
		return rec
	}

	h := b.converter.Run(ctx,
		"--action", "convert-resource",
		"--game", "bg3",
		"--source", emulatedIn,
		"--destination", emulatedOut,
		"--output-format", req.TargetFormat,
	)

	cancelWatchDone := make(chan struct{})
	if cancel != nil {
		go func() {
			ticker := time.NewTicker(50 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-cancelWatchDone:
					return
				case <-ticker.C:
					if cancel.Cancelled() {
						h.Cancel()
						return
					}
				}
			}
		}()
	}

	for p := range h.Progress {
		reportProgress(onProgress, BatchProgress{Index: index, Source: req.Source, Percent: p.Percent, Message: p.Message})
	}
	close(cancelWatchDone)

	result := <-h.Done
	rec.Output = targetPath

	switch result.Status {
	case procmon.StatusSucceeded:
		rec.State = BatchSucceeded
		rec.Success = true
	case procmon.StatusCancelled:
		rec.State = BatchCancelled
	case procmon.StatusKilledAfterTimeout:
		rec.State = BatchFailed
		rec.Err = fmt.Errorf("conversion timed out")
	default:
		rec.State = BatchFailed
		rec.Err = fmt.Errorf("conversion failed: %s", result.Stderr)
	}
	return rec
}

func targetPathFor(source, targetFormat string) string {
	ext := source[:len(source)-len(extOf(source))]
	return ext + "." + targetFormat
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' || path[i] == '\\' {
			break
		}
	}
	return ""
}

func reportProgress(fn func(BatchProgress), p BatchProgress) {
	if fn != nil {
		fn(p)
	}
}

// AggregateProgress combines N per-job (percent, message) streams into a
// single overall percentage (supplemented feature: spec §4.12 describes
// per-file progress only; batch UIs also want one combined number).
type AggregateProgress struct {
	mu       sync.Mutex
	percents map[int]int
	total    int
}

// NewAggregateProgress builds an AggregateProgress tracking total jobs.
func NewAggregateProgress(total int) *AggregateProgress {
	return &AggregateProgress{percents: make(map[int]int), total: total}
}

// Update records job index's latest percent and returns the new overall
// percentage: the unweighted mean of every job's last-known percent,
// with not-yet-started jobs counted as 0%.
func (a *AggregateProgress) Update(index, percent int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.percents[index] = percent

	if a.total == 0 {
		return 100
	}
	sum := 0
	for _, p := range a.percents {
		sum += p
	}
	return sum / a.total
}
