// Package render draws course lists progressively in fixed-size
// batches, yielding between batches so a newer render can cancel an
// older one mid-flight.
package render

import (
	"sync"
	"time"

	"github.com/campusplanner/planner/internal/logging"
	"github.com/campusplanner/planner/internal/model"
	"github.com/campusplanner/planner/internal/ops"
)

const (
	defaultBatchSize = 10
	minBatchSize     = 1
	maxBatchSize     = 100

	defaultBatchDelay = 16 * time.Millisecond
	maxBatchDelay     = 100 * time.Millisecond
)

// BatchFunc receives one batch of courses. first is true on the
// synchronous initial batch, complete on the final batch.
type BatchFunc func(batch []model.Course, first, complete bool)

// Options configures a Renderer. Zero values select the defaults.
type Options struct {
	BatchSize  int
	BatchDelay time.Duration

	// OnBatch is called after each batch as (batchIndex, batchCount,
	// totalCount), batchIndex starting at 1.
	OnBatch func(batchIndex, batchCount, totalCount int)

	// OnComplete is called once a render finishes uncancelled.
	OnComplete func(totalRendered int, elapsed time.Duration)
}

// Renderer runs batched renders. Starting a render cancels the
// previous one; generations are tracked so a stale render can never
// emit after it has been superseded.
type Renderer struct {
	mu         sync.Mutex
	batchSize  int
	batchDelay time.Duration
	onBatch    func(int, int, int)
	onComplete func(int, time.Duration)
	generation int
	rendering  bool
}

func New(opts Options) *Renderer {
	r := &Renderer{
		batchSize:  defaultBatchSize,
		batchDelay: defaultBatchDelay,
		onBatch:    opts.OnBatch,
		onComplete: opts.OnComplete,
	}
	if opts.BatchSize != 0 {
		r.SetBatchSize(opts.BatchSize)
	}
	if opts.BatchDelay != 0 {
		r.SetBatchDelay(opts.BatchDelay)
	}
	return r
}

// RenderBatched renders courses through fn in batches. The first batch
// is emitted synchronously for instant feedback; later batches follow
// an inter-batch wait, with cancellation checked both before and after
// each wait so nothing is emitted past the cancellation point.
// Cancellation is a silent stop, not an error.
func (r *Renderer) RenderBatched(courses []model.Course, fn BatchFunc, token *ops.Token) {
	// A call arriving already cancelled is stale work. It must not
	// claim a generation or touch the sink; either would disturb a
	// live newer render.
	if token.Cancelled() {
		return
	}

	gen := r.begin()
	defer r.end(gen)

	defer func() {
		if p := recover(); p != nil {
			logging.Error("render batch panic", "panic", p)
		}
	}()

	if len(courses) == 0 {
		fn(nil, true, true)
		return
	}

	size, delay := r.params()
	batchCount := (len(courses) + size - 1) / size
	start := time.Now()

	first := courses[:min(size, len(courses))]
	fn(first, true, len(courses) <= size)
	r.emitBatch(1, batchCount, len(courses))

	for i := 1; i < batchCount; i++ {
		if r.superseded(gen) || token.Cancelled() {
			return
		}
		if err := ops.Wait(delay, token); err != nil {
			return
		}
		if r.superseded(gen) {
			return
		}
		lo := i * size
		hi := min(lo+size, len(courses))
		fn(courses[lo:hi], false, i == batchCount-1)
		r.emitBatch(i+1, batchCount, len(courses))
	}

	r.complete(len(courses), time.Since(start))
}

// CancelCurrent invalidates any in-flight render.
func (r *Renderer) CancelCurrent() {
	r.mu.Lock()
	r.generation++
	r.rendering = false
	r.mu.Unlock()
}

// Rendering reports whether a render is in flight.
func (r *Renderer) Rendering() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rendering
}

// SetBatchSize clamps size to [1, 100].
func (r *Renderer) SetBatchSize(size int) {
	if size < minBatchSize {
		size = minBatchSize
	}
	if size > maxBatchSize {
		size = maxBatchSize
	}
	r.mu.Lock()
	r.batchSize = size
	r.mu.Unlock()
}

// BatchSize returns the current batch size.
func (r *Renderer) BatchSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batchSize
}

// SetBatchDelay clamps delay to [0, 100ms].
func (r *Renderer) SetBatchDelay(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	if delay > maxBatchDelay {
		delay = maxBatchDelay
	}
	r.mu.Lock()
	r.batchDelay = delay
	r.mu.Unlock()
}

func (r *Renderer) begin() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	r.rendering = true
	return r.generation
}

func (r *Renderer) end(gen int) {
	r.mu.Lock()
	if r.generation == gen {
		r.rendering = false
	}
	r.mu.Unlock()
}

func (r *Renderer) superseded(gen int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation != gen
}

func (r *Renderer) params() (int, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batchSize, r.batchDelay
}

func (r *Renderer) emitBatch(index, count, total int) {
	if r.onBatch != nil {
		r.onBatch(index, count, total)
	}
}

func (r *Renderer) complete(total int, elapsed time.Duration) {
	if r.onComplete != nil {
		r.onComplete(total, elapsed)
	}
}
