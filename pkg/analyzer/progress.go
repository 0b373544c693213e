package analyzer

import (
	"context"
	"sync/atomic"
)

// ProgressFunc receives the number of finished files, the expected total and
// the file just finished.
type ProgressFunc func(current, total int, path string)

// Tracker counts finished files. It is safe for concurrent use.
type Tracker struct {
	total    atomic.Int64
	current  atomic.Int64
	callback ProgressFunc
}

// NewTracker creates a tracker that reports every Tick to callback.
func NewTracker(callback ProgressFunc) *Tracker {
	return &Tracker{callback: callback}
}

// Add grows the expected total by n.
func (t *Tracker) Add(n int) {
	t.total.Add(int64(n))
}

// Tick marks path as finished.
func (t *Tracker) Tick(path string) {
	current := int(t.current.Add(1))
	if t.callback != nil {
		t.callback(current, int(t.total.Load()), path)
	}
}

// Current returns the number of finished files.
func (t *Tracker) Current() int {
	return int(t.current.Load())
}

// Total returns the expected total.
func (t *Tracker) Total() int {
	return int(t.total.Load())
}

// Done reports whether every expected file has finished.
func (t *Tracker) Done() bool {
	return t.Current() >= t.Total()
}

type trackerKey struct{}

// WithTracker returns a context carrying t.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext returns the tracker carried by ctx, or nil.
func TrackerFromContext(ctx context.Context) *Tracker {
	if t, ok := ctx.Value(trackerKey{}).(*Tracker); ok {
		return t
	}
	return nil
}
