package ops

import (
	"sync"
	"time"
)

const (
	defaultDebounceDelay = 300 * time.Millisecond
	maxDebounceDelay     = 5 * time.Second
)

// Debounced coalesces rapid calls to one operation id: only the last
// Execute within the delay window actually runs, under a token from
// the shared Manager. A superseded call simply never runs; its
// cancellation is swallowed rather than reported.
type Debounced struct {
	mu      sync.Mutex
	manager *Manager
	id      string
	delay   time.Duration
	timer   *time.Timer
}

// NewDebounced wraps operation id on manager with the given delay.
// Non-positive delay falls back to the default.
func NewDebounced(manager *Manager, id string, delay time.Duration) *Debounced {
	d := &Debounced{manager: manager, id: id, delay: defaultDebounceDelay}
	if delay > 0 {
		d.SetDelay(delay)
	}
	return d
}

// Execute schedules op to run after the debounce delay, resetting the
// window on every call. op receives a fresh token and must return its
// cancellation error upward; cancellation errors are swallowed here
// and everything else is passed to onErr when provided.
func (d *Debounced) Execute(op func(*Token) error, onErr func(error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		token := d.manager.Start(d.id, "superseded by newer call")
		err := op(token)
		if err == nil {
			d.manager.Complete(d.id)
			return
		}
		if IsCanceled(err) {
			return
		}
		if onErr != nil {
			onErr(err)
		}
	})
}

// Cancel stops any pending run and cancels the in-flight operation.
func (d *Debounced) Cancel() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.manager.Cancel(d.id, "debounced operation cancelled")
}

// SetDelay updates the debounce window, clamped to [0, 5s].
func (d *Debounced) SetDelay(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	if delay > maxDebounceDelay {
		delay = maxDebounceDelay
	}
	d.mu.Lock()
	d.delay = delay
	d.mu.Unlock()
}

// Delay returns the current debounce window.
func (d *Debounced) Delay() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delay
}
