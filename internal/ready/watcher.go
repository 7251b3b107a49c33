// Package ready waits for a page to reach a state, then runs a callback
// exactly once.
package ready

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod/lib/utils"
)

// DefaultInterval is the polling interval used when none is set.
const DefaultInterval = 250 * time.Millisecond

// ErrFired is returned by Watch once the watcher has already fired.
var ErrFired = errors.New("watcher already fired")

// Probe reports whether the watched condition holds. Errors count as not
// ready yet.
type Probe func(ctx context.Context) (bool, error)

// Watcher polls a Probe and fires its callback the first time the probe
// succeeds. A Watcher is single use.
type Watcher struct {
	probe    Probe
	interval time.Duration

	mu    sync.Mutex
	fired bool
}

// New returns a watcher polling probe every interval. A non-positive
// interval selects DefaultInterval.
func New(probe Probe, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{probe: probe, interval: interval}
}

// Fired reports whether the callback has run.
func (w *Watcher) Fired() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fired
}

// Watch blocks until the probe succeeds and fn has run, or ctx is done.
// The probe is checked immediately, then once per interval.
func (w *Watcher) Watch(ctx context.Context, fn func()) error {
	if w.Fired() {
		return ErrFired
	}

	var lastErr error
	err := utils.Retry(ctx, w.sleeper(), func() (bool, error) {
		ok, err := w.probe(ctx)
		if err != nil {
			lastErr = err
		}
		return ok, nil
	})
	if err != nil {
		if lastErr != nil {
			return fmt.Errorf("%w (last probe error: %v)", err, lastErr)
		}
		return err
	}
	return w.fire(fn)
}

// sleeper waits a fixed interval between probes.
func (w *Watcher) sleeper() utils.Sleeper {
	return utils.BackoffSleeper(w.interval, w.interval, nil)
}

func (w *Watcher) fire(fn func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fired {
		return ErrFired
	}
	w.fired = true
	if fn != nil {
		fn()
	}
	return nil
}
