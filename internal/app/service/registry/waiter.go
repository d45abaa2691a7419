package registry

import (
	"context"
	"fmt"
	"time"
)

// WaitForTerminal blocks until the payment is resolved, timeout elapses or ctx
// is done, whichever comes first. A timeout is not an error: the still
// PENDING record is returned with TimedOut set. When ctx ends first the current
// record is returned together with ctx.Err().
func (r *Registry) WaitForTerminal(ctx context.Context, correlationID string, timeout time.Duration) (WaitResult, error) {
	start := time.Now()

	r.mu.Lock()
	e, ok := r.entries[correlationID]
	if !ok {
		r.mu.Unlock()
		return WaitResult{}, fmt.Errorf("%w: %s", ErrNotFound, correlationID)
	}
	if e.record.Status.IsTerminal() {
		rec := e.record.clone()
		r.mu.Unlock()
		return WaitResult{Record: rec}, nil
	}
	if timeout <= 0 {
		rec := e.record.clone()
		r.mu.Unlock()
		return WaitResult{Record: rec, TimedOut: true}, nil
	}
	if e.done == nil {
		e.done = make(chan struct{})
	}
	done := e.done
	e.waiters++
	r.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var ctxErr error
	timedOut := false
	select {
	case <-done:
	case <-timer.C:
		timedOut = true
	case <-ctx.Done():
		ctxErr = ctx.Err()
	}

	r.mu.Lock()
	e.waiters--
	terminal := e.record.Status.IsTerminal()
	if timedOut && !terminal {
		e.abandoned++
	}
	if e.waiters == 0 && !terminal {
		e.done = nil
	}
	rec := e.record.clone()
	r.mu.Unlock()

	res := WaitResult{Record: rec, TimedOut: !terminal && ctxErr == nil}
	outcome := "resolved"
	switch {
	case ctxErr != nil:
		outcome = "cancelled"
	case res.TimedOut:
		outcome = "timeout"
	}
	r.metrics.ObserveWait(outcome, time.Since(start))

	if ctxErr != nil {
		return res, ctxErr
	}
	return res, nil
}

// waiterCount reports live waiters and whether a notification channel is held.
func (r *Registry) waiterCount(correlationID string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[correlationID]
	if !ok {
		return 0, false
	}
	return e.waiters, e.done != nil
}
