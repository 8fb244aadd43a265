package effect

import (
	"context"
	"time"
)

// admit reserves one effect slot, waiting at most MaxWait.
// Returns a release func to be deferred.
func (r *Registry) admit(ctx context.Context, id ID) (func(), error) {
	// Fast path: respect an already-canceled context
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}
	select {
	case r.slots <- struct{}{}:
		return func() { <-r.slots }, nil
	default:
	}

	timer := time.NewTimer(r.cfg.MaxWait)
	defer timer.Stop()
	select {
	case r.slots <- struct{}{}:
		return func() { <-r.slots }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		effectBackpressureTotal.WithLabelValues(string(id)).Inc()
		return func() {}, tooBusyError{effect: id}
	}
}

// InFlight returns the number of admitted effects currently running.
func (r *Registry) InFlight() int { return len(r.slots) }
