package effect

import (
	"context"
	"time"
)

// Delay is the id of the built-in timer effect. Its input is a time.Duration
// and it resolves with the same duration once the timer fires.
const Delay ID = "delay"

func wait(ctx context.Context, d time.Duration) (time.Duration, error) {
	if d <= 0 {
		return d, ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return d, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
