package httpapi

import (
	"context"
	"net/http"
)

// serverBaseCtx is canceled on shutdown; dispatches observe it alongside the
// request context.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context used by handlers.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// dispatchContext bounds one POST /dispatch: it ends with the request, on
// server shutdown, or after the configured dispatch timeout.
func dispatchContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	if dispatchTimeout <= 0 {
		return ctx, cancel
	}
	tctx, tcancel := context.WithTimeout(ctx, dispatchTimeout)
	return tctx, func() {
		tcancel()
		cancel()
	}
}

// joinContexts returns a context canceled when either a or b is done. Its
// values come from b. The cancel func releases the watcher goroutine.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(b))
	stop := context.AfterFunc(a, cancel)
	stopB := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		stopB()
		cancel()
	}
}
