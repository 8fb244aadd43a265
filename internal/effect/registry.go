package effect

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ID names a registered effect.
type ID string

// Func is the untyped form every registered effect is stored as.
type Func func(ctx context.Context, in any) (any, error)

// Registry maps effect ids to functions and runs them.
type Registry struct {
	mu  sync.RWMutex
	fns map[ID]Func

	cfg   Config
	slots chan struct{}
}

// New constructs a Registry with the timer effect already registered.
func New(cfg Config) *Registry {
	cfg = cfg.withDefaults()
	r := &Registry{
		fns:   make(map[ID]Func),
		cfg:   cfg,
		slots: make(chan struct{}, cfg.MaxInFlight),
	}
	Register(r, Delay, wait)
	return r
}

// Register installs fn under id, replacing any previous function. A nil input
// is passed to fn as the zero In; any other input that is not an In fails the
// effect with an InputTypeError.
func Register[In, Out any](r *Registry, id ID, fn func(ctx context.Context, in In) (Out, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[id] = func(ctx context.Context, in any) (any, error) {
		var v In
		if in != nil {
			typed, ok := in.(In)
			if !ok {
				return nil, &InputTypeError{Effect: id, Want: fmt.Sprintf("%T", v), Got: in}
			}
			v = typed
		}
		return fn(ctx, v)
	}
}

// Has reports whether id is registered.
func (r *Registry) Has(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.fns[id]
	return ok
}

// IDs lists registered effect ids in sorted order.
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ID, 0, len(r.fns))
	for id := range r.fns {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Run executes the effect in the calling goroutine and then calls exactly one
// of ok or fail. Rejections, panics, unknown ids and admission timeouts all go
// to fail.
func (r *Registry) Run(ctx context.Context, id ID, in any, ok func(any), fail func(error)) {
	out, err := r.Call(ctx, id, in)
	if err != nil {
		if fail != nil {
			fail(err)
		}
		return
	}
	if ok != nil {
		ok(out)
	}
}

// Call executes the effect synchronously and returns its outcome.
func (r *Registry) Call(ctx context.Context, id ID, in any) (any, error) {
	r.mu.RLock()
	fn, found := r.fns[id]
	r.mu.RUnlock()
	if !found {
		return nil, &UnknownEffectError{Effect: id}
	}

	// Timers do not hold a slot; they would otherwise starve real work.
	if id != Delay {
		release, err := r.admit(ctx, id)
		if err != nil {
			return nil, &Failure{Effect: id, Err: err}
		}
		defer release()
	}

	effectInflight.Inc()
	defer effectInflight.Dec()
	start := time.Now()
	out, err := invoke(ctx, fn, in)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	effectDuration.WithLabelValues(string(id), outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		r.cfg.Logger.Debug().Str("effect", string(id)).Err(err).Msg("effect rejected")
		return nil, &Failure{Effect: id, Err: err}
	}
	return out, nil
}

func invoke(ctx context.Context, fn Func, in any) (out any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("effect panicked: %v", rec)
		}
	}()
	return fn(ctx, in)
}
