package event

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"opinio/internal/effect"
	"opinio/internal/state"
)

const defaultMaxDepth = 64

// HandlerFunc handles one event. It reads state through r and describes what
// should happen in the returned Result; it must not mutate anything.
type HandlerFunc func(r state.Reader, ev Event) Result

// Executor runs effects. *effect.Registry satisfies it.
type Executor interface {
	Has(id effect.ID) bool
	Run(ctx context.Context, id effect.ID, in any, ok func(any), fail func(error))
}

// Config holds Bus tunables. Zero values are replaced by defaults.
type Config struct {
	Logger    *zerolog.Logger
	Publisher Publisher
	// ErrorEvent builds the event that failures are converted into.
	// Without it failures are only logged.
	ErrorEvent func(msg string) Event
	// MaxDepth bounds nested emits within one dispatch.
	MaxDepth int
}

// Stats is a point-in-time view of bus counters.
type Stats struct {
	Dispatched       uint64 `json:"dispatched"`
	UnknownKinds     uint64 `json:"unknown_kinds"`
	HandlerErrors    uint64 `json:"handler_errors"`
	EffectsScheduled uint64 `json:"effects_scheduled"`
	InFlight         int64  `json:"inflight"`
}

// Bus routes events to handlers and sequences their effects. Dispatches are
// serialized: one handler body runs at a time.
type Bus struct {
	mu       sync.Mutex // serializes dispatch
	store    *state.Container
	effects  Executor
	handlers map[Kind]HandlerFunc
	hmu      sync.RWMutex

	log       zerolog.Logger
	publisher Publisher
	errorEv   func(string) Event
	errorKind Kind
	maxDepth  int

	ctx    context.Context
	cancel context.CancelFunc

	inflight         atomic.Int64
	dispatched       atomic.Uint64
	unknownKinds     atomic.Uint64
	handlerErrors    atomic.Uint64
	effectsScheduled atomic.Uint64
}

// New constructs a Bus over store that runs deferred work through effects.
func New(store *state.Container, effects Executor, cfg Config) *Bus {
	b := &Bus{
		store:     store,
		effects:   effects,
		handlers:  make(map[Kind]HandlerFunc),
		log:       zerolog.Nop(),
		publisher: noopPublisher{},
		errorEv:   cfg.ErrorEvent,
		maxDepth:  cfg.MaxDepth,
	}
	if cfg.Logger != nil {
		b.log = cfg.Logger.With().Str("component", "bus").Logger()
	}
	if cfg.Publisher != nil {
		b.publisher = cfg.Publisher
	}
	if b.maxDepth <= 0 {
		b.maxDepth = defaultMaxDepth
	}
	if b.errorEv != nil {
		if ev := b.errorEv(""); ev != nil {
			b.errorKind = ev.Kind()
		}
	}
	b.ctx, b.cancel = context.WithCancel(context.Background())
	return b
}

// Register installs fn for kind, replacing any previous handler.
func (b *Bus) Register(kind Kind, fn HandlerFunc) {
	b.hmu.Lock()
	b.handlers[kind] = fn
	b.hmu.Unlock()
}

// Handle registers a handler typed by its event struct.
func Handle[E Event](b *Bus, fn func(r state.Reader, ev E) Result) {
	var zero E
	kind := zero.Kind()
	b.Register(kind, func(r state.Reader, ev Event) Result {
		e, ok := ev.(E)
		if !ok {
			return Fail(fmt.Errorf("event %s: unexpected payload %T", kind, ev))
		}
		return fn(r, e)
	})
}

// Kinds lists the registered kinds in sorted order.
func (b *Bus) Kinds() []Kind {
	b.hmu.RLock()
	defer b.hmu.RUnlock()
	out := make([]Kind, 0, len(b.handlers))
	for k := range b.handlers {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Check verifies that every kind in kinds has a handler.
func (b *Bus) Check(kinds ...Kind) error {
	b.hmu.RLock()
	defer b.hmu.RUnlock()
	var missing []string
	for _, k := range kinds {
		if _, ok := b.handlers[k]; !ok {
			missing = append(missing, string(k))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no handler registered for: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Dispatch handles ev and every event it emits in one state batch, notifies
// observers once, then schedules the collected deferred work. It returns after
// all synchronous work is done.
//
// A non-nil error is informational: the bus has already logged it, and for
// handler failures it has already dispatched the error event. Unknown
// top-level kinds are dropped.
func (b *Bus) Dispatch(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ev == nil {
		busErrorsTotal.WithLabelValues("nil_event").Inc()
		return ErrNilEvent
	}
	trace := uuid.NewString()

	pending, err := b.apply(ev, trace)
	if err == nil {
		b.dispatched.Add(1)
		b.publisher.Publish(Occurrence{Name: OccDispatched, Kind: ev.Kind(), Trace: trace})
		for _, d := range pending {
			b.schedule(trace, ev.Kind(), d)
		}
		return nil
	}
	return b.fail(ctx, ev, trace, err)
}

// apply runs ev and its nested events in one state batch under the dispatch
// lock. Observers are notified once even when nothing was written.
func (b *Bus) apply(ev Event, trace string) ([]Deferred, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	start := time.Now()
	defer func() { busDispatchDuration.Observe(time.Since(start).Seconds()) }()

	var pending []Deferred
	wrote := false
	err := b.store.Batch(func(tx *state.Tx) error {
		if err := b.process(tx, ev, 0, trace, &pending); err != nil {
			return err
		}
		wrote = tx.Dirty()
		return nil
	})
	if err == nil && !wrote {
		b.store.Notify()
	}
	return pending, err
}

// process runs the handler for ev and applies its immediate steps to tx.
func (b *Bus) process(tx *state.Tx, ev Event, depth int, trace string, pending *[]Deferred) error {
	if ev == nil {
		return ErrNilEvent
	}
	kind := ev.Kind()
	if depth > b.maxDepth {
		return &HandlerError{Kind: kind, Err: ErrTooDeep}
	}
	b.hmu.RLock()
	h, ok := b.handlers[kind]
	b.hmu.RUnlock()
	if !ok {
		return &UnknownKindError{Kind: kind, Nested: depth > 0}
	}

	res := invoke(h, tx, ev)
	if res.Err != nil {
		return &HandlerError{Kind: kind, Err: res.Err}
	}
	busEventsTotal.WithLabelValues(string(kind)).Inc()
	b.log.Debug().Str("trace", trace).Str("kind", string(kind)).Int("depth", depth).Int("steps", len(res.Immediate)).Msg("handle")

	for _, st := range res.Immediate {
		if st.op == opEmit {
			if err := b.process(tx, st.event, depth+1, trace, pending); err != nil {
				return err
			}
			continue
		}
		if err := write(tx, st); err != nil {
			return &HandlerError{Kind: kind, Err: err}
		}
	}

	if res.Deferred != nil {
		if req, ok := res.Deferred.(*Request); ok && !b.effects.Has(req.Effect) {
			return &HandlerError{Kind: kind, Err: &effect.UnknownEffectError{Effect: req.Effect}}
		}
		*pending = append(*pending, res.Deferred)
	}
	return nil
}

// write applies a Set or Update step. Updaters are handler code, so a panic
// in one is returned as an error like a panicking handler.
func write(tx *state.Tx, st Step) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	switch st.op {
	case opSet:
		tx.Set(st.path, st.value)
	case opUpdate:
		tx.Update(st.path, st.fn)
	}
	return nil
}

func invoke(h HandlerFunc, r state.Reader, ev Event) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = Fail(fmt.Errorf("%v", rec))
		}
	}()
	return h(r, ev)
}

// fail records a dispatch failure and, unless the failure is an unknown
// top-level kind or the error event itself failed, dispatches the error event.
func (b *Bus) fail(ctx context.Context, ev Event, trace string, err error) error {
	kind := ev.Kind()
	if uk, ok := err.(*UnknownKindError); ok {
		b.unknownKinds.Add(1)
		busErrorsTotal.WithLabelValues("unknown_kind").Inc()
		b.publisher.Publish(Occurrence{Name: OccUnknownKind, Kind: uk.Kind, Trace: trace, Fields: map[string]any{"nested": uk.Nested, "root": string(kind)}})
		b.log.Warn().Str("trace", trace).Str("kind", string(uk.Kind)).Bool("nested", uk.Nested).Msg("unknown event kind")
		if !uk.Nested {
			return err
		}
	} else {
		b.handlerErrors.Add(1)
		busErrorsTotal.WithLabelValues("handler").Inc()
		b.publisher.Publish(Occurrence{Name: OccHandlerError, Kind: kind, Trace: trace, Fields: map[string]any{"error": err.Error()}})
		b.log.Error().Str("trace", trace).Str("kind", string(kind)).Err(err).Msg("handler failed")
	}

	if b.errorEv == nil || kind == b.errorKind {
		b.publisher.Publish(Occurrence{Name: OccDropped, Kind: kind, Trace: trace})
		return err
	}
	_ = b.Dispatch(ctx, b.errorEv(Message(err)))
	return err
}

// schedule starts deferred work on its own goroutine. The continuation event
// is dispatched from that goroutine once the work resolves.
func (b *Bus) schedule(trace string, from Kind, d Deferred) {
	b.effectsScheduled.Add(1)
	b.inflight.Add(1)
	switch d := d.(type) {
	case *Request:
		b.publisher.Publish(Occurrence{Name: OccEffectScheduled, Kind: from, Trace: trace, Fields: map[string]any{"effect": string(d.Effect)}})
		go func() {
			defer b.inflight.Add(-1)
			b.effects.Run(b.ctx, d.Effect, d.Input,
				func(out any) {
					if d.check != nil {
						if err := d.check(out); err != nil {
							b.reject(trace, d, err)
							return
						}
					}
					if d.OnSuccess != nil {
						b.continueWith(trace, d.OnSuccess(out))
					}
				},
				func(err error) { b.reject(trace, d, err) })
		}()
	case *Delay:
		b.publisher.Publish(Occurrence{Name: OccEffectScheduled, Kind: from, Trace: trace, Fields: map[string]any{"effect": string(effect.Delay), "wait": d.Wait.String()}})
		go func() {
			defer b.inflight.Add(-1)
			b.effects.Run(b.ctx, effect.Delay, d.Wait,
				func(any) {
					if d.When == nil || d.When(b.store) {
						b.continueWith(trace, d.Then)
						return
					}
					b.continueWith(trace, d.Otherwise)
				},
				func(err error) {
					b.log.Debug().Str("trace", trace).Err(err).Msg("delay aborted")
				})
		}()
	default:
		b.inflight.Add(-1)
	}
}

// reject continues a failed request with its failure event, or the bus's
// error event when it has none.
func (b *Bus) reject(trace string, d *Request, err error) {
	if d.OnFailure != nil {
		b.continueWith(trace, d.OnFailure(err))
		return
	}
	if b.errorEv != nil {
		b.continueWith(trace, b.errorEv(Message(err)))
		return
	}
	b.log.Warn().Str("trace", trace).Str("effect", string(d.Effect)).Err(err).Msg("effect failed, no error event")
}

func (b *Bus) continueWith(trace string, ev Event) {
	if ev == nil {
		return
	}
	if b.ctx.Err() != nil {
		b.log.Debug().Str("trace", trace).Str("kind", string(ev.Kind())).Msg("bus closed, continuation dropped")
		return
	}
	if err := b.Dispatch(b.ctx, ev); err != nil {
		b.log.Debug().Str("trace", trace).Str("kind", string(ev.Kind())).Err(err).Msg("continuation")
	}
}

// Drain waits until no deferred work is in flight or ctx is done.
func (b *Bus) Drain(ctx context.Context) error {
	for {
		if b.inflight.Load() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// Close aborts pending timers and effects; their continuations are dropped.
func (b *Bus) Close() { b.cancel() }

// Store exposes the container the bus writes to.
func (b *Bus) Store() *state.Container { return b.store }

// Stats returns a snapshot of bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Dispatched:       b.dispatched.Load(),
		UnknownKinds:     b.unknownKinds.Load(),
		HandlerErrors:    b.handlerErrors.Load(),
		EffectsScheduled: b.effectsScheduled.Load(),
		InFlight:         b.inflight.Load(),
	}
}
