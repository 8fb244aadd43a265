package event

import (
	"encoding/json"
	"fmt"
	"time"

	"opinio/internal/effect"
	"opinio/internal/state"
)

// Kind is the wire identifier of an event type ("CREATE_VOTE").
type Kind string

// Event is implemented by one struct per event kind; the struct's fields are
// the payload. Events must be non-pointer structs with value receivers so the
// kind can be read from a zero value.
type Event interface {
	Kind() Kind
}

// Raw is an event whose kind is only known by name, as it arrives at a
// serialization boundary before decoding into its concrete type.
type Raw struct {
	Name    Kind
	Payload json.RawMessage
}

func (r Raw) Kind() Kind { return r.Name }

type stepOp uint8

const (
	opEmit stepOp = iota + 1
	opSet
	opUpdate
)

// Step is one entry of a handler's immediate list: a nested event or a state write.
type Step struct {
	op    stepOp
	event Event
	path  state.Path
	value any
	fn    state.Updater
}

// Emit processes ev synchronously inside the current dispatch.
func Emit(ev Event) Step { return Step{op: opEmit, event: ev} }

// Set writes v at p.
func Set(p state.Path, v any) Step { return Step{op: opSet, path: p, value: v} }

// Update writes fn(current) at p; an absent current value is an empty []any.
func Update(p state.Path, fn state.Updater) Step { return Step{op: opUpdate, path: p, fn: fn} }

// String describes the step for logs and test failures.
func (s Step) String() string {
	switch s.op {
	case opEmit:
		if s.event == nil {
			return "emit(<nil>)"
		}
		return "emit(" + string(s.event.Kind()) + ")"
	case opSet:
		return "set(" + s.path.String() + ")"
	case opUpdate:
		return "update(" + s.path.String() + ")"
	default:
		return "noop"
	}
}

// Deferred is asynchronous work requested by a handler: a *Request or a *Delay.
type Deferred interface {
	deferred()
}

// Request asks the bus to run an effect and continue with the event built by
// OnSuccess or OnFailure. A nil OnFailure routes failures to the bus's error
// event; a nil OnSuccess drops the result.
type Request struct {
	Effect    effect.ID
	Input     any
	OnSuccess func(out any) Event
	OnFailure func(err error) Event

	// check rejects an output before OnSuccess sees it.
	check func(out any) error
}

func (*Request) deferred() {}

// Delay waits, then dispatches Then when When holds for the state at fire
// time (or When is nil), else Otherwise. A nil branch dispatches nothing.
type Delay struct {
	Wait      time.Duration
	When      func(r state.Reader) bool
	Then      Event
	Otherwise Event
}

func (*Delay) deferred() {}

// Call builds a Request whose success continuation receives the effect output
// typed as Out. An output of another type is a failure: it goes to fail, or to
// the bus's error event when fail is nil.
func Call[Out any](id effect.ID, in any, ok func(Out) Event, fail func(error) Event) *Request {
	req := &Request{Effect: id, Input: in, OnFailure: fail}
	if ok == nil {
		return req
	}
	req.check = func(v any) error {
		if _, good := v.(Out); !good && v != nil {
			return fmt.Errorf("effect %s: unexpected output %T", id, v)
		}
		return nil
	}
	req.OnSuccess = func(v any) Event {
		out, _ := v.(Out)
		return ok(out)
	}
	return req
}

// Result is what a handler returns: the ordered immediate steps, at most one
// deferred effect, or an error when the event cannot be handled.
type Result struct {
	Immediate []Step
	Deferred  Deferred
	Err       error
}

// Now builds a Result from immediate steps.
func Now(steps ...Step) Result { return Result{Immediate: steps} }

// Later attaches d to the result.
func (r Result) Later(d Deferred) Result {
	r.Deferred = d
	return r
}

// Fail builds a Result that reports err through the bus's error pipeline.
func Fail(err error) Result { return Result{Err: err} }
