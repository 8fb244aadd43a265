package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the event bus.
var (
	// ErrNilEvent is returned when a nil event is dispatched or emitted.
	ErrNilEvent = errors.New("nil event")

	// ErrTooDeep is returned when nested emits exceed the recursion limit.
	ErrTooDeep = errors.New("nested events exceed depth limit")
)

// UnknownKindError reports an event whose kind has no registered handler.
type UnknownKindError struct {
	Kind Kind
	// Nested is true when the event was emitted by another handler.
	Nested bool
}

func (e *UnknownKindError) Error() string { return "unknown event kind: " + string(e.Kind) }

// IsUnknownKind reports whether err indicates an unregistered event kind.
func IsUnknownKind(err error) bool {
	var u *UnknownKindError
	return errors.As(err, &u)
}

// HandlerError wraps a failure raised while handling an event of Kind.
type HandlerError struct {
	Kind Kind
	Err  error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s: %v", e.Kind, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// Message returns the user-facing message for err: the innermost handler or
// effect message without bus wrapping.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var he *HandlerError
	for errors.As(err, &he) {
		if he.Err == nil {
			return he.Error()
		}
		err = he.Err
	}
	return err.Error()
}
