package effect

import (
	"errors"
	"fmt"
)

// Failure wraps the error an effect rejected with. Its message is the
// underlying message unchanged, so "Unauthorized" stays "Unauthorized".
type Failure struct {
	Effect ID
	Err    error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return "effect " + string(f.Effect) + " failed"
	}
	return f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

// IsFailure reports whether err came from a rejected effect.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}

// UnknownEffectError is returned when a request names an unregistered effect.
type UnknownEffectError struct{ Effect ID }

func (e *UnknownEffectError) Error() string { return "unknown effect: " + string(e.Effect) }

// IsUnknownEffect reports whether err indicates an unregistered effect id.
func IsUnknownEffect(err error) bool {
	var u *UnknownEffectError
	return errors.As(err, &u)
}

// tooBusyError signals that no effect slot freed up within MaxWait.
type tooBusyError struct{ effect ID }

func (e tooBusyError) Error() string { return "too busy: " + string(e.effect) }

// IsTooBusy reports whether err indicates admission backpressure.
func IsTooBusy(err error) bool {
	var tb tooBusyError
	return errors.As(err, &tb)
}

// InputTypeError is returned when an effect receives input of the wrong type.
type InputTypeError struct {
	Effect ID
	Want   string
	Got    any
}

func (e *InputTypeError) Error() string {
	return fmt.Sprintf("effect %s: input must be %s, got %T", e.Effect, e.Want, e.Got)
}

// Messages that mark a rejection as an authorization failure.
const (
	MsgUnauthorized = "Unauthorized"
	MsgBadRequest   = "Bad Request"
)

// IsAuthMessage reports whether msg is an authorization-denied signal.
func IsAuthMessage(msg string) bool {
	return msg == MsgUnauthorized || msg == MsgBadRequest
}

// IsAuthFailure reports whether err is an effect failure caused by denied authorization.
func IsAuthFailure(err error) bool {
	return err != nil && IsFailure(err) && IsAuthMessage(err.Error())
}
