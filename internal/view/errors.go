package view

import "errors"

// UnknownViewError is returned for a name that has no registered view.
type UnknownViewError struct{ Name string }

func (e *UnknownViewError) Error() string { return "unknown view: " + e.Name }

// IsUnknownView reports whether err indicates an unregistered view name.
func IsUnknownView(err error) bool {
	var u *UnknownViewError
	return errors.As(err, &u)
}

// DuplicateViewError is returned when a name is registered twice.
type DuplicateViewError struct{ Name string }

func (e *DuplicateViewError) Error() string { return "view already registered: " + e.Name }
