package view

import "opinio/internal/state"

// Accessor computes a typed value from the state.
type Accessor[T any] struct {
	compute func(r state.Reader) T
}

// Path reads the value at p. A value that is not a T yields the zero T.
func Path[T any](p state.Path) Accessor[T] {
	return Accessor[T]{compute: func(r state.Reader) T {
		v, _ := state.As[T](r, p)
		return v
	}}
}

// Derive reads the value at p and passes it through fn.
func Derive[T any](p state.Path, fn func(v any) T) Accessor[T] {
	return Accessor[T]{compute: func(r state.Reader) T { return fn(r.Get(p)) }}
}

// Func builds an accessor that may read any number of paths.
func Func[T any](fn func(r state.Reader) T) Accessor[T] {
	return Accessor[T]{compute: fn}
}

// Eval evaluates the accessor against r without caching.
func (a Accessor[T]) Eval(r state.Reader) T {
	if a.compute == nil {
		var zero T
		return zero
	}
	return a.compute(r)
}
