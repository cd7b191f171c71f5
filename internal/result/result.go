// Package result provides the two-variant success/failure container
// used to pass typed errors across pipeline step boundaries.
package result

// Result holds either a value or an error, never both. The zero value
// is a failure with a nil error; construct through Ok or Err.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Err wraps a failure.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsOk reports whether the success branch is populated.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// Unwrap splits the result into Go's conventional value/error pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// Error returns the failure branch, nil for successes.
func (r Result[T]) Error() error {
	return r.err
}
