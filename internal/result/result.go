// Package result provides the tagged success/error value returned by every
// repository call.
package result

import (
	"github.com/amaumene/cinescope/internal/errors"
)

// Result holds either a success value or a *errors.DataError, never both.
type Result[T any] struct {
	value T
	err   *errors.DataError
}

// Empty is the result of a side-effect-only operation.
type Empty = Result[struct{}]

// Success wraps v.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure wraps err. A nil err is promoted to KindUnknown so that the Error
// variant is always populated.
func Failure[T any](err *errors.DataError) Result[T] {
	if err == nil {
		err = errors.New(errors.KindUnknown, nil)
	}
	return Result[T]{err: err}
}

// Done is the Success value of Empty.
func Done() Empty {
	return Success(struct{}{})
}

// From converts a (value, error) pair, classifying err.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Failure[T](errors.Classify(err))
	}
	return Success(v)
}

func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

func (r Result[T]) IsError() bool {
	return r.err != nil
}

// Get returns the value and a nil error, or the zero value and the error.
func (r Result[T]) Get() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// Value returns the success value, or the zero value on error.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the error variant, or nil on success.
func (r Result[T]) Err() *errors.DataError {
	return r.err
}

// OnSuccess runs fn with the value when r is a success and returns r.
func (r Result[T]) OnSuccess(fn func(T)) Result[T] {
	if r.err == nil {
		fn(r.value)
	}
	return r
}

// OnError runs fn with the error when r is a failure and returns r.
func (r Result[T]) OnError(fn func(*errors.DataError)) Result[T] {
	if r.err != nil {
		fn(r.err)
	}
	return r
}

// Fold collapses r into a single value.
func Fold[T, R any](r Result[T], onSuccess func(T) R, onError func(*errors.DataError) R) R {
	if r.err != nil {
		return onError(r.err)
	}
	return onSuccess(r.value)
}

// Map transforms the success value, passing errors through.
func Map[T, R any](r Result[T], fn func(T) R) Result[R] {
	if r.err != nil {
		return Failure[R](r.err)
	}
	return Success(fn(r.value))
}

// AsEmpty drops the success value.
func AsEmpty[T any](r Result[T]) Empty {
	return Map(r, func(T) struct{} { return struct{}{} })
}
