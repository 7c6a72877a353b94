// Package result provides the success-or-failure outcome wrapper used by all
// command and query services instead of error returns for expected business
// failures.
package result

import "fmt"

// FailureKind classifies a failed Result so transport layers can map it to a
// response without inspecting the message text.
type FailureKind string

const (
	KindNone              FailureKind = ""
	KindValidation        FailureKind = "validation"
	KindConflict          FailureKind = "conflict"
	KindNotFound          FailureKind = "not_found"
	KindInvalidTransition FailureKind = "invalid_transition"
	KindInternal          FailureKind = "internal"
)

// Result carries either a success value or a failure message, never both.
type Result[T any] struct {
	value  T
	kind   FailureKind
	errMsg string
	ok     bool
}

// Success wraps a value in a successful Result.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Failure builds a failed Result with the given kind and message.
func Failure[T any](kind FailureKind, message string) Result[T] {
	return Result[T]{kind: kind, errMsg: message}
}

// Failuref builds a failed Result with a formatted message.
func Failuref[T any](kind FailureKind, format string, args ...any) Result[T] {
	return Failure[T](kind, fmt.Sprintf(format, args...))
}

// IsSuccess reports whether the Result holds a value.
func (r Result[T]) IsSuccess() bool { return r.ok }

// Value returns the success value. It is the zero value on failure.
func (r Result[T]) Value() T { return r.value }

// Error returns the failure message, empty on success.
func (r Result[T]) Error() string { return r.errMsg }

// Kind returns the failure classification, KindNone on success.
func (r Result[T]) Kind() FailureKind { return r.kind }
