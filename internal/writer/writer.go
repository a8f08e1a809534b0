package writer

import "slices"

// DiagnosticType categorizes a diagnostic.
type DiagnosticType string

const (
	// TypeIgnoring means a filter key (or the whole filter) was left out of
	// the output because it did not resolve to an allowed column.
	TypeIgnoring DiagnosticType = "ignoring"

	// TypeWarn means the input used a deprecated convention that was still honored.
	TypeWarn DiagnosticType = "warn"

	// TypeNoSearchable means there were no allowed columns at all.
	TypeNoSearchable DiagnosticType = "no searchable"
)

// Diagnostic is a non-fatal record of a decision made while compiling.
type Diagnostic struct {
	Type    DiagnosticType `json:"type"`
	Message string         `json:"message"`
}

// Writer pairs a value with an ordered diagnostic log.
type Writer[T any] struct {
	value T
	log   []Diagnostic
}

// New creates a Writer holding value with the given log entries.
func New[T any](value T, log ...Diagnostic) Writer[T] {
	return Writer[T]{value: value, log: slices.Clone(log)}
}

// Of places value in a Writer with an empty log.
func Of[T any](value T) Writer[T] {
	return Writer[T]{value: value}
}

// Read returns both the value and a copy of the log.
func (w Writer[T]) Read() (T, []Diagnostic) {
	return w.value, w.Log()
}

// Value returns the held value.
func (w Writer[T]) Value() T {
	return w.value
}

// Log returns a copy of the log. It is never nil.
func (w Writer[T]) Log() []Diagnostic {
	if len(w.log) == 0 {
		return []Diagnostic{}
	}
	return slices.Clone(w.log)
}

// Tell returns a Writer with entries appended after the existing log.
func (w Writer[T]) Tell(entries ...Diagnostic) Writer[T] {
	return Writer[T]{value: w.value, log: slices.Concat(w.log, entries)}
}

// Map applies fn to the held value. The log is carried over untouched.
func Map[A, B any](w Writer[A], fn func(A) B) Writer[B] {
	return Writer[B]{value: fn(w.value), log: w.log}
}

// Chain applies fn to the held value and merges the returned Writer,
// appending its log after w's.
func Chain[A, B any](w Writer[A], fn func(A) Writer[B]) Writer[B] {
	inner := fn(w.value)
	return Writer[B]{value: inner.value, log: slices.Concat(w.log, inner.log)}
}

// Ap applies the function held by wf to the value held by wa.
// The log of wf precedes the log of wa.
func Ap[A, B any](wf Writer[func(A) B], wa Writer[A]) Writer[B] {
	return Chain(wf, func(fn func(A) B) Writer[B] {
		return Map(wa, fn)
	})
}

// Flatten unwraps one level of nesting, outer log first.
func Flatten[A any](w Writer[Writer[A]]) Writer[A] {
	return Writer[A]{value: w.value.value, log: slices.Concat(w.log, w.value.log)}
}

// Lift turns fn into a function whose result is wrapped with Of.
func Lift[A, B any](fn func(A) B) func(A) Writer[B] {
	return func(a A) Writer[B] {
		return Of(fn(a))
	}
}

// Sequence collects the values of ws in order into a single Writer whose log
// is the concatenation of every log, in order.
func Sequence[T any](ws []Writer[T]) Writer[[]T] {
	values := make([]T, 0, len(ws))
	var log []Diagnostic
	for _, w := range ws {
		values = append(values, w.value)
		log = append(log, w.log...)
	}
	return Writer[[]T]{value: values, log: log}
}
