package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the handle lifecycle the error occurred
type Phase string

const (
	PhaseAlloc   Phase = "alloc"   // combined construction
	PhaseAdopt   Phase = "adopt"   // separate construction
	PhasePromote Phase = "promote" // weak to strong promotion
	PhaseRelease Phase = "release" // count release paths
	PhaseTrack   Phase = "track"   // lifecycle tracking
)

// Kind categorizes the error
type Kind string

const (
	KindNilResource  Kind = "nil_resource"
	KindInvalidCount Kind = "invalid_count"
	KindUnderflow    Kind = "underflow"
	KindClosed       Kind = "closed"
	KindInvalidInput Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Label  string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Label != "" {
		b.WriteString(" at ")
		b.WriteString(e.Label)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Label sets the handle label the error refers to
func (b *Builder) Label(label string) *Builder {
	b.err.Label = label
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NilResource creates an error for adopting a nil value pointer
func NilResource(phase Phase, label string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilResource,
		Label:  label,
		Detail: "nil resource pointer",
	}
}

// InvalidCount creates an error for an out-of-range element count
func InvalidCount(phase Phase, label string, n int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidCount,
		Label:  label,
		Detail: fmt.Sprintf("element count %d out of range", n),
	}
}

// Closed creates an error for operations on a closed registry
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s closed", what),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Underflow creates a counter underflow error. Underflow is an invariant
// breach in the caller's acquire/release pairing: it is used as a panic
// value, never returned.
func Underflow(counter string, block uint64, label string) *Error {
	return &Error{
		Phase:  PhaseRelease,
		Kind:   KindUnderflow,
		Label:  label,
		Detail: fmt.Sprintf("%s count below zero on block %d", counter, block),
	}
}
