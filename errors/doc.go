// Package errors provides structured error types for the sharedref library.
//
// Errors are categorized by Phase (where in the handle lifecycle the error
// occurred) and Kind (error category). The Error type carries the handle
// label and a cause chain.
//
// Construction failures (nil adopted pointer, negative element count) are
// returned to the caller. Invariant breaches (counter underflow) are not
// recoverable: they are raised as panic values, since they indicate a bug
// in the acquire/release pairing rather than a runtime condition.
//
// Use the Builder for errors with several fields:
//
//	err := errors.New(errors.PhaseAdopt, errors.KindNilResource).
//		Label("db-conn").
//		Detail("adopting closed pool entry").
//		Build()
//
// or the convenience constructors for common cases:
//
//	errors.NilResource(errors.PhaseAdopt, "db-conn")
//	errors.InvalidCount(errors.PhaseAlloc, "buffers", -1)
package errors
