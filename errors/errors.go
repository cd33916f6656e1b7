// Package errors provides error handling for protogen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging generator faults
//   - Error wrapping and context
//   - Hints for build-time diagnostics
//
// Usage:
//
//	// Create new error
//	err := errors.New("unknown enum value")
//
//	// Wrap with context identifying the offending protocol entity
//	if err := emit(domain); err != nil {
//	    return errors.Wrapf(err, "domain %s", domain.Name)
//	}
//
//	// Check errors
//	if errors.Is(err, gen.ErrUnknownEnumValue) {
//	    // internal-consistency fault, abort generation
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions. Generation bugs (missing template keys, unmappable type
// variants) surface as assertion failures rather than recoverable errors.
var (
	AssertionFailedf                 = crdb.AssertionFailedf
	NewAssertionErrorWithWrappedErrf = crdb.NewAssertionErrorWithWrappedErrf
)
