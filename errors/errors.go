// Package errors provides error handling for the casual coordination
// fabric.
//
// It re-exports github.com/cockroachdb/errors, giving every manager
// stack traces, hints, and structured wrapping without re-implementing
// them. kinds.go defines the fixed set of error kinds surfaced across
// the system as sentinel values usable with Is.
//
// Usage:
//
//	if err := advertise(proc); err != nil {
//	    return errors.Wrap(err, "advertise")
//	}
//
//	if errors.Is(err, ErrAbsent) {
//	    // reply TPENOENT to the XATMI caller
//	}
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
	WithHint        = crdb.WithHint
	WithHintf       = crdb.WithHintf
	WithDetail      = crdb.WithDetail
	WithDetailf     = crdb.WithDetailf
	WithSafeDetails = crdb.WithSafeDetails
)

// Error inspection
var (
	Is         = crdb.Is
	IsAny      = crdb.IsAny
	As         = crdb.As
	Unwrap     = crdb.Unwrap
	UnwrapOnce = crdb.UnwrapOnce
	UnwrapAll  = crdb.UnwrapAll
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Assertions for internal invariant violations.
var AssertionFailedf = crdb.AssertionFailedf
