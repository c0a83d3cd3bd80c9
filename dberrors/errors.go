// Package dberrors defines the closed error-kind taxonomy spec.md §7
// requires: every error surfaced to a client carries one of these kinds
// so the outer statement dispatcher (engine.Engine) can apply the §7
// propagation policy uniformly instead of pattern-matching error strings.
package dberrors

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	Syntax Kind = iota
	Semantic
	Plan
	Storage
	Conflict
	Cancelled
	Internal
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "SyntaxError"
	case Semantic:
		return "SemanticError"
	case Plan:
		return "PlanError"
	case Storage:
		return "StorageError"
	case Conflict:
		return "ConflictError"
	case Cancelled:
		return "CancelledError"
	case Internal:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// Error is the structured error every layer above storage/txn returns.
// It wraps a cause (via github.com/pkg/errors, which preserves a stack
// trace) under a closed Kind so callers can branch on taxonomy rather
// than message text.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

func newf(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, cause: errors.Errorf(format, args...)}
}

func wrap(k Kind, err error) *Error {
	return &Error{Kind: k, cause: errors.WithStack(err)}
}

func NewSyntaxError(format string, args ...interface{}) *Error   { return newf(Syntax, format, args...) }
func NewSemanticError(format string, args ...interface{}) *Error { return newf(Semantic, format, args...) }
func NewPlanError(format string, args ...interface{}) *Error     { return newf(Plan, format, args...) }
func NewInternalError(format string, args ...interface{}) *Error { return newf(Internal, format, args...) }

func WrapStorageError(err error) *Error   { return wrap(Storage, err) }
func WrapConflictError(err error) *Error  { return wrap(Conflict, err) }
func NewCancelledError() *Error           { return &Error{Kind: Cancelled} }

// As reports whether err is a *Error of kind k.
func As(err error, k Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == k
	}
	return false
}
