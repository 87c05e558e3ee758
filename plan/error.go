package plan

import (
	"errors"
	"log/slog"
	"strings"
)

// Kind classifies a compilation failure. Every error produced by this
// package carries exactly one kind so callers can decide abort-vs-report
// per category without string matching.
type Kind int

const (
	// KindGrammar indicates malformed token or bind syntax.
	KindGrammar Kind = iota

	// KindScope indicates a variable name colliding with an ancestor scope.
	KindScope

	// KindStructure indicates an inconsistency in the plan or master
	// structure (unknown master, order mismatch, missing dates, mismatched
	// composite arrays).
	KindStructure

	// KindLimit indicates the pre-generation page budget was exceeded.
	KindLimit

	// KindIntegrity indicates a post-compile navigation inconsistency
	// (duplicate, unknown, or non-canonical destination).
	KindIntegrity
)

// String returns the name of the error kind.
func (k Kind) String() string {
	switch k {
	case KindGrammar:
		return "grammar"
	case KindScope:
		return "scope"
	case KindStructure:
		return "structure"
	case KindLimit:
		return "limit"
	case KindIntegrity:
		return "integrity"
	default:
		return "unknown"
	}
}

// Predefined errors (sentinel values).
var (
	ErrBadBind        = NewError(KindGrammar, "malformed bind expression")
	ErrBadDataSource  = NewError(KindGrammar, "invalid data source expression")
	ErrScopeCollision = NewError(KindScope, "variable collides with ancestor scope")
	ErrUnknownMaster  = NewError(KindStructure, "unknown master reference")
	ErrDuplicateName  = NewError(KindStructure, "duplicate master name")
	ErrOrderMismatch  = NewError(KindStructure, "order does not match top-level section kinds")
	ErrDuplicateKind  = NewError(KindStructure, "duplicate top-level section kind")
	ErrDepthExceeded  = NewError(KindStructure, "section nesting exceeds maximum depth")
	ErrMissingDates   = NewError(KindStructure, "date-generating section has no date range")
	ErrBadCount       = NewError(KindStructure, "count section requires a positive count")
	ErrBadGenerate    = NewError(KindStructure, "unknown generate mode")
	ErrLengthMismatch = NewError(KindStructure, "labels and destinations lengths differ")
	ErrPageBudget     = NewError(KindLimit, "estimated page count exceeds budget")
	ErrDuplicateDest  = NewError(KindIntegrity, "destination id already registered")
	ErrUnknownDest    = NewError(KindIntegrity, "link target is not a registered destination")
	ErrBadDestID      = NewError(KindIntegrity, "destination id is not canonical")
)

// Error represents a compilation error with a kind and optional structured
// logging attributes. It implements both error and slog.LogValuer.
type Error struct {
	kind    Kind
	msg     string
	err     error       // Wrapped error (for errors.Unwrap)
	attrs   []slog.Attr // Attributes for structured logging
	bullets []string    // One entry per individual violation
}

// NewError creates a new Error with a kind and message.
func NewError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// WrapError wraps a standard error into an Error, preserving an existing
// *Error unchanged.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	s := strings.Join(part, ": ")

	if len(e.bullets) > 0 {
		s += "\n  - " + strings.Join(e.bullets, "\n  - ")
	}

	return s
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the same sentinel, or any *Error with the
// same kind and message.
func (e *Error) Is(target error) bool {
	te := &Error{}
	if !errors.As(target, &te) {
		return false
	}

	return e.kind == te.kind && e.msg == te.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	attrs = append(attrs, slog.String("kind", e.kind.String()))

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		kind:    e.kind,
		msg:     e.msg,
		err:     err,
		attrs:   e.attrs, // Share attrs
		bullets: e.bullets,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		kind:    e.kind,
		msg:     e.msg,
		err:     e.err,
		attrs:   newAttrs,
		bullets: e.bullets,
	}
}

// Bullet appends one violation line to the error's bullet list.
// Multi-violation failures report every offender rather than the first.
func (e *Error) Bullet(lines ...string) *Error {
	newBullets := make([]string, len(e.bullets)+len(lines))
	copy(newBullets, e.bullets)
	copy(newBullets[len(e.bullets):], lines)

	return &Error{
		kind:    e.kind,
		msg:     e.msg,
		err:     e.err,
		attrs:   e.attrs,
		bullets: newBullets,
	}
}

// Bullets returns the individual violation lines carried by this error.
func (e *Error) Bullets() []string { return e.bullets }
