// Package errs provides the flat error taxonomy shared by every decoding
// component in the module.
package errs

import "fmt"

// Kind identifies which failure mode a decoding error represents.
type Kind uint8

// The closed set of failure kinds a decoder can signal.
const (
	// KindShortRead means a bounded read would cross the end of a cursor
	// or file.
	KindShortRead Kind = iota + 1
	// KindMalformed means a structural violation: wrong field, misaligned
	// body, missing root, bad EOF marker, size mismatch, un-terminated
	// string, a geometric constraint violation, and so on.
	KindMalformed
	// KindUnsupportedType means a prop type code outside the closed set,
	// or the array-variant flag was set.
	KindUnsupportedType
	// KindUnsupportedCompression means a texturelist's "compress"
	// attribute names something other than "avslz".
	KindUnsupportedCompression
	// KindNoSpace means the caller-provided destination buffer is too
	// small.
	KindNoSpace
	// KindAllocationFailure means an allocation failed. Go's make/append
	// never return errors on their own, so no decoder in this module
	// produces this kind.
	KindAllocationFailure
	// KindIOError means the underlying stream's open/seek/read/write
	// failed.
	KindIOError
)

func (k Kind) String() string {
	switch k {
	case KindShortRead:
		return "ShortRead"
	case KindMalformed:
		return "Malformed"
	case KindUnsupportedType:
		return "UnsupportedType"
	case KindUnsupportedCompression:
		return "UnsupportedCompression"
	case KindNoSpace:
		return "NoSpace"
	case KindAllocationFailure:
		return "AllocationFailure"
	case KindIOError:
		return "IoError"
	default:
		return "Unknown"
	}
}

// Error is a contextual, kind-tagged decoding error.
type Error struct {
	Kind    Kind
	Context string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Cause)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ShortRead) match any *Error of the same Kind,
// without requiring identical Context/Cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel values usable with errors.Is to test an error's Kind, e.g.
// errors.Is(err, errs.ShortRead).
var (
	ShortRead              = &Error{Kind: KindShortRead}
	Malformed              = &Error{Kind: KindMalformed}
	UnsupportedType        = &Error{Kind: KindUnsupportedType}
	UnsupportedCompression = &Error{Kind: KindUnsupportedCompression}
	NoSpace                = &Error{Kind: KindNoSpace}
	AllocationFailure      = &Error{Kind: KindAllocationFailure}
	IOError                = &Error{Kind: KindIOError}
)

// New creates a Kind-tagged error with no wrapped cause.
func New(kind Kind, context string) error {
	return &Error{Kind: kind, Context: context}
}

// Wrap creates a Kind-tagged error wrapping cause. Returns nil if cause is
// nil, matching the teacher's WrapError nil-passthrough convention.
func Wrap(kind Kind, context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Context: context, Cause: cause}
}
