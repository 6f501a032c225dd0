package wavcmp

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedHeader is returned when a chunk tag does not match the
	// expected one or the RIFF size does not match the buffer length.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrInvalidFormatChunk is returned when the fmt chunk is internally
	// inconsistent (byte rate, block align, channel count, chunk size).
	ErrInvalidFormatChunk = errors.New("invalid format chunk")
	// ErrUnsupportedFormat is returned for bit depths other than 8, 16 and 32
	// and for extensible fmt chunks without the extensible fields.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrTruncatedInput is returned when the buffer ends before a chunk does.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrTrailingData is returned when bytes remain after the data chunk.
	ErrTrailingData = errors.New("trailing data")
	// ErrIncompatibleTracks is wrapped by Report.Err when two tracks can't be
	// compared. Compare itself never returns it.
	ErrIncompatibleTracks = errors.New("incompatible tracks")

	errUnhandledBitDepth = errors.New("unhandled bit depth")
)

// DecodeError describes where and why a decode failed.
type DecodeError struct {
	// Kind is one of the package sentinels.
	Kind error
	// Err optionally refines Kind, e.g. a RIFF size mismatch is a
	// ErrMalformedHeader caused by ErrTruncatedInput.
	Err error
	// Offset is the byte offset in the input where the problem was detected.
	Offset int64
	// Field names the chunk field being validated.
	Field string
	// Expected and Actual are nil when the failure has no value to compare.
	Expected any
	Actual   any
}

func (e *DecodeError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%v at offset %d", e.Kind, e.Offset)

	if e.Field != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
	}

	if e.Expected != nil || e.Actual != nil {
		fmt.Fprintf(&b, ": expected %v, got %v", e.Expected, e.Actual)
	}

	if e.Err != nil {
		fmt.Fprintf(&b, " (%v)", e.Err)
	}

	return b.String()
}

// Unwrap exposes Kind and Err to errors.Is and errors.As.
func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

func newDecodeError(kind error, offset int, field string, expected, actual any) *DecodeError {
	return &DecodeError{
		Kind:     kind,
		Offset:   int64(offset),
		Field:    field,
		Expected: expected,
		Actual:   actual,
	}
}

func truncatedError(offset int, field string, need, have int) *DecodeError {
	return newDecodeError(ErrTruncatedInput, offset, field, uint64(need), uint64(have))
}

func tagMismatchError(offset int, expected, actual [4]byte) *DecodeError {
	return newDecodeError(ErrMalformedHeader, offset, "chunk id", string(expected[:]), string(actual[:]))
}
