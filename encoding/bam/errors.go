package bam

import (
	"fmt"

	"github.com/contigio/gbam/encoding/bgzf"
)

// Kind classifies an Error. Callers that need to distinguish recoverable
// stream exhaustion from genuine failure switch on Kind rather than
// string-matching Error().
type Kind int

const (
	// NoMoreRecords signals clean exhaustion of a record stream at a
	// record boundary; iterators translate it into termination rather
	// than surfacing it as a failure.
	NoMoreRecords Kind = iota
	// Truncated means the stream ended unexpectedly mid-record or
	// mid-block.
	Truncated
	// Corrupted means a structural invariant was violated: bad magic,
	// bin > MAX_BIN, declared end before start, an impossible cigar, a
	// variable-length field's declared size running past the
	// remaining bytes of its chunk.
	Corrupted
	// InvalidInput means the caller's arguments violate the contract:
	// start > end, a reference id out of bounds, end > reference
	// length.
	InvalidInput
	// InvalidData means an ordering violation was detected, currently
	// only raised by the pileup engine against unsorted input.
	InvalidData
	// Io is a pass-through failure from the underlying stream, with
	// the original cause preserved in Err.
	Io
)

func (k Kind) String() string {
	switch k {
	case NoMoreRecords:
		return "NoMoreRecords"
	case Truncated:
		return "Truncated"
	case Corrupted:
		return "Corrupted"
	case InvalidInput:
		return "InvalidInput"
	case InvalidData:
		return "InvalidData"
	case Io:
		return "Io"
	default:
		return "Unknown"
	}
}

// Error is the error type returned throughout this package and
// pileup. Kind lets callers switch on the failure category; Err, when
// non-nil, is the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bam: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("bam: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, &Error{Kind: X}) match any *Error with the
// same Kind, independent of Msg/Err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func errNoMoreRecords() error {
	return &Error{Kind: NoMoreRecords, Msg: "no more records"}
}

func errTruncated(msg string, err error) error {
	return &Error{Kind: Truncated, Msg: msg, Err: err}
}

func errCorrupted(msg string) error {
	return &Error{Kind: Corrupted, Msg: msg}
}

func errInvalidInput(msg string) error {
	return &Error{Kind: InvalidInput, Msg: msg}
}

func errInvalidData(msg string) error {
	return &Error{Kind: InvalidData, Msg: msg}
}

func errIo(msg string, err error) error {
	return &Error{Kind: Io, Msg: msg, Err: err}
}

// wrapStreamErr translates an error from the bgzf layer (or a bare
// io error) into the package's own Error/Kind taxonomy. An error that
// is already an *Error is returned unchanged.
func wrapStreamErr(err error) error {
	if err == nil {
		return nil
	}
	if own, ok := err.(*Error); ok {
		return own
	}
	if bErr, ok := err.(*bgzf.Error); ok {
		switch bErr.Kind {
		case bgzf.Truncated:
			return &Error{Kind: Truncated, Msg: bErr.Msg, Err: bErr.Err}
		case bgzf.Corrupted:
			return &Error{Kind: Corrupted, Msg: bErr.Msg}
		default:
			return &Error{Kind: Io, Msg: bErr.Msg, Err: bErr.Err}
		}
	}
	return &Error{Kind: Io, Msg: "stream read failed", Err: err}
}
