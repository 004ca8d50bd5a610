// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"errors"
	"fmt"

	"github.com/wirebridge/msgpack/lib/format"
)

var (
	// ErrMalformedInput matches every *MalformedInputError: the input
	// bytes are not a valid document in their declared encoding.
	ErrMalformedInput = errors.New("malformed input")

	// ErrStructural matches every *StructuralError: an encoder was
	// handed events in an order that does not describe a document.
	ErrStructural = errors.New("structural error")

	// ErrNoInput is returned by a decoder whose input contains no
	// value at all (zero bytes, or only whitespace for JSON).
	ErrNoInput = errors.New("no input: the input contained no data")

	// ErrIO matches every *IOError.
	ErrIO = errors.New("i/o failure")

	// ErrDepthLimit matches every *DepthLimitError.
	ErrDepthLimit = errors.New("nesting depth limit exceeded")
)

// MalformedInputError describes invalid input bytes.
//
// Offset is the byte offset into the decoded stream (after hex
// decoding and decompression) at or just past which the problem was
// detected. Path is a JSON pointer to the enclosing value when the
// decoder knows it, and empty otherwise.
type MalformedInputError struct {
	Format format.Format
	Offset int64
	Path   string
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	message := fmt.Sprintf("malformed %s input at byte %d", e.Format, e.Offset)
	if e.Path != "" {
		message += fmt.Sprintf(" (at %s)", e.Path)
	}
	if e.Reason != "" {
		message += ": " + e.Reason
	}
	if e.Err != nil {
		message += ": " + e.Err.Error()
	}
	return message
}

func (e *MalformedInputError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedInput}
	}
	return []error{ErrMalformedInput, e.Err}
}

// StructuralError reports an event that is not valid in the
// encoder's current nesting state. Event is zero when the error comes
// from closing the encoder rather than from a specific event.
type StructuralError struct {
	Event  Kind
	State  State
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Event == 0 {
		return fmt.Sprintf("structural error in state %s: %s", e.State, e.Reason)
	}
	return fmt.Sprintf("structural error: %s event in state %s: %s", e.Event, e.State, e.Reason)
}

func (e *StructuralError) Unwrap() error {
	return ErrStructural
}

// IOError wraps a failure of the underlying reader or writer.
type IOError struct {
	// Op is "read" or "write".
	Op string

	// Name is the file name when known, empty for stdin/stdout.
	Name string

	Err error
}

func (e *IOError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// DepthLimitError reports a document nested deeper than an encoder
// can write. The input itself may be valid.
type DepthLimitError struct {
	Format format.Format
	Limit  int
}

func (e *DepthLimitError) Error() string {
	return fmt.Sprintf("%s output cannot nest deeper than %d levels", e.Format, e.Limit)
}

func (e *DepthLimitError) Unwrap() error {
	return ErrDepthLimit
}
