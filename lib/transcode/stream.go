// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"bufio"
	"errors"
	"io"

	"github.com/wirebridge/msgpack/lib/format"
)

// failureRecorder sits between a bufio.Reader and the real source and
// keeps the first error other than io.EOF.
type failureRecorder struct {
	reader io.Reader
	err    error
}

func (r *failureRecorder) Read(buffer []byte) (int, error) {
	count, err := r.reader.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) && r.err == nil {
		r.err = err
	}
	return count, err
}

// Input is the reader every decoder consumes. It buffers the source,
// implements io.ByteScanner (so codecs that peek a type byte can put
// it back), counts bytes handed to the decoder, and remembers the
// first failure of the source.
//
// Decoders report every failure through Fail, which decides whether
// the failure is the stream's fault (an *IOError) or the data's (a
// *MalformedInputError at the current offset).
type Input struct {
	buffered *bufio.Reader
	recorder *failureRecorder
	name     string
	offset   int64
}

// NewInput wraps source. name is used in I/O error messages and may
// be empty.
func NewInput(source io.Reader, name string) *Input {
	if input, ok := source.(*Input); ok {
		return input
	}
	recorder := &failureRecorder{reader: source}
	return &Input{
		buffered: bufio.NewReaderSize(recorder, 64*1024),
		recorder: recorder,
		name:     name,
	}
}

func (in *Input) Read(buffer []byte) (int, error) {
	count, err := in.buffered.Read(buffer)
	in.offset += int64(count)
	return count, err
}

func (in *Input) ReadByte() (byte, error) {
	value, err := in.buffered.ReadByte()
	if err == nil {
		in.offset++
	}
	return value, err
}

func (in *Input) UnreadByte() error {
	if err := in.buffered.UnreadByte(); err != nil {
		return err
	}
	in.offset--
	return nil
}

// Peek returns the next count bytes without consuming them.
func (in *Input) Peek(count int) ([]byte, error) {
	return in.buffered.Peek(count)
}

// Offset returns the number of bytes consumed so far.
func (in *Input) Offset() int64 {
	return in.offset
}

// Err returns the first failure of the underlying source, or nil.
func (in *Input) Err() error {
	return in.recorder.err
}

// AtEOF reports whether the input is cleanly exhausted: no bytes
// remain and the source did not fail.
func (in *Input) AtEOF() bool {
	_, err := in.buffered.Peek(1)
	return errors.Is(err, io.EOF) && in.recorder.err == nil
}

// Fail builds the error a decoder returns after cause interrupted
// decoding. If the source itself failed, the result is an *IOError
// wrapping that failure. Otherwise it is a *MalformedInputError at
// the current offset; an unexpected EOF becomes a truncation
// message.
func (in *Input) Fail(encoding format.Format, reason string, cause error) error {
	if in.recorder.err != nil {
		return &IOError{Op: "read", Name: in.name, Err: in.recorder.err}
	}
	if errors.Is(cause, io.EOF) || errors.Is(cause, io.ErrUnexpectedEOF) {
		if reason == "" {
			reason = "unexpected end of input"
		} else {
			reason += ": unexpected end of input"
		}
		cause = nil
	}
	return &MalformedInputError{Format: encoding, Offset: in.offset, Reason: reason, Err: cause}
}

// Output is the writer every encoder produces into. It counts bytes
// and remembers the first failure of the destination.
type Output struct {
	writer  io.Writer
	name    string
	written int64
	err     error
}

// NewOutput wraps destination. name is used in I/O error messages and
// may be empty.
func NewOutput(destination io.Writer, name string) *Output {
	if output, ok := destination.(*Output); ok {
		return output
	}
	return &Output{writer: destination, name: name}
}

func (out *Output) Write(data []byte) (int, error) {
	count, err := out.writer.Write(data)
	out.written += int64(count)
	if err != nil && out.err == nil {
		out.err = err
	}
	return count, err
}

// Written returns the number of bytes accepted by the destination.
func (out *Output) Written() int64 {
	return out.written
}

// Err returns the first failure of the destination, or nil.
func (out *Output) Err() error {
	return out.err
}

// Fail builds the error an encoder returns after cause interrupted
// encoding: an *IOError if the destination failed, cause otherwise.
func (out *Output) Fail(cause error) error {
	if out.err != nil {
		return &IOError{Op: "write", Name: out.name, Err: out.err}
	}
	return cause
}
