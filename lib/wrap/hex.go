// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wrap

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// HexError reports input that is not valid hex text. Offset counts
// hex digits (whitespace excluded) consumed before the failure.
type HexError struct {
	Offset int64
	Err    error
}

func (e *HexError) Error() string {
	if errors.Is(e.Err, io.ErrUnexpectedEOF) {
		return fmt.Sprintf("invalid hex input: odd number of hex digits (%d)", e.Offset)
	}
	return fmt.Sprintf("invalid hex input after %d hex digits: %v", e.Offset, e.Err)
}

func (e *HexError) Unwrap() error {
	return e.Err
}

// whitespaceFilter drops ASCII whitespace from a stream so that hex
// text may be wrapped, indented, or space-separated.
type whitespaceFilter struct {
	source io.Reader
	digits int64
	err    error
}

func isASCIISpace(value byte) bool {
	switch value {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func (f *whitespaceFilter) Read(buffer []byte) (int, error) {
	for {
		count, err := f.source.Read(buffer)
		kept := 0
		for _, value := range buffer[:count] {
			if !isASCIISpace(value) {
				buffer[kept] = value
				kept++
			}
		}
		f.digits += int64(kept)
		if err != nil && !errors.Is(err, io.EOF) && f.err == nil {
			f.err = err
		}
		if kept > 0 || err != nil {
			return kept, err
		}
	}
}

// HexReader decodes hex text. Upper and lower case digits are
// accepted and ASCII whitespace anywhere is ignored. Invalid digits
// and an odd digit count are reported as *HexError; failures of the
// underlying reader are passed through unchanged.
type HexReader struct {
	filter  *whitespaceFilter
	decoder io.Reader
}

// NewHexReader returns a reader decoding the hex text in source.
func NewHexReader(source io.Reader) *HexReader {
	filter := &whitespaceFilter{source: source}
	return &HexReader{filter: filter, decoder: hex.NewDecoder(filter)}
}

func (r *HexReader) Read(buffer []byte) (int, error) {
	count, err := r.decoder.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) && r.filter.err == nil {
		err = &HexError{Offset: r.filter.digits, Err: err}
	}
	return count, err
}

// HexWriter encodes bytes as lowercase hex text. Close writes the
// trailing newline.
type HexWriter struct {
	destination io.Writer
	encoder     io.Writer
}

// NewHexWriter returns a writer producing hex text on destination.
func NewHexWriter(destination io.Writer) *HexWriter {
	return &HexWriter{destination: destination, encoder: hex.NewEncoder(destination)}
}

func (w *HexWriter) Write(data []byte) (int, error) {
	return w.encoder.Write(data)
}

// Close terminates the hex text with a newline. It does not close
// the destination.
func (w *HexWriter) Close() error {
	_, err := io.WriteString(w.destination, "\n")
	return err
}
