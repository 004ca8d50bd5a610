// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cborstream

import (
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/wirebridge/msgpack/lib/format"
	"github.com/wirebridge/msgpack/lib/transcode"
)

// EncoderOptions configures an Encoder.
type EncoderOptions struct {
	// Sequence accepts any number of top-level items, written back to
	// back as a CBOR sequence.
	Sequence bool
}

// Encoder writes transcode events as CBOR with indefinite-length
// maps and arrays.
type Encoder struct {
	output  *transcode.Output
	encoder *cbor.Encoder
	nesting transcode.Nesting
}

// NewEncoder returns an encoder writing to destination.
func NewEncoder(destination io.Writer, options EncoderOptions) *Encoder {
	output := transcode.NewOutput(destination, "")
	return &Encoder{
		output:  output,
		encoder: encMode.NewEncoder(output),
		nesting: transcode.Nesting{Sequence: options.Sequence},
	}
}

// Format returns format.CBOR.
func (e *Encoder) Format() format.Format {
	return format.CBOR
}

// Depth returns the number of open containers.
func (e *Encoder) Depth() int {
	return e.nesting.Depth()
}

// WriteEvent encodes one event.
func (e *Encoder) WriteEvent(event transcode.Event) error {
	if err := e.nesting.Apply(event); err != nil {
		return err
	}

	var err error
	switch event.Kind {
	case transcode.StartMap:
		err = e.encoder.StartIndefiniteMap()
	case transcode.StartArray:
		err = e.encoder.StartIndefiniteArray()
	case transcode.EndMap, transcode.EndArray:
		err = e.encoder.EndIndefinite()
	case transcode.MapKey:
		err = e.encoder.Encode(event.Key)
	default:
		err = e.encoder.Encode(scalarValue(event.Scalar))
	}
	if err != nil {
		return e.output.Fail(err)
	}
	return nil
}

// scalarValue converts a scalar to the Go value whose CBOR encoding
// matches it.
func scalarValue(scalar transcode.Scalar) any {
	switch scalar.Type {
	case transcode.Bool:
		return scalar.Bool
	case transcode.Int:
		return scalar.Int
	case transcode.Uint:
		return scalar.Uint
	case transcode.Float:
		return scalar.Float
	case transcode.String:
		return scalar.Text
	case transcode.Bytes:
		if scalar.Data == nil {
			return []byte{}
		}
		return scalar.Data
	default:
		return nil
	}
}

// Close verifies that every container was closed.
func (e *Encoder) Close() error {
	return e.nesting.Close()
}
