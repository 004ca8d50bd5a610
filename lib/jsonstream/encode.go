// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonstream

import (
	"encoding/base64"
	"encoding/hex"
	"io"
	"math"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/wirebridge/msgpack/lib/format"
	"github.com/wirebridge/msgpack/lib/transcode"
)

// MaxDepth is the deepest nesting jsontext accepts, on both the
// reading and the writing side.
const MaxDepth = 10_000

// EncoderOptions configures an Encoder.
type EncoderOptions struct {
	// Indent, when non-empty, produces multi-line output indented by
	// this string per level. Empty means compact output.
	Indent string

	// Bytes selects the representation of byte strings.
	Bytes BytesPolicy

	// Sequence accepts any number of top-level values, each written
	// on its own line.
	Sequence bool
}

// Encoder writes transcode events as JSON. Every top-level value is
// followed by a newline.
type Encoder struct {
	output  *transcode.Output
	encoder *jsontext.Encoder
	nesting transcode.Nesting
	bytes   BytesPolicy
}

// NewEncoder returns an encoder writing to destination.
func NewEncoder(destination io.Writer, options EncoderOptions) *Encoder {
	output := transcode.NewOutput(destination, "")
	jsonOptions := []jsontext.Options{jsontext.AllowDuplicateNames(true)}
	if options.Indent != "" {
		jsonOptions = append(jsonOptions, jsontext.WithIndent(options.Indent))
	}
	return &Encoder{
		output:  output,
		encoder: jsontext.NewEncoder(output, jsonOptions...),
		nesting: transcode.Nesting{Sequence: options.Sequence},
		bytes:   options.Bytes,
	}
}

// Format returns format.JSON.
func (e *Encoder) Format() format.Format {
	return format.JSON
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
	if event.Kind == transcode.StartMap || event.Kind == transcode.StartArray {
		if err := e.checkDepth(e.nesting.Depth()); err != nil {
			return err
		}
	}
	switch event.Kind {
	case transcode.StartMap:
		return e.writeToken(jsontext.BeginObject)
	case transcode.EndMap:
		return e.writeToken(jsontext.EndObject)
	case transcode.StartArray:
		return e.writeToken(jsontext.BeginArray)
	case transcode.EndArray:
		return e.writeToken(jsontext.EndArray)
	case transcode.MapKey:
		if e.bytes == BytesTagged {
			return e.writeToken(jsontext.String(escapeTaggedKey(event.Key)))
		}
		return e.writeToken(jsontext.String(event.Key))
	default:
		return e.writeScalar(event.Scalar)
	}
}

func (e *Encoder) writeScalar(scalar transcode.Scalar) error {
	switch scalar.Type {
	case transcode.Bool:
		return e.writeToken(jsontext.Bool(scalar.Bool))
	case transcode.Int:
		return e.writeToken(jsontext.Int(scalar.Int))
	case transcode.Uint:
		return e.writeToken(jsontext.Uint(scalar.Uint))
	case transcode.Float:
		if math.IsNaN(scalar.Float) || math.IsInf(scalar.Float, 0) {
			return e.writeToken(jsontext.Null)
		}
		return e.writeValue(jsontext.Value(transcode.FormatFloat(scalar.Float)))
	case transcode.String:
		return e.writeToken(jsontext.String(scalar.Text))
	case transcode.Bytes:
		return e.writeBytes(scalar.Data)
	default:
		return e.writeToken(jsontext.Null)
	}
}

func (e *Encoder) writeBytes(data []byte) error {
	if e.bytes == BytesArray || e.bytes == BytesTagged {
		if err := e.checkDepth(e.nesting.Depth() + 1); err != nil {
			return err
		}
	}
	switch e.bytes {
	case BytesBase64:
		return e.writeToken(jsontext.String(base64.StdEncoding.EncodeToString(data)))
	case BytesArray:
		if err := e.writeToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, value := range data {
			if err := e.writeToken(jsontext.Uint(uint64(value))); err != nil {
				return err
			}
		}
		return e.writeToken(jsontext.EndArray)
	case BytesTagged:
		for _, next := range []jsontext.Token{
			jsontext.BeginObject,
			jsontext.String(TaggedBytesKey),
			jsontext.String(base64.StdEncoding.EncodeToString(data)),
			jsontext.EndObject,
		} {
			if err := e.writeToken(next); err != nil {
				return err
			}
		}
		return nil
	default:
		return e.writeToken(jsontext.String(hex.EncodeToString(data)))
	}
}

func (e *Encoder) checkDepth(depth int) error {
	if depth > MaxDepth {
		return &transcode.DepthLimitError{Format: format.JSON, Limit: MaxDepth}
	}
	return nil
}

func (e *Encoder) writeToken(next jsontext.Token) error {
	if err := e.encoder.WriteToken(next); err != nil {
		return e.output.Fail(err)
	}
	return nil
}

func (e *Encoder) writeValue(value jsontext.Value) error {
	if err := e.encoder.WriteValue(value); err != nil {
		return e.output.Fail(err)
	}
	return nil
}

// Close verifies that every container was closed. Complete top-level
// values are flushed as they finish, so there is nothing left to
// write.
func (e *Encoder) Close() error {
	return e.nesting.Close()
}
