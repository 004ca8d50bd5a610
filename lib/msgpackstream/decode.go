// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package msgpackstream

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/wirebridge/msgpack/lib/format"
	"github.com/wirebridge/msgpack/lib/transcode"
)

// DecoderOptions configures a Decoder.
type DecoderOptions struct {
	// Sequence accepts any number of concatenated top-level values.
	// Without it, bytes after the first value are malformed input.
	Sequence bool
}

// decodeFrame is one open container. remaining counts elements for
// arrays and entries for maps.
type decodeFrame struct {
	isMap     bool
	remaining int
	wantKey   bool
}

// Decoder produces transcode events from MessagePack input.
type Decoder struct {
	input   *transcode.Input
	decoder *msgpack.Decoder
	options DecoderOptions
	frames  []decodeFrame
	values  int64
	done    bool
}

// NewDecoder returns a decoder reading from source. Passing a
// *transcode.Input lets the caller share offset accounting; any other
// reader is wrapped.
func NewDecoder(source io.Reader, options DecoderOptions) *Decoder {
	input := transcode.NewInput(source, "")
	return &Decoder{
		input:   input,
		decoder: msgpack.NewDecoder(input),
		options: options,
	}
}

// Format returns format.MessagePack.
func (d *Decoder) Format() format.Format {
	return format.MessagePack
}

// Next returns the next event, or io.EOF after the last value.
func (d *Decoder) Next() (transcode.Event, error) {
	if d.done {
		return transcode.Event{}, io.EOF
	}

	if depth := len(d.frames); depth > 0 {
		top := &d.frames[depth-1]
		if top.remaining == 0 {
			isMap := top.isMap
			d.frames = d.frames[:depth-1]
			d.valueComplete()
			if isMap {
				return transcode.EndMapEvent, nil
			}
			return transcode.EndArrayEvent, nil
		}
		if top.isMap && top.wantKey {
			key, err := d.readKey()
			if err != nil {
				return transcode.Event{}, err
			}
			top.wantKey = false
			return transcode.KeyEvent(key), nil
		}
	} else if d.values > 0 {
		if d.input.AtEOF() {
			d.done = true
			return transcode.Event{}, io.EOF
		}
		if !d.options.Sequence {
			if err := d.input.Err(); err != nil {
				return transcode.Event{}, d.input.Fail(format.MessagePack, "", err)
			}
			return transcode.Event{}, d.input.Fail(format.MessagePack, "unexpected data after the top-level value", nil)
		}
	}

	return d.readValue()
}

func (d *Decoder) readValue() (transcode.Event, error) {
	code, err := d.decoder.PeekCode()
	if err != nil {
		if len(d.frames) == 0 && d.values == 0 && errors.Is(err, io.EOF) && d.input.Err() == nil {
			d.done = true
			return transcode.Event{}, transcode.ErrNoInput
		}
		return transcode.Event{}, d.input.Fail(format.MessagePack, "reading type tag", err)
	}

	switch {
	case msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32:
		length, err := d.decoder.DecodeMapLen()
		if err != nil {
			return transcode.Event{}, d.input.Fail(format.MessagePack, "reading map length", err)
		}
		d.frames = append(d.frames, decodeFrame{isMap: true, remaining: length, wantKey: true})
		return transcode.StartMapEvent, nil

	case msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32:
		length, err := d.decoder.DecodeArrayLen()
		if err != nil {
			return transcode.Event{}, d.input.Fail(format.MessagePack, "reading array length", err)
		}
		d.frames = append(d.frames, decodeFrame{remaining: length})
		return transcode.StartArrayEvent, nil
	}

	scalar, err := d.readScalar(code)
	if err != nil {
		return transcode.Event{}, err
	}
	d.valueComplete()
	return transcode.ValueEvent(scalar), nil
}

// valueComplete records the end of a value at the current depth.
func (d *Decoder) valueComplete() {
	depth := len(d.frames)
	if depth == 0 {
		d.values++
		return
	}
	top := &d.frames[depth-1]
	top.remaining--
	if top.isMap {
		top.wantKey = true
	}
}

func (d *Decoder) readScalar(code byte) (transcode.Scalar, error) {
	switch {
	case code == msgpcode.Nil:
		if err := d.decoder.DecodeNil(); err != nil {
			return transcode.Scalar{}, d.input.Fail(format.MessagePack, "reading nil", err)
		}
		return transcode.NullScalar(), nil

	case code == msgpcode.False || code == msgpcode.True:
		value, err := d.decoder.DecodeBool()
		if err != nil {
			return transcode.Scalar{}, d.input.Fail(format.MessagePack, "reading bool", err)
		}
		return transcode.BoolScalar(value), nil

	case code == msgpcode.Float:
		value, err := d.decoder.DecodeFloat32()
		if err != nil {
			return transcode.Scalar{}, d.input.Fail(format.MessagePack, "reading float32", err)
		}
		return transcode.FloatScalar(float64(value)), nil

	case code == msgpcode.Double:
		value, err := d.decoder.DecodeFloat64()
		if err != nil {
			return transcode.Scalar{}, d.input.Fail(format.MessagePack, "reading float64", err)
		}
		return transcode.FloatScalar(value), nil

	case code <= msgpcode.PosFixedNumHigh ||
		code == msgpcode.Uint8 || code == msgpcode.Uint16 ||
		code == msgpcode.Uint32 || code == msgpcode.Uint64:
		value, err := d.decoder.DecodeUint64()
		if err != nil {
			return transcode.Scalar{}, d.input.Fail(format.MessagePack, "reading unsigned integer", err)
		}
		return transcode.UintScalar(value), nil

	case code >= msgpcode.NegFixedNumLow ||
		code == msgpcode.Int8 || code == msgpcode.Int16 ||
		code == msgpcode.Int32 || code == msgpcode.Int64:
		value, err := d.decoder.DecodeInt64()
		if err != nil {
			return transcode.Scalar{}, d.input.Fail(format.MessagePack, "reading signed integer", err)
		}
		return transcode.IntScalar(value), nil

	case msgpcode.IsString(code):
		value, err := d.decoder.DecodeString()
		if err != nil {
			return transcode.Scalar{}, d.input.Fail(format.MessagePack, "reading string", err)
		}
		if !utf8.ValidString(value) {
			return transcode.Scalar{}, d.input.Fail(format.MessagePack, "string is not valid UTF-8", nil)
		}
		return transcode.StringScalar(value), nil

	case msgpcode.IsBin(code):
		value, err := d.decoder.DecodeBytes()
		if err != nil {
			return transcode.Scalar{}, d.input.Fail(format.MessagePack, "reading binary", err)
		}
		if value == nil {
			value = []byte{}
		}
		return transcode.BytesScalar(value), nil

	case msgpcode.IsExt(code):
		return transcode.Scalar{}, d.input.Fail(format.MessagePack,
			fmt.Sprintf("extension type (tag 0x%02x) is not supported", code), nil)

	default:
		return transcode.Scalar{}, d.input.Fail(format.MessagePack,
			fmt.Sprintf("unrecognized type tag 0x%02x", code), nil)
	}
}

// readKey reads one map key and renders it as JSON object key text.
// Containers cannot be keys.
func (d *Decoder) readKey() (string, error) {
	code, err := d.decoder.PeekCode()
	if err != nil {
		return "", d.input.Fail(format.MessagePack, "reading map key", err)
	}
	if msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32 ||
		msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32 {
		return "", d.input.Fail(format.MessagePack, "map and array map keys are not supported", nil)
	}
	scalar, err := d.readScalar(code)
	if err != nil {
		return "", err
	}
	return scalar.KeyText(), nil
}
