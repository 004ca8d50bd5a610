// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonstream

import (
	"encoding/base64"
	"errors"
	"io"

	"github.com/wirebridge/msgpack/lib/format"
	"github.com/wirebridge/msgpack/lib/transcode"
)

// DecoderOptions configures a Decoder.
type DecoderOptions struct {
	Driver Driver

	// Bytes is consulted only for BytesTagged: with it, objects of
	// the exact form {"$bytes":"<base64>"} decode to byte strings.
	Bytes BytesPolicy

	// Sequence accepts any number of whitespace-separated top-level
	// values. Without it, anything after the first value is
	// malformed input.
	Sequence bool

	// Comments accepts JSONC: comments and trailing commas are
	// stripped before tokenizing. This reads the whole input into
	// memory first.
	Comments bool
}

type decodeFrame struct {
	isMap   bool
	wantKey bool
}

// Decoder produces transcode events from JSON input.
type Decoder struct {
	input   *transcode.Input
	tokens  tokenizer
	options DecoderOptions
	frames  []decodeFrame
	values  int64
	done    bool

	// lookahead holds tokens read while checking for a tagged byte
	// string that turned out to be an ordinary object. deferred is
	// an error met during that check, returned once the lookahead is
	// drained.
	lookahead []token
	deferred  error
}

// NewDecoder returns a decoder reading from source.
func NewDecoder(source io.Reader, options DecoderOptions) *Decoder {
	if options.Comments {
		source = &commentStripper{source: source}
	}
	input := transcode.NewInput(source, "")

	var tokens tokenizer
	switch options.Driver {
	case DriverGoJSON:
		tokens = newGoJSONTokenizer(input)
	default:
		tokens = newJSONTextTokenizer(input)
	}
	return &Decoder{input: input, tokens: tokens, options: options}
}

// Format returns format.JSON.
func (d *Decoder) Format() format.Format {
	return format.JSON
}

// Next returns the next event, or io.EOF after the last value.
func (d *Decoder) Next() (transcode.Event, error) {
	if d.done {
		return transcode.Event{}, io.EOF
	}

	next, err := d.readToken()
	if err != nil {
		if errors.Is(err, io.EOF) && len(d.frames) == 0 && d.input.Err() == nil {
			d.done = true
			if d.values == 0 {
				return transcode.Event{}, transcode.ErrNoInput
			}
			return transcode.Event{}, io.EOF
		}
		return transcode.Event{}, d.fail("", err)
	}

	if len(d.frames) == 0 && d.values > 0 && !d.options.Sequence {
		return transcode.Event{}, d.fail("unexpected data after the top-level value", nil)
	}
	return d.event(next)
}

func (d *Decoder) readToken() (token, error) {
	if len(d.lookahead) > 0 {
		next := d.lookahead[0]
		d.lookahead = d.lookahead[1:]
		return next, nil
	}
	if d.deferred != nil {
		err := d.deferred
		d.deferred = nil
		return token{}, err
	}
	return d.tokens.readToken()
}

func (d *Decoder) event(next token) (transcode.Event, error) {
	if top := d.top(); top != nil && top.isMap && top.wantKey {
		switch next.kind {
		case '"':
			top.wantKey = false
			if d.options.Bytes == BytesTagged {
				return transcode.KeyEvent(unescapeTaggedKey(next.text)), nil
			}
			return transcode.KeyEvent(next.text), nil
		case '}':
			return d.closeContainer(true)
		default:
			return transcode.Event{}, d.fail("expected an object key", nil)
		}
	}

	switch next.kind {
	case '{':
		return d.openObject()
	case '[':
		d.frames = append(d.frames, decodeFrame{})
		return transcode.StartArrayEvent, nil
	case '}':
		return d.closeContainer(true)
	case ']':
		return d.closeContainer(false)
	case '"':
		return d.scalar(transcode.StringScalar(next.text))
	case '0':
		scalar, err := parseNumber(next.text)
		if err != nil {
			return transcode.Event{}, d.fail(next.text, err)
		}
		return d.scalar(scalar)
	case 't':
		return d.scalar(transcode.BoolScalar(true))
	case 'f':
		return d.scalar(transcode.BoolScalar(false))
	case 'n':
		return d.scalar(transcode.NullScalar())
	default:
		return transcode.Event{}, d.fail("unexpected token", nil)
	}
}

func (d *Decoder) openObject() (transcode.Event, error) {
	if d.options.Bytes == BytesTagged {
		if data, ok := d.taggedBytes(); ok {
			return d.scalar(transcode.BytesScalar(data))
		}
	}
	d.frames = append(d.frames, decodeFrame{isMap: true, wantKey: true})
	return transcode.StartMapEvent, nil
}

// taggedBytes reads ahead after '{' for the three tokens of a tagged
// byte string ("$bytes", a base64 string, '}'). On any mismatch the
// tokens read are pushed back and the object is decoded normally.
func (d *Decoder) taggedBytes() ([]byte, bool) {
	var read []token
	restore := func(err error) ([]byte, bool) {
		d.lookahead = append(read, d.lookahead...)
		if err != nil {
			d.deferred = err
		}
		return nil, false
	}

	key, err := d.readToken()
	if err != nil {
		return restore(err)
	}
	read = append(read, key)
	if key.kind != '"' || key.text != TaggedBytesKey {
		return restore(nil)
	}

	value, err := d.readToken()
	if err != nil {
		return restore(err)
	}
	read = append(read, value)
	if value.kind != '"' {
		return restore(nil)
	}

	end, err := d.readToken()
	if err != nil {
		return restore(err)
	}
	read = append(read, end)
	if end.kind != '}' {
		return restore(nil)
	}

	data, err := base64.StdEncoding.Strict().DecodeString(value.text)
	if err != nil {
		return restore(nil)
	}
	return data, true
}

func (d *Decoder) closeContainer(isMap bool) (transcode.Event, error) {
	top := d.top()
	if top == nil || top.isMap != isMap {
		return transcode.Event{}, d.fail("mismatched closing bracket", nil)
	}
	if isMap && !top.wantKey {
		return transcode.Event{}, d.fail("object key has no value", nil)
	}
	d.frames = d.frames[:len(d.frames)-1]
	d.valueComplete()
	if isMap {
		return transcode.EndMapEvent, nil
	}
	return transcode.EndArrayEvent, nil
}

func (d *Decoder) scalar(value transcode.Scalar) (transcode.Event, error) {
	d.valueComplete()
	return transcode.ValueEvent(value), nil
}

func (d *Decoder) valueComplete() {
	if top := d.top(); top != nil {
		if top.isMap {
			top.wantKey = true
		}
		return
	}
	d.values++
}

func (d *Decoder) top() *decodeFrame {
	if len(d.frames) == 0 {
		return nil
	}
	return &d.frames[len(d.frames)-1]
}

// fail builds the error for a decoding failure. Source failures
// become *transcode.IOError. Everything else is malformed input at the
// offset the tokenizer reports.
func (d *Decoder) fail(reason string, cause error) error {
	if d.input.Err() != nil {
		return d.input.Fail(format.JSON, reason, cause)
	}
	offset, pointer := d.tokens.locate(cause)
	var grammar *syntaxError
	if errors.As(cause, &grammar) && reason == "" {
		reason, cause = grammar.reason, nil
	}
	if errors.Is(cause, io.EOF) || errors.Is(cause, io.ErrUnexpectedEOF) {
		if reason == "" {
			reason = "unexpected end of input"
		}
		if errors.Is(cause, io.EOF) {
			cause = nil
		}
	}
	return &transcode.MalformedInputError{
		Format: format.JSON,
		Offset: offset,
		Path:   pointer,
		Reason: reason,
		Err:    cause,
	}
}
