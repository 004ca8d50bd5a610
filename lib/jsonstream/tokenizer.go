// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-json-experiment/json/jsontext"
	gojson "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
)

// token is one lexical JSON token. kind is the first byte of the
// token's text ('{', '}', '[', ']', '"', 't', 'f', 'n') or '0' for
// any number. text holds the decoded content of a string or the raw
// literal of a number.
type token struct {
	kind byte
	text string
}

// tokenizer is the part of a JSON decoder that differs between
// drivers.
type tokenizer interface {
	// readToken returns the next token, or io.EOF when the input
	// ends between top-level values.
	readToken() (token, error)

	// locate returns the byte offset and JSON pointer of a failure.
	// The pointer may be empty.
	locate(err error) (offset int64, pointer string)
}

type jsontextTokenizer struct {
	decoder *jsontext.Decoder
}

func newJSONTextTokenizer(source io.Reader) *jsontextTokenizer {
	return &jsontextTokenizer{
		decoder: jsontext.NewDecoder(source, jsontext.AllowDuplicateNames(true)),
	}
}

func (t *jsontextTokenizer) readToken() (token, error) {
	if t.decoder.PeekKind() == '0' {
		literal, err := t.decoder.ReadValue()
		if err != nil {
			return token{}, err
		}
		return token{kind: '0', text: string(literal)}, nil
	}
	next, err := t.decoder.ReadToken()
	if err != nil {
		return token{}, err
	}
	kind := byte(next.Kind())
	if kind == '"' {
		return token{kind: kind, text: next.String()}, nil
	}
	return token{kind: kind}, nil
}

func (t *jsontextTokenizer) locate(err error) (int64, string) {
	var syntactic *jsontext.SyntacticError
	if errors.As(err, &syntactic) {
		return syntactic.ByteOffset, string(syntactic.JSONPointer)
	}
	return t.decoder.InputOffset(), ""
}

// gojsonTokenizer drives goccy/go-json's Decoder.Token. Token skips
// ',' and ':' wherever they appear, so the bytes between tokens are
// recorded as they are read and checked here against the container
// grammar. Number literals are checked against RFC 8259 as well.
type gojsonTokenizer struct {
	decoder  *gojson.Decoder
	recorder *gapRecorder
	open     []byte
	state    gapState
}

// gapState is what the previous token allows in front of the next.
type gapState uint8

const (
	// gapTopLevel is between top-level values: no separators.
	gapTopLevel gapState = iota

	// gapOpen follows '{' or '[': no separators.
	gapOpen

	// gapKey follows an object key: exactly one ':'.
	gapKey

	// gapValue follows a value inside a container: one ',' before
	// another element, nothing before the closing bracket.
	gapValue
)

// syntaxError is a grammar violation found by the gojson driver.
type syntaxError struct {
	offset int64
	reason string
}

func (e *syntaxError) Error() string {
	return fmt.Sprintf("%s at byte %d", e.reason, e.offset)
}

func newGoJSONTokenizer(source io.Reader) *gojsonTokenizer {
	recorder := &gapRecorder{source: source}
	decoder := gojson.NewDecoder(recorder)
	decoder.UseNumber()
	return &gojsonTokenizer{decoder: decoder, recorder: recorder}
}

func (t *gojsonTokenizer) readToken() (token, error) {
	from := t.decoder.InputOffset()
	next, err := t.decoder.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			separators, at, _ := t.recorder.gap(from, t.recorder.end())
			if len(separators) > 0 {
				return token{}, &syntaxError{offset: at, reason: fmt.Sprintf("unexpected %q", separators[0])}
			}
		}
		return token{}, err
	}

	result, err := goJSONToken(next)
	if err != nil {
		return token{}, err
	}

	to := t.decoder.InputOffset()
	separators, separatorAt, tokenAt := t.recorder.gap(from, to)
	t.recorder.discard(to)
	if err := t.advance(result.kind, separators, separatorAt, tokenAt); err != nil {
		return token{}, err
	}
	if result.kind == '0' && !validNumber(result.text) {
		return token{}, &syntaxError{offset: tokenAt, reason: fmt.Sprintf("invalid number literal %q", result.text)}
	}
	return result, nil
}

func goJSONToken(next gojson.Token) (token, error) {
	switch value := next.(type) {
	case gojson.Delim:
		return token{kind: byte(value)}, nil
	case string:
		return token{kind: '"', text: value}, nil
	case gojson.Number:
		return token{kind: '0', text: string(value)}, nil
	case float64:
		return token{kind: '0', text: strconv.FormatFloat(value, 'g', -1, 64)}, nil
	case bool:
		if value {
			return token{kind: 't'}, nil
		}
		return token{kind: 'f'}, nil
	case nil:
		return token{kind: 'n'}, nil
	default:
		return token{}, fmt.Errorf("unexpected token type %T", next)
	}
}

// advance checks the separators found in front of a token of the
// given kind and moves to the state that token leaves behind.
func (t *gojsonTokenizer) advance(kind byte, separators []byte, separatorAt, tokenAt int64) error {
	closing := kind == '}' || kind == ']'

	want := ""
	switch t.state {
	case gapKey:
		want = ":"
	case gapValue:
		if !closing {
			want = ","
		}
	}
	if string(separators) != want {
		switch {
		case len(separators) == 0:
			return &syntaxError{offset: tokenAt, reason: fmt.Sprintf("missing %q", want)}
		case want == "" && closing && separators[0] == ',':
			return &syntaxError{offset: separatorAt, reason: "trailing comma"}
		default:
			return &syntaxError{offset: separatorAt, reason: fmt.Sprintf("unexpected %q", string(separators))}
		}
	}

	switch {
	case kind == '{' || kind == '[':
		t.open = append(t.open, kind)
		t.state = gapOpen
	case closing:
		if depth := len(t.open); depth > 0 {
			t.open = t.open[:depth-1]
		}
		t.state = t.afterValue()
	case t.inObject() && t.state != gapKey:
		t.state = gapKey
	default:
		t.state = t.afterValue()
	}
	return nil
}

func (t *gojsonTokenizer) inObject() bool {
	depth := len(t.open)
	return depth > 0 && t.open[depth-1] == '{'
}

func (t *gojsonTokenizer) afterValue() gapState {
	if len(t.open) > 0 {
		return gapValue
	}
	return gapTopLevel
}

func (t *gojsonTokenizer) locate(err error) (int64, string) {
	var grammar *syntaxError
	if errors.As(err, &grammar) {
		return grammar.offset, ""
	}
	var syntax *gojson.SyntaxError
	if errors.As(err, &syntax) {
		return syntax.Offset, ""
	}
	return t.decoder.InputOffset(), ""
}

// gapRecorder keeps the bytes the decoder has read but the tokenizer
// has not yet checked. base is the stream offset of pending[0].
type gapRecorder struct {
	source  io.Reader
	base    int64
	pending []byte
}

func (r *gapRecorder) Read(buffer []byte) (int, error) {
	count, err := r.source.Read(buffer)
	r.pending = append(r.pending, buffer[:count]...)
	return count, err
}

// end returns the offset just past the last byte read.
func (r *gapRecorder) end() int64 {
	return r.base + int64(len(r.pending))
}

// gap scans the recorded bytes in [from, to) up to the first byte of
// the next token. It returns the separators found, the offset of the
// first separator, and the offset of the token.
func (r *gapRecorder) gap(from, to int64) (separators []byte, separatorAt, tokenAt int64) {
	separatorAt = -1
	offset := from
scan:
	for ; offset < to; offset++ {
		index := offset - r.base
		if index < 0 || index >= int64(len(r.pending)) {
			break
		}
		switch value := r.pending[index]; value {
		case ' ', '\t', '\n', '\r':
			continue
		case ',', ':':
			if separatorAt < 0 {
				separatorAt = offset
			}
			separators = append(separators, value)
			continue
		}
		break scan
	}
	if separatorAt < 0 {
		separatorAt = offset
	}
	return separators, separatorAt, offset
}

// discard drops recorded bytes before offset.
func (r *gapRecorder) discard(offset int64) {
	cut := offset - r.base
	if cut <= 0 {
		return
	}
	if cut > int64(len(r.pending)) {
		cut = int64(len(r.pending))
	}
	r.pending = r.pending[cut:]
	r.base += cut
}

// commentStripper turns JSONC (comments and trailing commas) into
// plain JSON. jsonc.ToJSON works on a complete buffer, so the whole
// source is read on the first call to Read.
type commentStripper struct {
	source   io.Reader
	stripped *bytes.Reader
}

func (c *commentStripper) Read(buffer []byte) (int, error) {
	if c.stripped == nil {
		data, err := io.ReadAll(c.source)
		if err != nil {
			return 0, err
		}
		c.stripped = bytes.NewReader(jsonc.ToJSON(data))
	}
	return c.stripped.Read(buffer)
}
