// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the structural role of an Event.
type Kind uint8

const (
	StartMap Kind = iota + 1
	MapKey
	EndMap
	StartArray
	EndArray
	ScalarValue
)

// String returns a stable lower-case name used in error messages.
func (k Kind) String() string {
	switch k {
	case StartMap:
		return "start-map"
	case MapKey:
		return "map-key"
	case EndMap:
		return "end-map"
	case StartArray:
		return "start-array"
	case EndArray:
		return "end-array"
	case ScalarValue:
		return "scalar"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// beginsValue reports whether an event of this kind starts a value
// (as opposed to closing a container or naming a map entry).
func (k Kind) beginsValue() bool {
	return k == StartMap || k == StartArray || k == ScalarValue
}

// Event is one step of a document walk. Key is set only for MapKey,
// Scalar only for ScalarValue.
//
// A well-formed event sequence is well nested: every StartMap is
// matched by an EndMap and every StartArray by an EndArray, and
// inside a map events alternate between a MapKey and exactly one
// value (a scalar or a whole container).
type Event struct {
	Kind   Kind
	Key    string
	Scalar Scalar
}

// Convenience constructors for the structural events.
var (
	StartMapEvent   = Event{Kind: StartMap}
	EndMapEvent     = Event{Kind: EndMap}
	StartArrayEvent = Event{Kind: StartArray}
	EndArrayEvent   = Event{Kind: EndArray}
)

// KeyEvent returns a MapKey event for key.
func KeyEvent(key string) Event {
	return Event{Kind: MapKey, Key: key}
}

// ValueEvent returns a ScalarValue event carrying scalar.
func ValueEvent(scalar Scalar) Event {
	return Event{Kind: ScalarValue, Scalar: scalar}
}

func (e Event) String() string {
	switch e.Kind {
	case MapKey:
		return fmt.Sprintf("map-key(%q)", e.Key)
	case ScalarValue:
		return e.Scalar.String()
	default:
		return e.Kind.String()
	}
}

// Equal reports whether two events are the same step. Scalars are
// compared with Scalar.Equal.
func (e Event) Equal(other Event) bool {
	if e.Kind != other.Kind {
		return false
	}
	switch e.Kind {
	case MapKey:
		return e.Key == other.Key
	case ScalarValue:
		return e.Scalar.Equal(other.Scalar)
	default:
		return true
	}
}

// ScalarType discriminates the Scalar union.
type ScalarType uint8

const (
	Null ScalarType = iota
	Bool
	Int
	Uint
	Float
	String
	Bytes
)

func (t ScalarType) String() string {
	switch t {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Uint:
		return "uint"
	case Float:
		return "float"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	default:
		return fmt.Sprintf("scalar-type(%d)", uint8(t))
	}
}

// Scalar is a leaf value. Only the field matching Type is
// meaningful: Text for String, Data for Bytes, and the field named
// after the type otherwise.
//
// Integers carry their signedness: Int holds values decoded from a
// signed wire type (or negative JSON literals) and Uint holds values
// from an unsigned wire type (or non-negative JSON literals). This is
// what lets 18446744073709551615 and -9223372036854775808 both
// survive a round trip without passing through float64.
type Scalar struct {
	Type  ScalarType
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Text  string
	Data  []byte
}

func NullScalar() Scalar           { return Scalar{Type: Null} }
func BoolScalar(v bool) Scalar     { return Scalar{Type: Bool, Bool: v} }
func IntScalar(v int64) Scalar     { return Scalar{Type: Int, Int: v} }
func UintScalar(v uint64) Scalar   { return Scalar{Type: Uint, Uint: v} }
func FloatScalar(v float64) Scalar { return Scalar{Type: Float, Float: v} }
func StringScalar(v string) Scalar { return Scalar{Type: String, Text: v} }
func BytesScalar(v []byte) Scalar  { return Scalar{Type: Bytes, Data: v} }

// Equal compares two scalars by value. An Int and a Uint holding the
// same non-negative number are equal, because a round trip through a
// format that does not record signedness (JSON) turns one into the
// other. Floats compare by bit pattern so that NaN equals NaN and
// -0.0 does not equal 0.0. Nil and empty byte strings are equal.
func (s Scalar) Equal(other Scalar) bool {
	if s.isInteger() && other.isInteger() {
		return s.sameInteger(other)
	}
	if s.Type != other.Type {
		return false
	}
	switch s.Type {
	case Null:
		return true
	case Bool:
		return s.Bool == other.Bool
	case Float:
		return math.Float64bits(s.Float) == math.Float64bits(other.Float)
	case String:
		return s.Text == other.Text
	case Bytes:
		return bytes.Equal(s.Data, other.Data)
	default:
		return false
	}
}

func (s Scalar) isInteger() bool {
	return s.Type == Int || s.Type == Uint
}

func (s Scalar) sameInteger(other Scalar) bool {
	switch {
	case s.Type == Int && other.Type == Int:
		return s.Int == other.Int
	case s.Type == Uint && other.Type == Uint:
		return s.Uint == other.Uint
	case s.Type == Int:
		return s.Int >= 0 && uint64(s.Int) == other.Uint
	default:
		return other.Int >= 0 && uint64(other.Int) == s.Uint
	}
}

func (s Scalar) String() string {
	switch s.Type {
	case String:
		return strconv.Quote(s.Text)
	case Bytes:
		return "bytes(" + hex.EncodeToString(s.Data) + ")"
	default:
		return s.Type.String() + "(" + s.KeyText() + ")"
	}
}

// KeyText renders a scalar for use as a JSON object key. Binary
// encodings allow any value as a map key; JSON allows only strings.
// Strings are returned as-is, numbers, booleans and null as their
// JSON literal text, and byte strings as lowercase hex.
func (s Scalar) KeyText() string {
	switch s.Type {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(s.Bool)
	case Int:
		return strconv.FormatInt(s.Int, 10)
	case Uint:
		return strconv.FormatUint(s.Uint, 10)
	case Float:
		return FormatFloat(s.Float)
	case String:
		return s.Text
	case Bytes:
		return hex.EncodeToString(s.Data)
	default:
		return ""
	}
}

// FormatFloat renders a finite float64 as the shortest decimal text
// that parses back to the same value, always including a decimal
// point or an exponent so that the text is never mistaken for an
// integer. Exponent notation is used outside [1e-6, 1e21), matching
// the thresholds of ECMAScript number formatting. Callers must handle
// NaN and the infinities themselves.
func FormatFloat(value float64) string {
	magnitude := math.Abs(value)
	notation := byte('f')
	if magnitude != 0 && (magnitude < 1e-6 || magnitude >= 1e21) {
		notation = 'e'
	}
	text := strconv.FormatFloat(value, notation, -1, 64)
	if notation == 'e' {
		// Shorten "1e-07" to "1e-7".
		length := len(text)
		if length >= 4 && text[length-4] == 'e' && text[length-3] == '-' && text[length-2] == '0' {
			text = text[:length-2] + text[length-1:]
		}
		return text
	}
	if !strings.ContainsRune(text, '.') {
		text += ".0"
	}
	return text
}
