// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package msgpackstream

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/wirebridge/msgpack/lib/transcode"
)

func mustHex(t *testing.T, text string) []byte {
	t.Helper()
	data, err := hex.DecodeString(strings.ReplaceAll(text, " ", ""))
	if err != nil {
		t.Fatalf("bad test hex %q: %v", text, err)
	}
	return data
}

// collect drains a decoder. It returns the events read before the
// first error, and that error (nil on clean EOF).
func collect(decoder *Decoder) ([]transcode.Event, error) {
	var events []transcode.Event
	for {
		event, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
}

func encodeAll(t *testing.T, events []transcode.Event) []byte {
	t.Helper()
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer, EncoderOptions{})
	for index, event := range events {
		if err := encoder.WriteEvent(event); err != nil {
			t.Fatalf("WriteEvent %d (%s): %v", index, event, err)
		}
	}
	if err := encoder.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buffer.Bytes()
}

var sampleDocument = []transcode.Event{
	transcode.StartMapEvent,
	transcode.KeyEvent("a"), transcode.ValueEvent(transcode.UintScalar(1)),
	transcode.KeyEvent("b"), transcode.StartArrayEvent,
	transcode.ValueEvent(transcode.BoolScalar(true)),
	transcode.ValueEvent(transcode.NullScalar()),
	transcode.ValueEvent(transcode.StringScalar("x")),
	transcode.EndArrayEvent,
	transcode.EndMapEvent,
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		events []transcode.Event
		want   string
	}{
		{
			name:   "empty map",
			events: []transcode.Event{transcode.StartMapEvent, transcode.EndMapEvent},
			want:   "80",
		},
		{
			name:   "sample document",
			events: sampleDocument,
			want:   "82 a161 01 a162 93 c3 c0 a178",
		},
		{
			name:   "max uint64",
			events: []transcode.Event{transcode.ValueEvent(transcode.UintScalar(math.MaxUint64))},
			want:   "cf ffffffffffffffff",
		},
		{
			name:   "min int64",
			events: []transcode.Event{transcode.ValueEvent(transcode.IntScalar(math.MinInt64))},
			want:   "d3 8000000000000000",
		},
		{
			name:   "negative fixint",
			events: []transcode.Event{transcode.ValueEvent(transcode.IntScalar(-1))},
			want:   "ff",
		},
		{
			name:   "non-negative int uses unsigned width",
			events: []transcode.Event{transcode.ValueEvent(transcode.IntScalar(200))},
			want:   "cc c8",
		},
		{
			name:   "uint16",
			events: []transcode.Event{transcode.ValueEvent(transcode.UintScalar(256))},
			want:   "cd 0100",
		},
		{
			name:   "int8",
			events: []transcode.Event{transcode.ValueEvent(transcode.IntScalar(-33))},
			want:   "d0 df",
		},
		{
			name:   "float64",
			events: []transcode.Event{transcode.ValueEvent(transcode.FloatScalar(1.5))},
			want:   "cb 3ff8000000000000",
		},
		{
			name:   "bytes",
			events: []transcode.Event{transcode.ValueEvent(transcode.BytesScalar([]byte{0xde, 0xad}))},
			want:   "c4 02 dead",
		},
		{
			name:   "nil bytes stay bytes",
			events: []transcode.Event{transcode.ValueEvent(transcode.BytesScalar(nil))},
			want:   "c4 00",
		},
		{
			name: "nested containers count their own elements",
			events: []transcode.Event{
				transcode.StartArrayEvent,
				transcode.StartArrayEvent, transcode.EndArrayEvent,
				transcode.StartMapEvent,
				transcode.KeyEvent("k"), transcode.StartArrayEvent,
				transcode.ValueEvent(transcode.UintScalar(1)), transcode.ValueEvent(transcode.UintScalar(2)),
				transcode.EndArrayEvent,
				transcode.EndMapEvent,
				transcode.EndArrayEvent,
			},
			want: "92 90 81 a16b 92 01 02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeAll(t, tt.events)
			if want := mustHex(t, tt.want); !bytes.Equal(got, want) {
				t.Errorf("got %x, want %x", got, want)
			}
		})
	}
}

func TestEncode_SixteenElementArrayUsesArray16(t *testing.T) {
	events := []transcode.Event{transcode.StartArrayEvent}
	for index := 0; index < 16; index++ {
		events = append(events, transcode.ValueEvent(transcode.UintScalar(0)))
	}
	events = append(events, transcode.EndArrayEvent)

	got := encodeAll(t, events)
	if !bytes.HasPrefix(got, []byte{0xdc, 0x00, 0x10}) {
		t.Errorf("header = %x, want dc0010", got[:3])
	}
	if len(got) != 3+16 {
		t.Errorf("length = %d, want 19", len(got))
	}
}

func TestEncode_DeepNesting(t *testing.T) {
	const depth = 100_000
	events := make([]transcode.Event, 0, 2*depth+1)
	for index := 0; index < depth; index++ {
		events = append(events, transcode.StartArrayEvent)
	}
	events = append(events, transcode.ValueEvent(transcode.NullScalar()))
	for index := 0; index < depth; index++ {
		events = append(events, transcode.EndArrayEvent)
	}

	got := encodeAll(t, events)
	want := append(bytes.Repeat([]byte{0x91}, depth), 0xc0)
	if !bytes.Equal(got, want) {
		t.Errorf("encoded %d bytes, want %d bytes of nested fixarrays", len(got), len(want))
	}
}

func TestEncode_RejectsOutOfOrderEvents(t *testing.T) {
	encoder := NewEncoder(io.Discard, EncoderOptions{})
	if err := encoder.WriteEvent(transcode.StartArrayEvent); err != nil {
		t.Fatal(err)
	}
	err := encoder.WriteEvent(transcode.KeyEvent("a"))
	if !errors.Is(err, transcode.ErrStructural) {
		t.Fatalf("error = %v, want ErrStructural", err)
	}
	if err := encoder.Close(); !errors.Is(err, transcode.ErrStructural) {
		t.Errorf("Close with open array = %v, want ErrStructural", err)
	}
}

func TestDecode(t *testing.T) {
	events, err := collect(NewDecoder(bytes.NewReader(mustHex(t, "82 a161 01 a162 93 c3 c0 a178")), DecoderOptions{}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != len(sampleDocument) {
		t.Fatalf("got %d events %v, want %d", len(events), events, len(sampleDocument))
	}
	for index := range events {
		if !events[index].Equal(sampleDocument[index]) {
			t.Errorf("event %d = %s, want %s", index, events[index], sampleDocument[index])
		}
	}
}

func TestDecode_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  transcode.Scalar
	}{
		{"positive fixint", "05", transcode.UintScalar(5)},
		{"negative fixint", "e0", transcode.IntScalar(-32)},
		{"uint64 max", "cf ffffffffffffffff", transcode.UintScalar(math.MaxUint64)},
		{"int64 min", "d3 8000000000000000", transcode.IntScalar(math.MinInt64)},
		{"int8 keeps signed type", "d0 05", transcode.IntScalar(5)},
		{"float32", "ca 3fc00000", transcode.FloatScalar(1.5)},
		{"float64", "cb 3ff8000000000000", transcode.FloatScalar(1.5)},
		{"str8", "d9 03 616263", transcode.StringScalar("abc")},
		{"bin8", "c4 02 0102", transcode.BytesScalar([]byte{1, 2})},
		{"empty bin", "c4 00", transcode.BytesScalar([]byte{})},
		{"nil", "c0", transcode.NullScalar()},
		{"false", "c2", transcode.BoolScalar(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := collect(NewDecoder(bytes.NewReader(mustHex(t, tt.input)), DecoderOptions{}))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(events) != 1 || events[0].Kind != transcode.ScalarValue {
				t.Fatalf("events = %v, want one scalar", events)
			}
			if !events[0].Scalar.Equal(tt.want) {
				t.Errorf("got %s, want %s", events[0].Scalar, tt.want)
			}
		})
	}
}

func TestDecode_NonStringKeys(t *testing.T) {
	// {1: "a", true: "b", nil: "c", bin(ff): "d", -2: "e", 1.5: "f"}
	input := "86 01 a161 c3 a162 c0 a163 c401ff a164 fe a165 cb3ff8000000000000 a166"
	events, err := collect(NewDecoder(bytes.NewReader(mustHex(t, input)), DecoderOptions{}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var keys []string
	for _, event := range events {
		if event.Kind == transcode.MapKey {
			keys = append(keys, event.Key)
		}
	}
	want := []string{"1", "true", "null", "ff", "-2", "1.5"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Errorf("keys = %q, want %q", keys, want)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"reserved tag", "c1", "unrecognized type tag 0xc1"},
		{"extension", "d4 01 00", "extension type"},
		{"truncated string", "a5 6162", "unexpected end of input"},
		{"truncated uint32", "ce 0000", "unexpected end of input"},
		{"unterminated array", "92 01", "unexpected end of input"},
		{"unterminated map value", "81 a161", "unexpected end of input"},
		{"trailing data", "80 80", "unexpected data after the top-level value"},
		{"invalid utf-8", "a2 c328", "not valid UTF-8"},
		{"array key", "81 90 01", "map and array map keys"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collect(NewDecoder(bytes.NewReader(mustHex(t, tt.input)), DecoderOptions{}))
			var malformed *transcode.MalformedInputError
			if !errors.As(err, &malformed) {
				t.Fatalf("error = %v, want *MalformedInputError", err)
			}
			if !strings.Contains(malformed.Error(), tt.reason) {
				t.Errorf("error %q does not contain %q", malformed.Error(), tt.reason)
			}
		})
	}
}

func TestDecode_ErrorOffset(t *testing.T) {
	// The reserved tag sits at byte 2, inside a two-element array.
	_, err := collect(NewDecoder(bytes.NewReader(mustHex(t, "92 01 c1")), DecoderOptions{}))
	var malformed *transcode.MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *MalformedInputError", err)
	}
	if malformed.Offset != 2 {
		t.Errorf("offset = %d, want 2", malformed.Offset)
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	_, err := collect(NewDecoder(bytes.NewReader(nil), DecoderOptions{}))
	if !errors.Is(err, transcode.ErrNoInput) {
		t.Fatalf("error = %v, want ErrNoInput", err)
	}
}

func TestDecode_Sequence(t *testing.T) {
	events, err := collect(NewDecoder(bytes.NewReader(mustHex(t, "80 01 90")), DecoderOptions{Sequence: true}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []transcode.Event{
		transcode.StartMapEvent, transcode.EndMapEvent,
		transcode.ValueEvent(transcode.UintScalar(1)),
		transcode.StartArrayEvent, transcode.EndArrayEvent,
	}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for index := range want {
		if !events[index].Equal(want[index]) {
			t.Errorf("event %d = %s, want %s", index, events[index], want[index])
		}
	}
}

func TestDecode_DeepNesting(t *testing.T) {
	const depth = 100_000
	input := append(bytes.Repeat([]byte{0x91}, depth-1), 0x90)

	events, err := collect(NewDecoder(bytes.NewReader(input), DecoderOptions{}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 2*depth {
		t.Errorf("events = %d, want %d", len(events), 2*depth)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"82 a161 01 a162 93 c3 c0 a178",
		"93 cf ffffffffffffffff d3 8000000000000000 cb 400921fb54442d18",
		"81 a3 6b6579 c4 03 010203",
		"91 91 91 91 80",
		"94 01 92 80 a178 82 a161 91 c0 a162 c2 02",
		"92 91 91 91 c3 93 90 90 81 a17a 80",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			original := mustHex(t, input)
			var output bytes.Buffer
			_, err := transcode.Run(
				NewDecoder(bytes.NewReader(original), DecoderOptions{}),
				NewEncoder(&output, EncoderOptions{}),
				transcode.Options{},
			)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !bytes.Equal(output.Bytes(), original) {
				t.Errorf("got %x, want %x", output.Bytes(), original)
			}
		})
	}
}
