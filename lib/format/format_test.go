// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"errors"
	"testing"
)

func TestFromFileName(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"data.json", JSON},
		{"DATA.JSON", JSON},
		{"nested/dir/file.Json", JSON},
		{"data.msgpack", MessagePack},
		{"data.MPK", MessagePack},
		{"data.cbor", CBOR},
		{"data.txt", Unknown},
		{"noextension", Unknown},
		{"", Unknown},
		{"archive.json.gz", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromFileName(tt.name); got != tt.want {
				t.Errorf("FromFileName(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		want    Plan
	}{
		{
			name:    "explicit to-json",
			request: Request{ToJSON: true},
			want:    Plan{Source: MessagePack, Target: JSON},
		},
		{
			name:    "explicit to-binary",
			request: Request{ToBinary: true},
			want:    Plan{Source: JSON, Target: MessagePack},
		},
		{
			name:    "explicit flag beats input extension",
			request: Request{ToJSON: true, InputName: "in.json"},
			want:    Plan{Source: MessagePack, Target: JSON},
		},
		{
			name:    "explicit flag beats output extension",
			request: Request{ToBinary: true, OutputName: "out.json"},
			want:    Plan{Source: JSON, Target: MessagePack},
		},
		{
			name:    "json input infers to-binary",
			request: Request{InputName: "in.json"},
			want:    Plan{Source: JSON, Target: MessagePack},
		},
		{
			name:    "msgpack input infers to-json",
			request: Request{InputName: "in.mpk"},
			want:    Plan{Source: MessagePack, Target: JSON},
		},
		{
			name:    "cbor input infers to-json from cbor",
			request: Request{InputName: "in.cbor"},
			want:    Plan{Source: CBOR, Target: JSON},
		},
		{
			name:    "binary output infers to-binary",
			request: Request{OutputName: "out.msgpack"},
			want:    Plan{Source: JSON, Target: MessagePack},
		},
		{
			name:    "cbor output infers cbor target",
			request: Request{OutputName: "out.cbor"},
			want:    Plan{Source: JSON, Target: CBOR},
		},
		{
			name:    "json output infers to-json",
			request: Request{OutputName: "out.json"},
			want:    Plan{Source: MessagePack, Target: JSON},
		},
		{
			name:    "json to json prefers to-binary",
			request: Request{InputName: "a.json", OutputName: "b.json"},
			want:    Plan{Source: JSON, Target: MessagePack},
		},
		{
			name:    "explicit binary choice wins over extension",
			request: Request{ToBinary: true, OutputName: "out.msgpack", Binary: CBOR},
			want:    Plan{Source: JSON, Target: CBOR},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.request)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolve_Conflict(t *testing.T) {
	_, err := Resolve(Request{ToJSON: true, ToBinary: true, InputName: "in.json"})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *ConflictError, got %v", err)
	}
	if conflict.First != "--to-json" || conflict.Second != "--to-msgpack" {
		t.Errorf("conflict = %+v", conflict)
	}
}

func TestResolve_Undeterminable(t *testing.T) {
	for _, request := range []Request{
		{},
		{InputName: "data.txt"},
		{InputName: "data", OutputName: "out.bin"},
	} {
		if _, err := Resolve(request); !errors.Is(err, ErrDirectionUndeterminable) {
			t.Errorf("Resolve(%+v) error = %v, want ErrDirectionUndeterminable", request, err)
		}
	}
}

func TestParse(t *testing.T) {
	for input, want := range map[string]Format{
		"":        Unknown,
		"json":    JSON,
		"msgpack": MessagePack,
		"CBOR":    CBOR,
	} {
		got, err := Parse(input)
		if err != nil {
			t.Errorf("Parse(%q): %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("Parse(%q) = %s, want %s", input, got, want)
		}
	}
	if _, err := Parse("yaml"); err == nil {
		t.Error("Parse(\"yaml\") succeeded, want error")
	}
}
