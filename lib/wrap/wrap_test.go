// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wrap

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestHexReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{
			name:  "lowercase hex",
			input: "a1636b6579",
			want:  []byte{0xa1, 0x63, 0x6b, 0x65, 0x79},
		},
		{
			name:  "uppercase hex",
			input: "A1636B6579",
			want:  []byte{0xa1, 0x63, 0x6b, 0x65, 0x79},
		},
		{
			name:  "hex with spaces",
			input: " 8 0\n",
			want:  []byte{0x80},
		},
		{
			name:  "hex with tabs and mixed whitespace",
			input: "a1\t63 6b65\r\n79",
			want:  []byte{0xa1, 0x63, 0x6b, 0x65, 0x79},
		},
		{
			name:  "whitespace only",
			input: "  \n\t ",
			want:  nil,
		},
		{
			name:    "invalid digit",
			input:   "not hex data",
			wantErr: true,
		},
		{
			name:    "odd digit count",
			input:   "801",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(NewHexReader(strings.NewReader(tt.input)))
			if tt.wantErr {
				var hexErr *HexError
				if !errors.As(err, &hexErr) {
					t.Fatalf("error = %v, want *HexError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %x, want %x", got, tt.want)
			}
		})
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("device gone") }

func TestHexReader_SourceFailureIsNotHexError(t *testing.T) {
	_, err := io.ReadAll(NewHexReader(brokenReader{}))
	var hexErr *HexError
	if errors.As(err, &hexErr) {
		t.Fatalf("source failure reported as hex error: %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "device gone") {
		t.Errorf("error = %v, want the source failure", err)
	}
}

func TestHexWriter(t *testing.T) {
	var buffer bytes.Buffer
	writer := NewHexWriter(&buffer)
	if _, err := writer.Write([]byte{0x82, 0xA1}); err != nil {
		t.Fatal(err)
	}
	if _, err := writer.Write([]byte{0xff}); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	if got := buffer.String(); got != "82a1ff\n" {
		t.Errorf("got %q, want %q", got, "82a1ff\n")
	}
}

func TestCompressionRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte(`{"key":"value","n":12345}`), 200)

	for _, compression := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(compression.String(), func(t *testing.T) {
			var compressed bytes.Buffer
			writer, err := NewCompressWriter(&compressed, compression)
			if err != nil {
				t.Fatalf("NewCompressWriter: %v", err)
			}
			if _, err := writer.Write(payload); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if err := writer.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
			if compression != CompressionNone && compressed.Len() >= len(payload) {
				t.Errorf("compressed %d bytes to %d", len(payload), compressed.Len())
			}

			reader, detected, err := NewDecompressReader(&compressed)
			if err != nil {
				t.Fatalf("NewDecompressReader: %v", err)
			}
			defer reader.Close()
			if detected != compression {
				t.Errorf("detected %s, want %s", detected, compression)
			}
			got, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("round trip changed %d bytes into %d", len(payload), len(got))
			}
		})
	}
}

func TestNewDecompressReader_ShortInputPassesThrough(t *testing.T) {
	for _, input := range [][]byte{nil, {0x80}, {0x28, 0xb5}} {
		reader, detected, err := NewDecompressReader(bytes.NewReader(input))
		if err != nil {
			t.Fatalf("NewDecompressReader(%x): %v", input, err)
		}
		if detected != CompressionNone {
			t.Errorf("NewDecompressReader(%x) detected %s", input, detected)
		}
		got, _ := io.ReadAll(reader)
		if !bytes.Equal(got, input) {
			t.Errorf("got %x, want %x", got, input)
		}
	}
}

func TestParseCompression(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		parsed, err := ParseCompression(compression.String())
		if err != nil || parsed != compression {
			t.Errorf("ParseCompression(%q) = %v, %v", compression.String(), parsed, err)
		}
	}
	if _, err := ParseCompression("gzip"); err == nil {
		t.Error("ParseCompression(\"gzip\") succeeded")
	}
}

func TestDigestWriter(t *testing.T) {
	var buffer bytes.Buffer
	writer := NewDigestWriter(&buffer)
	if _, err := writer.Write([]byte("abc")); err != nil {
		t.Fatal(err)
	}
	if writer.Count() != 3 {
		t.Errorf("count = %d, want 3", writer.Count())
	}
	// BLAKE3("abc") from the reference test vectors.
	want := "6437b3ac38465133ffb63b75273a8db548c558465d79db03fd359c6cd5bd9d85"
	if got := writer.Sum(); got != want {
		t.Errorf("digest = %s, want %s", got, want)
	}
	if buffer.String() != "abc" {
		t.Errorf("destination = %q", buffer.String())
	}
}
