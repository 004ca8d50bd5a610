// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/wirebridge/msgpack/cmd/msgpack/cli"
	"github.com/wirebridge/msgpack/lib/format"
	"github.com/wirebridge/msgpack/lib/transcode"
	"github.com/wirebridge/msgpack/lib/wrap"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"usage", cli.Validation("bad flag"), ExitUsage},
		{"argument conflict", &format.ConflictError{First: "--to-json", Second: "--to-msgpack"}, ExitConflict},
		{"undeterminable", format.ErrDirectionUndeterminable, ExitUndeterminable},
		{"no input", transcode.ErrNoInput, ExitNoInput},
		{"io", &transcode.IOError{Op: "write", Err: io.ErrClosedPipe}, ExitIO},
		{"file", &FileError{Op: "open", Path: "x.json", Err: errors.New("no such file")}, ExitFile},
		{"malformed msgpack", &transcode.MalformedInputError{Format: format.MessagePack}, ExitMalformedBinary},
		{"malformed cbor", &transcode.MalformedInputError{Format: format.CBOR}, ExitMalformedBinary},
		{"malformed json", &transcode.MalformedInputError{Format: format.JSON}, ExitMalformedJSON},
		{"hex inside io", &transcode.IOError{Op: "read", Err: &wrap.HexError{Offset: 1, Err: io.ErrUnexpectedEOF}}, ExitHex},
		{"depth limit", &transcode.DepthLimitError{Format: format.JSON, Limit: 10_000}, ExitDepthLimit},
		{"structural", &transcode.StructuralError{Reason: "unbalanced"}, ExitOther},
		{"wrapped", fmt.Errorf("context: %w", transcode.ErrNoInput), ExitNoInput},
		{"other", errors.New("boom"), ExitOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
