// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"errors"

	"github.com/wirebridge/msgpack/cmd/msgpack/cli"
	"github.com/wirebridge/msgpack/lib/format"
	"github.com/wirebridge/msgpack/lib/transcode"
	"github.com/wirebridge/msgpack/lib/wrap"
)

// Exit statuses. Scripts depend on these values.
const (
	ExitUsage           = 2
	ExitConflict        = 4
	ExitUndeterminable  = 6
	ExitNoInput         = 20
	ExitIO              = 30
	ExitFile            = 31
	ExitMalformedBinary = 40
	ExitMalformedJSON   = 41
	ExitHex             = 42
	ExitDepthLimit      = 43
	ExitOther           = 90
)

// ExitCode maps an error returned by the command to its exit status.
// nil maps to 0.
//
// A hex decoding failure surfaces from the stream as an I/O error, so
// it is classified before the I/O sentinel.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var toolErr *cli.ToolError
	if errors.As(err, &toolErr) {
		return ExitUsage
	}

	var conflict *format.ConflictError
	if errors.As(err, &conflict) {
		return ExitConflict
	}
	if errors.Is(err, format.ErrDirectionUndeterminable) {
		return ExitUndeterminable
	}

	var hexErr *wrap.HexError
	if errors.As(err, &hexErr) {
		return ExitHex
	}

	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return ExitFile
	}

	if errors.Is(err, transcode.ErrNoInput) {
		return ExitNoInput
	}

	var malformed *transcode.MalformedInputError
	if errors.As(err, &malformed) {
		if malformed.Format == format.JSON {
			return ExitMalformedJSON
		}
		return ExitMalformedBinary
	}

	if errors.Is(err, transcode.ErrDepthLimit) {
		return ExitDepthLimit
	}

	if errors.Is(err, transcode.ErrIO) {
		return ExitIO
	}
	return ExitOther
}
