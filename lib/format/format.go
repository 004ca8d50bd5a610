// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package format names the encodings the transcoder understands and
// decides which way a conversion runs.
//
// The set of formats is closed. Callers select decoder and encoder
// constructors with a switch on [Format]; there is no registry.
//
// Direction is decided by [Resolve] from explicit flags first and
// file-name extensions second. Explicit flags are never overridden by
// an extension: "--to-json out.msgpack" still produces JSON, written
// to a file whose name suggests otherwise.
package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies one wire encoding.
type Format int

const (
	// Unknown is returned by FromFileName for names whose extension
	// is not recognised (including names with no extension at all).
	Unknown Format = iota

	// JSON is the textual encoding (RFC 8259).
	JSON

	// MessagePack is the default binary encoding.
	MessagePack

	// CBOR is the alternative binary encoding (RFC 8949). It is the
	// only binary encoding that can be produced without buffering
	// container bodies, because it has indefinite-length containers.
	CBOR
)

// String returns the lower-case name used in error messages and log
// attributes.
func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case MessagePack:
		return "msgpack"
	case CBOR:
		return "cbor"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// IsBinary reports whether f is one of the binary encodings.
func (f Format) IsBinary() bool {
	return f == MessagePack || f == CBOR
}

// Parse maps a configuration value ("msgpack", "cbor", "json") to a
// Format. The empty string maps to Unknown without error so that an
// absent configuration key can fall through to the default.
func Parse(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "":
		return Unknown, nil
	case "json":
		return JSON, nil
	case "msgpack", "messagepack", "mpk":
		return MessagePack, nil
	case "cbor":
		return CBOR, nil
	default:
		return Unknown, fmt.Errorf("unknown format %q (expected json, msgpack, or cbor)", name)
	}
}

// FromFileName infers a format from the extension of name. Matching
// is case-insensitive: "DATA.JSON" is JSON. Names without a
// recognised extension, and the empty name, are Unknown.
func FromFileName(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return JSON
	case ".msgpack", ".mpk":
		return MessagePack
	case ".cbor":
		return CBOR
	default:
		return Unknown
	}
}

// ErrDirectionUndeterminable is returned by Resolve when neither an
// explicit flag nor a recognised extension says which way to convert.
var ErrDirectionUndeterminable = errors.New("unable to determine conversion direction: use --to-json or --to-msgpack, or name the input or output with a .json, .msgpack, .mpk, or .cbor extension")

// ConflictError reports two arguments that cannot be used together,
// such as both direction flags or an input file together with
// inline text.
type ConflictError struct {
	First  string
	Second string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s and %s cannot be used together", e.First, e.Second)
}

// Request carries everything Resolve looks at. InputName and
// OutputName may be empty (stdin, inline text, stdout).
type Request struct {
	ToJSON   bool
	ToBinary bool

	InputName  string
	OutputName string

	// Binary forces the binary side of the conversion to a specific
	// encoding (set by --cbor or the "binary" configuration key).
	// Unknown means "infer from the file name, defaulting to
	// MessagePack".
	Binary Format
}

// Plan is the outcome of Resolve: what the decoder reads and what
// the encoder writes. Exactly one of Source and Target is JSON.
type Plan struct {
	Source Format
	Target Format
}

// ToJSON reports whether the plan produces JSON.
func (p Plan) ToJSON() bool {
	return p.Target == JSON
}

// Resolve decides the conversion direction.
//
// Both explicit flags at once is a *ConflictError. A single explicit
// flag wins over anything the file names suggest. Without flags the
// input name is consulted: JSON input converts to binary, binary input
// converts to JSON. If the input name says nothing, the output name
// decides: a binary output name means to-binary and a JSON output
// name means to-JSON. If nothing is recognised the result is
// ErrDirectionUndeterminable.
func Resolve(request Request) (Plan, error) {
	if request.ToJSON && request.ToBinary {
		return Plan{}, &ConflictError{First: "--to-json", Second: "--to-msgpack"}
	}
	if request.Binary != Unknown && !request.Binary.IsBinary() {
		return Plan{}, fmt.Errorf("binary encoding must be msgpack or cbor, not %s", request.Binary)
	}

	inputFormat := FromFileName(request.InputName)
	outputFormat := FromFileName(request.OutputName)

	toBinary := request.ToBinary
	toJSON := request.ToJSON
	if !toBinary && !toJSON {
		switch {
		case inputFormat == JSON:
			toBinary = true
		case inputFormat.IsBinary():
			toJSON = true
		case outputFormat.IsBinary():
			toBinary = true
		case outputFormat == JSON:
			toJSON = true
		default:
			return Plan{}, ErrDirectionUndeterminable
		}
	}

	if toJSON {
		return Plan{Source: binaryFormat(request.Binary, inputFormat), Target: JSON}, nil
	}
	return Plan{Source: JSON, Target: binaryFormat(request.Binary, outputFormat)}, nil
}

// binaryFormat picks the binary encoding for the binary side of a
// conversion: an explicit choice first, then the binary file's
// extension, then MessagePack.
func binaryFormat(explicit, fromName Format) Format {
	if explicit.IsBinary() {
		return explicit
	}
	if fromName.IsBinary() {
		return fromName
	}
	return MessagePack
}
