// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transcode defines the event model shared by every decoder
// and encoder, and the loop that connects them.
//
// A conversion never builds a document tree. A [Decoder] is a pull
// cursor: each call to Next returns one structural [Event] (start or
// end of a map or array, a map key, or a scalar) and returns io.EOF
// when the input is exhausted. An [Encoder] accepts the same events
// one at a time. [Run] moves events from one to the other and holds
// at most one event in flight, so memory use is bounded by nesting
// depth (plus whatever the target encoding itself must buffer; see
// the msgpackstream package).
//
// Encoders validate event order with [Nesting], a small state
// machine over an explicit frame stack. Nothing in this package or
// in the codecs recurses on document depth, so a hundred thousand
// nested arrays cost a hundred thousand stack frames of a few bytes
// each, not a goroutine stack overflow.
//
// Errors fall into four classes, each with a sentinel for errors.Is
// and a typed error for errors.As: [ErrMalformedInput]
// (*MalformedInputError), [ErrStructural] (*StructuralError),
// [ErrNoInput], and [ErrIO] (*IOError). Decoders read through an
// [Input] and encoders write through an [Output]; both remember the
// first failure of the underlying stream so that a broken pipe is
// reported as an I/O failure rather than as a parse error at
// whatever byte happened to be next.
package transcode
