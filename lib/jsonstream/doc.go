// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package jsonstream reads and writes JSON as a stream of transcode
// events.
//
// Two tokenizers can drive the decoder. The default, jsontext from
// go-json-experiment, is strict RFC 8259, reports the byte offset and
// JSON pointer of syntax errors, and hands number literals over as
// raw text so that integers are classified exactly. The alternative,
// goccy/go-json's Token API, is faster on large inputs but skips
// commas and colons without checking them; the decoder's own frame
// stack still rejects a value where a key belongs, a missing value,
// or mismatched brackets.
//
// JSON cannot represent byte strings, NaN, or the infinities. Byte
// strings are written according to a [BytesPolicy]; the tagged
// policy is the only reversible one. Non-finite floats are written as
// null.
package jsonstream
