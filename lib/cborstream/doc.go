// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cborstream reads and writes CBOR (RFC 8949) as a stream of
// transcode events.
//
// The encoder writes every map and array with indefinite length
// (RFC 8949 §3.2.2), so nothing is buffered: a container header goes
// out as soon as the container starts and a break byte when it ends.
// This is the binary target to use when a large JSON document must be
// converted in bounded memory.
//
// The decoder is a header-at-a-time reader that accepts both definite
// and indefinite containers and strings. Semantic tags are skipped
// and their content transcoded as if untagged, "undefined" becomes
// null, and half-precision floats are widened with x448/float16.
// Like the MessagePack decoder it keeps an explicit frame stack and
// never recurses on document depth.
package cborstream
