// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package convert implements the msgpack command: argument handling,
// the reader and writer chains around the stream codecs, and the
// mapping from errors to exit statuses.
//
// A conversion is a pipeline. For binary input the source passes
// through optional hex decoding and then compression detection before
// reaching the binary decoder. For binary output the encoder writes
// through optional compression, then optional hex encoding. Every
// output is counted and digested on its way to the destination, which
// is standard output or an atomically replaced file.
package convert
