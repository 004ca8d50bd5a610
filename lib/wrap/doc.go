// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package wrap provides the byte-level layers that sit between a
// file and a codec: hex text, compression, and an output digest.
//
// Layers compose as plain io.Reader and io.Writer values. On the
// input side the order is file, hex decoding, decompression, codec;
// on the output side it is codec, compression, hex encoding, digest,
// file. Every writer here must be closed to flush its trailer (the
// hex newline, the compression frame end).
package wrap
