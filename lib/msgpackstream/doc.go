// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package msgpackstream reads and writes MessagePack as a stream of
// transcode events.
//
// The decoder classifies each value by its leading type byte with
// vmihailenco/msgpack's PeekCode and msgpcode helpers and keeps an
// explicit stack of remaining element counts, so nesting depth is
// bounded by memory rather than by the goroutine stack.
//
// MessagePack writes a container's element count before its
// elements. A streaming producer does not know that count until the
// container ends, so the encoder buffers the body of every open
// container and emits header and body together when the container
// closes. Memory use is therefore proportional to the largest
// top-level container, not constant. Scalars at depth zero are
// written straight through. When bounded memory matters, convert to
// CBOR instead, which has indefinite-length containers.
package msgpackstream
