// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Msgpack converts documents between JSON and MessagePack, and between
// JSON and CBOR. Conversion streams events from a decoder to an
// encoder, so input size is not limited by memory except where
// MessagePack output must buffer an open container's body.
package main
