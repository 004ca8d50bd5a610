// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wrap

import (
	"encoding/hex"
	"io"

	"github.com/zeebo/blake3"
)

// DigestWriter passes bytes through to a destination while counting
// them and computing their BLAKE3 digest. Only bytes the destination
// accepted are hashed.
type DigestWriter struct {
	destination io.Writer
	hasher      *blake3.Hasher
	count       int64
}

// NewDigestWriter returns a DigestWriter in front of destination.
func NewDigestWriter(destination io.Writer) *DigestWriter {
	return &DigestWriter{destination: destination, hasher: blake3.New()}
}

func (w *DigestWriter) Write(data []byte) (int, error) {
	count, err := w.destination.Write(data)
	w.hasher.Write(data[:count])
	w.count += int64(count)
	return count, err
}

// Count returns the number of bytes written.
func (w *DigestWriter) Count() int64 {
	return w.count
}

// Sum returns the lowercase hex BLAKE3-256 digest of everything
// written so far.
func (w *DigestWriter) Sum() string {
	return hex.EncodeToString(w.hasher.Sum(nil))
}
