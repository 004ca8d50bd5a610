// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wrap

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a streaming compression format applied to
// binary output.
type Compression uint8

const (
	// CompressionNone writes the encoded bytes as they are.
	CompressionNone Compression = iota

	// CompressionZstd wraps output in a zstd frame at the default
	// level. Best ratio for the repetitive keys of typical documents.
	CompressionZstd

	// CompressionLZ4 wraps output in an LZ4 frame. Faster than zstd
	// with a lower ratio.
	CompressionLZ4
)

// Frame magic numbers, used to recognise compressed input.
var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// String returns the name used in flags and configuration.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name. The empty string is
// CompressionNone.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (expected none, zstd, or lz4)", name)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewCompressWriter returns a writer that compresses into
// destination. Close must be called to finish the frame; it does not
// close destination. CompressionNone returns a pass-through whose
// Close does nothing.
func NewCompressWriter(destination io.Writer, compression Compression) (io.WriteCloser, error) {
	switch compression {
	case CompressionNone:
		return nopWriteCloser{destination}, nil
	case CompressionZstd:
		encoder, err := zstd.NewWriter(destination,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		return encoder, nil
	case CompressionLZ4:
		return lz4.NewWriter(destination), nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", compression)
	}
}

type decompressReader struct {
	io.Reader
	close func()
}

func (r *decompressReader) Close() error {
	if r.close != nil {
		r.close()
	}
	return nil
}

// NewDecompressReader inspects the first bytes of source and, if they
// are a zstd or LZ4 frame magic number, returns a reader that
// decompresses the stream. Otherwise the bytes pass through
// unchanged. Close releases decoder resources and does not close
// source.
func NewDecompressReader(source io.Reader) (io.ReadCloser, Compression, error) {
	buffered := bufio.NewReader(source)
	magic, err := buffered.Peek(4)
	if err != nil {
		// Too short to be compressed. Let the codec report whatever
		// is (or is not) there, including a read failure.
		return &decompressReader{Reader: buffered}, CompressionNone, nil
	}

	switch {
	case bytes.Equal(magic, zstdMagic):
		decoder, err := zstd.NewReader(buffered, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, CompressionNone, fmt.Errorf("creating zstd reader: %w", err)
		}
		return &decompressReader{Reader: decoder, close: decoder.Close}, CompressionZstd, nil
	case bytes.Equal(magic, lz4Magic):
		return &decompressReader{Reader: lz4.NewReader(buffered)}, CompressionLZ4, nil
	default:
		return &decompressReader{Reader: buffered}, CompressionNone, nil
	}
}
