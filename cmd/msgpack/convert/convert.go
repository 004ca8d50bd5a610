// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/wirebridge/msgpack/lib/cborstream"
	"github.com/wirebridge/msgpack/lib/format"
	"github.com/wirebridge/msgpack/lib/highlight"
	"github.com/wirebridge/msgpack/lib/jsonstream"
	"github.com/wirebridge/msgpack/lib/msgpackstream"
	"github.com/wirebridge/msgpack/lib/transcode"
	"github.com/wirebridge/msgpack/lib/wrap"
)

// Options is one fully resolved conversion. Flags, configuration, and
// direction inference have all been applied.
type Options struct {
	Plan format.Plan

	// InputName is the input file path, empty for standard input or
	// inline text.
	InputName string

	// Text is the inline input, used when HasText is set.
	Text    string
	HasText bool

	// OutputName is the output file path, empty for standard output.
	OutputName string

	// Hex reads or writes the binary side as hex text.
	Hex bool

	// Compress is applied to binary output. Binary input is always
	// checked for compression.
	Compress wrap.Compression

	Indent   string
	Bytes    jsonstream.BytesPolicy
	Driver   jsonstream.Driver
	Comments bool
	Sequence bool

	// Color applies to JSON written to standard output.
	Color highlight.Mode
}

// Streams are the process's standard streams.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Convert runs one conversion. On failure nothing is written to
// OutputName; output already sent to standard output stays written.
func Convert(options Options, streams Streams, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With(
		"source", options.Plan.Source.String(),
		"target", options.Plan.Target.String(),
	)

	source, closeSource, err := openSource(options, streams.Stdin, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	var file *atomicFile
	destination := streams.Stdout
	if options.OutputName != "" {
		file, err = createAtomic(options.OutputName)
		if err != nil {
			return err
		}
		destination = file
	} else if !options.Plan.ToJSON() && !options.Hex && isTerminal(streams.Stdout) {
		logger.Warn("writing binary output to a terminal; --hex prints it as text")
	}

	digest, err := convertTo(destination, source, options, streams.Stdout, logger)
	if err != nil {
		if file != nil {
			file.Abort()
		}
		return err
	}

	if file != nil {
		if err := file.Commit(); err != nil {
			return err
		}
	}

	logger.Info("output written",
		"output", displayName(options.OutputName, "stdout"),
		"bytes", digest.Count(),
		"blake3", digest.Sum(),
	)
	return nil
}

// openSource builds the reader chain for the input side. The returned
// close function releases decompression state and closes an opened
// file.
func openSource(options Options, stdin io.Reader, logger *slog.Logger) (*transcode.Input, func(), error) {
	var raw io.Reader
	closers := []func(){}
	closeAll := func() {
		for index := len(closers) - 1; index >= 0; index-- {
			closers[index]()
		}
	}

	switch {
	case options.HasText:
		raw = strings.NewReader(options.Text)
	case options.InputName != "":
		file, err := os.Open(options.InputName)
		if err != nil {
			return nil, nil, &FileError{Op: "open", Path: options.InputName, Err: err}
		}
		closers = append(closers, func() { file.Close() })
		raw = file
	default:
		raw = stdin
	}

	if options.Plan.Source.IsBinary() {
		if options.Hex {
			raw = wrap.NewHexReader(raw)
		}
		decompressed, compression, err := wrap.NewDecompressReader(raw)
		if err != nil {
			closeAll()
			return nil, nil, &transcode.IOError{Op: "read", Name: options.InputName, Err: err}
		}
		closers = append(closers, func() { decompressed.Close() })
		if compression != wrap.CompressionNone {
			logger.Info("decompressing input", "compression", compression.String())
		}
		raw = decompressed
	}

	return transcode.NewInput(raw, options.InputName), closeAll, nil
}

// convertTo runs the transcoder into destination through the output
// chain and flushes every layer. stdout is consulted for terminal
// highlighting.
func convertTo(destination io.Writer, source *transcode.Input, options Options, stdout io.Writer, logger *slog.Logger) (*wrap.DigestWriter, error) {
	digest := wrap.NewDigestWriter(destination)
	buffered := bufio.NewWriterSize(digest, 64*1024)

	// layers are closed innermost first after the encoder finishes.
	var layers []io.Closer
	var sink io.Writer = buffered

	if options.Plan.ToJSON() {
		if options.OutputName == "" {
			if stdoutFile, ok := stdout.(*os.File); ok {
				if profile := highlight.Profile(options.Color, stdoutFile); profile != termenv.Ascii {
					colored := highlight.NewWriter(sink, profile)
					layers = append(layers, colored)
					sink = colored
				}
			}
		}
	} else {
		if options.Hex {
			hexWriter := wrap.NewHexWriter(sink)
			layers = append(layers, hexWriter)
			sink = hexWriter
		}
		compressor, err := wrap.NewCompressWriter(sink, options.Compress)
		if err != nil {
			return nil, err
		}
		layers = append(layers, compressor)
		sink = compressor
	}

	output := transcode.NewOutput(sink, options.OutputName)
	decoder := newDecoder(source, options)
	encoder := newEncoder(output, options)

	stats, err := transcode.Run(decoder, encoder, transcode.Options{Logger: logger})
	if err != nil {
		return nil, err
	}
	logger.Debug("conversion stats", "events", stats.Events, "max_depth", stats.MaxDepth)

	for index := len(layers) - 1; index >= 0; index-- {
		if err := layers[index].Close(); err != nil {
			return nil, &transcode.IOError{Op: "write", Name: options.OutputName, Err: err}
		}
	}
	if err := buffered.Flush(); err != nil {
		return nil, &transcode.IOError{Op: "write", Name: options.OutputName, Err: err}
	}
	return digest, nil
}

func newDecoder(source *transcode.Input, options Options) transcode.Decoder {
	switch options.Plan.Source {
	case format.JSON:
		return jsonstream.NewDecoder(source, jsonstream.DecoderOptions{
			Driver:   options.Driver,
			Bytes:    options.Bytes,
			Sequence: options.Sequence,
			Comments: options.Comments,
		})
	case format.CBOR:
		return cborstream.NewDecoder(source, cborstream.DecoderOptions{Sequence: options.Sequence})
	case format.MessagePack:
		return msgpackstream.NewDecoder(source, msgpackstream.DecoderOptions{Sequence: options.Sequence})
	default:
		panic(fmt.Sprintf("convert: no decoder for %s", options.Plan.Source))
	}
}

func newEncoder(output *transcode.Output, options Options) transcode.Encoder {
	switch options.Plan.Target {
	case format.JSON:
		return jsonstream.NewEncoder(output, jsonstream.EncoderOptions{
			Indent:   options.Indent,
			Bytes:    options.Bytes,
			Sequence: options.Sequence,
		})
	case format.CBOR:
		return cborstream.NewEncoder(output, cborstream.EncoderOptions{Sequence: options.Sequence})
	case format.MessagePack:
		return msgpackstream.NewEncoder(output, msgpackstream.EncoderOptions{Sequence: options.Sequence})
	default:
		panic(fmt.Sprintf("convert: no encoder for %s", options.Plan.Target))
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
