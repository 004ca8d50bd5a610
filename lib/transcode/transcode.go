// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"errors"
	"io"
	"log/slog"

	"github.com/wirebridge/msgpack/lib/format"
)

// Decoder is a pull cursor over one encoded input.
//
// Next returns the next event, or io.EOF once the input is cleanly
// exhausted. A decoder never returns io.EOF while a container is
// still open: input that ends inside a container is a
// *MalformedInputError. An input with no value at all yields
// ErrNoInput.
type Decoder interface {
	Next() (Event, error)

	// Format names the encoding, for logging and error reports.
	Format() format.Format
}

// Encoder is a push sink for events.
//
// WriteEvent rejects out-of-order events with a *StructuralError.
// Close verifies that every container was closed and flushes
// anything the encoder buffered; it does not close the underlying
// writer.
type Encoder interface {
	WriteEvent(event Event) error
	Depth() int
	Close() error
	Format() format.Format
}

// Options configures Run.
type Options struct {
	// Logger receives debug-level progress and the info-level
	// summary. Nil discards everything.
	Logger *slog.Logger
}

// Stats summarises a completed (or failed) run.
type Stats struct {
	// Events is the number of events delivered to the encoder.
	Events int64

	// Values is the number of complete top-level values.
	Values int64

	// MaxDepth is the deepest container nesting seen.
	MaxDepth int
}

// Run pulls events from decoder and pushes them to encoder until the
// decoder is exhausted, then closes the encoder.
//
// The first error from either side stops the run and is returned
// unchanged; whatever the encoder already wrote stays written. Run
// succeeds only if the decoder produced at least one value and the
// encoder ended at depth zero.
func Run(decoder Decoder, encoder Encoder, options Options) (Stats, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("from", decoder.Format().String(), "to", encoder.Format().String())

	var stats Stats
	depth := 0
	for {
		event, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}
		if err := encoder.WriteEvent(event); err != nil {
			return stats, err
		}
		stats.Events++

		switch event.Kind {
		case StartMap, StartArray:
			depth++
			if depth > stats.MaxDepth {
				stats.MaxDepth = depth
			}
		case EndMap, EndArray:
			depth--
		}
		if depth == 0 && event.Kind != MapKey && event.Kind != StartMap && event.Kind != StartArray {
			stats.Values++
			logger.Debug("top-level value complete", "value", stats.Values, "events", stats.Events)
		}
	}

	if encoder.Depth() > 0 {
		return stats, &MalformedInputError{
			Format: decoder.Format(),
			Reason: "input ended inside an open container",
		}
	}
	if stats.Values == 0 {
		return stats, ErrNoInput
	}
	if err := encoder.Close(); err != nil {
		return stats, err
	}

	logger.Info("transcode complete",
		"values", stats.Values,
		"events", stats.Events,
		"max_depth", stats.MaxDepth,
	)
	return stats, nil
}
