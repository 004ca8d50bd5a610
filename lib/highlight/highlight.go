// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package highlight colours JSON output for terminal display.
//
// Highlighting needs the whole document, so a [Writer] buffers
// everything written to it and renders on Close. Callers only wrap the
// output when [Profile] returns a colour profile for the destination,
// so file and pipe output stays plain and streamed.
package highlight

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Style is the chroma style used for all output.
const Style = "monokai"

// Mode selects when output is coloured.
type Mode int

const (
	// Auto colours output only when it goes to a terminal.
	Auto Mode = iota
	// Always colours output regardless of the destination.
	Always
	// Never disables colour.
	Never
)

func (m Mode) String() string {
	switch m {
	case Auto:
		return "auto"
	case Always:
		return "always"
	case Never:
		return "never"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "auto", "always", or "never".
func ParseMode(name string) (Mode, error) {
	switch name {
	case "auto", "":
		return Auto, nil
	case "always":
		return Always, nil
	case "never":
		return Never, nil
	default:
		return Auto, fmt.Errorf("unknown color mode %q (valid: auto, always, never)", name)
	}
}

// Profile returns the colour profile to render with for the given
// destination, or termenv.Ascii when output should stay plain.
func Profile(mode Mode, destination *os.File) termenv.Profile {
	switch mode {
	case Never:
		return termenv.Ascii
	case Always:
		profile := termenv.NewOutput(destination).EnvColorProfile()
		if profile == termenv.Ascii {
			return termenv.ANSI256
		}
		return profile
	default:
		if destination == nil || !term.IsTerminal(int(destination.Fd())) {
			return termenv.Ascii
		}
		return termenv.NewOutput(destination).ColorProfile()
	}
}

// FormatterName maps a termenv colour profile to a chroma formatter.
func FormatterName(profile termenv.Profile) string {
	switch profile {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal"
	default:
		return "noop"
	}
}

// Writer buffers JSON text and writes it highlighted on Close.
type Writer struct {
	out       io.Writer
	formatter string
	buffer    bytes.Buffer
	closed    bool
}

// NewWriter returns a Writer rendering to out with the formatter for
// profile.
func NewWriter(out io.Writer, profile termenv.Profile) *Writer {
	return &Writer{out: out, formatter: FormatterName(profile)}
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("highlight: write after close")
	}
	return w.buffer.Write(p)
}

// Close renders the buffered text. Text the lexer cannot colour is
// written unchanged.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.buffer.Len() == 0 {
		return nil
	}
	source := w.buffer.String()
	var rendered bytes.Buffer
	if err := quick.Highlight(&rendered, source, "json", w.formatter, Style); err != nil {
		_, err = io.WriteString(w.out, source)
		return err
	}
	_, err := w.out.Write(rendered.Bytes())
	return err
}
