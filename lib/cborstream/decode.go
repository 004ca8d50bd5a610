// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cborstream

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/x448/float16"

	"github.com/wirebridge/msgpack/lib/format"
	"github.com/wirebridge/msgpack/lib/transcode"
)

// Major types (RFC 8949 §3.1).
const (
	majorUnsigned = 0
	majorNegative = 1
	majorBytes    = 2
	majorText     = 3
	majorArray    = 4
	majorMap      = 5
	majorTag      = 6
	majorSimple   = 7
)

// Additional-information values of major type 7.
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	floatHalf       = 25
	floatSingle     = 26
	floatDouble     = 27
)

const (
	infoIndefinite = 31
	breakCode      = 0xff
)

// header is a decoded initial byte plus its argument.
type header struct {
	major      byte
	info       byte
	argument   uint64
	indefinite bool
}

// DecoderOptions configures a Decoder.
type DecoderOptions struct {
	// Sequence accepts a CBOR sequence (RFC 8742): any number of
	// concatenated top-level items.
	Sequence bool
}

type decodeFrame struct {
	isMap      bool
	indefinite bool
	remaining  uint64
	wantKey    bool
}

// Decoder produces transcode events from CBOR input.
type Decoder struct {
	input   *transcode.Input
	options DecoderOptions
	frames  []decodeFrame
	values  int64
	done    bool
	scratch [8]byte
}

// NewDecoder returns a decoder reading from source.
func NewDecoder(source io.Reader, options DecoderOptions) *Decoder {
	return &Decoder{
		input:   transcode.NewInput(source, ""),
		options: options,
	}
}

// Format returns format.CBOR.
func (d *Decoder) Format() format.Format {
	return format.CBOR
}

// Next returns the next event, or io.EOF after the last item.
func (d *Decoder) Next() (transcode.Event, error) {
	if d.done {
		return transcode.Event{}, io.EOF
	}

	if depth := len(d.frames); depth > 0 {
		top := &d.frames[depth-1]
		closing := false
		if top.indefinite {
			code, err := d.input.ReadByte()
			if err != nil {
				return transcode.Event{}, d.fail("reading container item", err)
			}
			if code == breakCode {
				if top.isMap && !top.wantKey {
					return transcode.Event{}, d.fail("break between a map key and its value", nil)
				}
				closing = true
			} else if err := d.input.UnreadByte(); err != nil {
				return transcode.Event{}, d.fail("", err)
			}
		} else {
			closing = top.remaining == 0
		}

		if closing {
			isMap := top.isMap
			d.frames = d.frames[:depth-1]
			d.valueComplete()
			if isMap {
				return transcode.EndMapEvent, nil
			}
			return transcode.EndArrayEvent, nil
		}

		if top.isMap && top.wantKey {
			key, err := d.readKey()
			if err != nil {
				return transcode.Event{}, err
			}
			top.wantKey = false
			return transcode.KeyEvent(key), nil
		}
	} else {
		if d.input.AtEOF() {
			d.done = true
			if d.values == 0 {
				return transcode.Event{}, transcode.ErrNoInput
			}
			return transcode.Event{}, io.EOF
		}
		if d.values > 0 && !d.options.Sequence {
			return transcode.Event{}, d.fail("unexpected data after the top-level item", nil)
		}
	}

	return d.readValue()
}

func (d *Decoder) readValue() (transcode.Event, error) {
	item, err := d.readItemHeader()
	if err != nil {
		return transcode.Event{}, err
	}

	switch item.major {
	case majorArray:
		d.frames = append(d.frames, decodeFrame{remaining: item.argument, indefinite: item.indefinite})
		return transcode.StartArrayEvent, nil
	case majorMap:
		d.frames = append(d.frames, decodeFrame{
			isMap:      true,
			remaining:  item.argument,
			indefinite: item.indefinite,
			wantKey:    true,
		})
		return transcode.StartMapEvent, nil
	}

	scalar, err := d.readScalar(item)
	if err != nil {
		return transcode.Event{}, err
	}
	d.valueComplete()
	return transcode.ValueEvent(scalar), nil
}

func (d *Decoder) valueComplete() {
	depth := len(d.frames)
	if depth == 0 {
		d.values++
		return
	}
	top := &d.frames[depth-1]
	if !top.indefinite {
		top.remaining--
	}
	if top.isMap {
		top.wantKey = true
	}
}

// readHeader reads one initial byte and its argument.
func (d *Decoder) readHeader() (header, error) {
	initial, err := d.input.ReadByte()
	if err != nil {
		return header{}, d.fail("reading item header", err)
	}
	item := header{major: initial >> 5, info: initial & 0x1f}

	switch {
	case item.info < 24:
		item.argument = uint64(item.info)
	case item.info <= 27:
		width := 1 << (item.info - 24)
		if _, err := io.ReadFull(d.input, d.scratch[:width]); err != nil {
			return header{}, d.fail("reading item argument", err)
		}
		switch width {
		case 1:
			item.argument = uint64(d.scratch[0])
		case 2:
			item.argument = uint64(binary.BigEndian.Uint16(d.scratch[:2]))
		case 4:
			item.argument = uint64(binary.BigEndian.Uint32(d.scratch[:4]))
		default:
			item.argument = binary.BigEndian.Uint64(d.scratch[:8])
		}
	case item.info == infoIndefinite:
		switch item.major {
		case majorBytes, majorText, majorArray, majorMap:
			item.indefinite = true
		case majorSimple:
			// A break code. The caller decides whether one is allowed
			// here.
		default:
			return header{}, d.fail(fmt.Sprintf("major type %d cannot have indefinite length", item.major), nil)
		}
	default:
		return header{}, d.fail(fmt.Sprintf("reserved additional information value %d", item.info), nil)
	}
	return item, nil
}

// readItemHeader reads the header of the next data item, skipping
// any semantic tags in front of it.
func (d *Decoder) readItemHeader() (header, error) {
	for {
		item, err := d.readHeader()
		if err != nil {
			return header{}, err
		}
		if item.major != majorTag {
			return item, nil
		}
	}
}

func (d *Decoder) readScalar(item header) (transcode.Scalar, error) {
	switch item.major {
	case majorUnsigned:
		return transcode.UintScalar(item.argument), nil

	case majorNegative:
		if item.argument > math.MaxInt64 {
			return transcode.Scalar{}, d.fail("negative integer below -2^63 is not supported", nil)
		}
		return transcode.IntScalar(-1 - int64(item.argument)), nil

	case majorBytes:
		data, err := d.readString(item)
		if err != nil {
			return transcode.Scalar{}, err
		}
		return transcode.BytesScalar(data), nil

	case majorText:
		data, err := d.readString(item)
		if err != nil {
			return transcode.Scalar{}, err
		}
		if !utf8.Valid(data) {
			return transcode.Scalar{}, d.fail("text string is not valid UTF-8", nil)
		}
		return transcode.StringScalar(string(data)), nil

	case majorSimple:
		switch item.info {
		case simpleFalse:
			return transcode.BoolScalar(false), nil
		case simpleTrue:
			return transcode.BoolScalar(true), nil
		case simpleNull, simpleUndefined:
			return transcode.NullScalar(), nil
		case floatHalf:
			return transcode.FloatScalar(float64(float16.Frombits(uint16(item.argument)).Float32())), nil
		case floatSingle:
			return transcode.FloatScalar(float64(math.Float32frombits(uint32(item.argument)))), nil
		case floatDouble:
			return transcode.FloatScalar(math.Float64frombits(item.argument)), nil
		case infoIndefinite:
			return transcode.Scalar{}, d.fail("unexpected break code", nil)
		default:
			return transcode.Scalar{}, d.fail(fmt.Sprintf("simple value %d is not supported", item.argument), nil)
		}

	default:
		return transcode.Scalar{}, d.fail(fmt.Sprintf("unexpected major type %d", item.major), nil)
	}
}

// readString reads the payload of a byte or text string, joining the
// chunks of an indefinite-length string.
func (d *Decoder) readString(item header) ([]byte, error) {
	if !item.indefinite {
		return d.readChunk(item.argument)
	}
	joined := []byte{}
	for {
		code, err := d.input.ReadByte()
		if err != nil {
			return nil, d.fail("reading string chunk", err)
		}
		if code == breakCode {
			return joined, nil
		}
		if err := d.input.UnreadByte(); err != nil {
			return nil, d.fail("", err)
		}
		chunk, err := d.readHeader()
		if err != nil {
			return nil, err
		}
		if chunk.major != item.major || chunk.indefinite {
			return nil, d.fail("indefinite-length string contains a chunk of another type", nil)
		}
		data, err := d.readChunk(chunk.argument)
		if err != nil {
			return nil, err
		}
		joined = append(joined, data...)
	}
}

// readChunk reads length bytes without trusting length for the
// allocation size, so a corrupt header cannot request gigabytes up
// front.
func (d *Decoder) readChunk(length uint64) ([]byte, error) {
	if length > math.MaxInt64 {
		return nil, d.fail("string length out of range", nil)
	}
	var buffer bytes.Buffer
	if _, err := io.CopyN(&buffer, d.input, int64(length)); err != nil {
		return nil, d.fail("reading string", err)
	}
	data := buffer.Bytes()
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// readKey reads one map key and renders it as JSON object key text.
func (d *Decoder) readKey() (string, error) {
	item, err := d.readItemHeader()
	if err != nil {
		return "", err
	}
	if item.major == majorArray || item.major == majorMap {
		return "", d.fail("map and array map keys are not supported", nil)
	}
	scalar, err := d.readScalar(item)
	if err != nil {
		return "", err
	}
	return scalar.KeyText(), nil
}

func (d *Decoder) fail(reason string, cause error) error {
	return d.input.Fail(format.CBOR, reason, cause)
}
