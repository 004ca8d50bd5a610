// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package msgpackstream

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/wirebridge/msgpack/lib/format"
	"github.com/wirebridge/msgpack/lib/transcode"
)

// segment is one piece of an encoded container body.
type segment struct {
	data []byte
	next *segment
}

// chain is a linked list of segments. Joining two chains links them
// without copying their bytes, so closing a container costs the same
// at any depth.
type chain struct {
	head *segment
	tail *segment
}

func (c *chain) push(data []byte) {
	if len(data) == 0 {
		return
	}
	node := &segment{data: data}
	if c.tail == nil {
		c.head = node
	} else {
		c.tail.next = node
	}
	c.tail = node
}

func (c *chain) join(other chain) {
	if other.head == nil {
		return
	}
	if c.tail == nil {
		*c = other
		return
	}
	c.tail.next = other.head
	c.tail = other.tail
}

func (c *chain) writeTo(destination io.Writer) error {
	for node := c.head; node != nil; node = node.next {
		if _, err := destination.Write(node.data); err != nil {
			return err
		}
	}
	return nil
}

// encodeFrame holds the body of one open container until its element
// count is known. pending collects bytes written since the last child
// container closed.
type encodeFrame struct {
	isMap   bool
	count   int
	body    chain
	pending []byte
}

func (f *encodeFrame) seal() {
	f.body.push(f.pending)
	f.pending = nil
}

// router is the writer underneath the msgpack.Encoder. Bytes go into
// the innermost open container, or to the output when no container
// is open.
type router struct {
	output *transcode.Output
	frames []*encodeFrame
}

func (r *router) Write(data []byte) (int, error) {
	if depth := len(r.frames); depth > 0 {
		frame := r.frames[depth-1]
		frame.pending = append(frame.pending, data...)
		return len(data), nil
	}
	return r.output.Write(data)
}

func (r *router) WriteByte(value byte) error {
	if depth := len(r.frames); depth > 0 {
		frame := r.frames[depth-1]
		frame.pending = append(frame.pending, value)
		return nil
	}
	_, err := r.output.Write([]byte{value})
	return err
}

// Encoder writes transcode events as MessagePack. Integers use the
// narrowest encoding that holds the value. Floats are written as
// float64.
type Encoder struct {
	output  *transcode.Output
	router  *router
	encoder *msgpack.Encoder
	nesting transcode.Nesting
}

// EncoderOptions configures an Encoder.
type EncoderOptions struct {
	// Sequence accepts any number of top-level values, written back
	// to back.
	Sequence bool
}

// NewEncoder returns an encoder writing to destination.
func NewEncoder(destination io.Writer, options EncoderOptions) *Encoder {
	output := transcode.NewOutput(destination, "")
	routing := &router{output: output}
	return &Encoder{
		output:  output,
		router:  routing,
		encoder: msgpack.NewEncoder(routing),
		nesting: transcode.Nesting{Sequence: options.Sequence},
	}
}

// Format returns format.MessagePack.
func (e *Encoder) Format() format.Format {
	return format.MessagePack
}

// Depth returns the number of open containers.
func (e *Encoder) Depth() int {
	return e.nesting.Depth()
}

// WriteEvent encodes one event.
func (e *Encoder) WriteEvent(event transcode.Event) error {
	if err := e.nesting.Apply(event); err != nil {
		return err
	}

	if depth := len(e.router.frames); depth > 0 {
		parent := e.router.frames[depth-1]
		if event.Kind == transcode.MapKey || (!parent.isMap && isValueStart(event.Kind)) {
			parent.count++
		}
	}

	switch event.Kind {
	case transcode.StartMap:
		e.router.frames = append(e.router.frames, &encodeFrame{isMap: true})
		return nil
	case transcode.StartArray:
		e.router.frames = append(e.router.frames, &encodeFrame{})
		return nil
	case transcode.EndMap, transcode.EndArray:
		return e.closeContainer()
	case transcode.MapKey:
		return e.check(e.encoder.EncodeString(event.Key))
	default:
		return e.check(e.writeScalar(event.Scalar))
	}
}

func isValueStart(kind transcode.Kind) bool {
	return kind == transcode.StartMap || kind == transcode.StartArray || kind == transcode.ScalarValue
}

// closeContainer pops the innermost frame and writes its header to
// the enclosing container (or the output), followed by its body.
func (e *Encoder) closeContainer() error {
	depth := len(e.router.frames)
	frame := e.router.frames[depth-1]
	e.router.frames = e.router.frames[:depth-1]
	frame.seal()

	var err error
	if frame.isMap {
		err = e.encoder.EncodeMapLen(frame.count)
	} else {
		err = e.encoder.EncodeArrayLen(frame.count)
	}
	if err != nil {
		return e.check(err)
	}

	if depth > 1 {
		parent := e.router.frames[depth-2]
		parent.seal()
		parent.body.join(frame.body)
		return nil
	}
	return e.check(frame.body.writeTo(e.router.output))
}

func (e *Encoder) writeScalar(scalar transcode.Scalar) error {
	switch scalar.Type {
	case transcode.Null:
		return e.encoder.EncodeNil()
	case transcode.Bool:
		return e.encoder.EncodeBool(scalar.Bool)
	case transcode.Int:
		return e.encoder.EncodeInt(scalar.Int)
	case transcode.Uint:
		return e.encoder.EncodeUint(scalar.Uint)
	case transcode.Float:
		return e.encoder.EncodeFloat64(scalar.Float)
	case transcode.String:
		return e.encoder.EncodeString(scalar.Text)
	case transcode.Bytes:
		data := scalar.Data
		if data == nil {
			// EncodeBytes writes nil for a nil slice.
			data = []byte{}
		}
		return e.encoder.EncodeBytes(data)
	default:
		return &transcode.StructuralError{
			Event:  transcode.ScalarValue,
			State:  e.nesting.State(),
			Reason: "unknown scalar type " + scalar.Type.String(),
		}
	}
}

func (e *Encoder) check(err error) error {
	if err == nil {
		return nil
	}
	return e.output.Fail(err)
}

// Close verifies that every container was closed.
func (e *Encoder) Close() error {
	return e.nesting.Close()
}
