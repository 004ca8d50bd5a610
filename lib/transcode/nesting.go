// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import "fmt"

// State is the position of a Nesting within the document.
type State uint8

const (
	// StateEmpty is depth zero before any value.
	StateEmpty State = iota

	// StatePopulated is depth zero after at least one complete value
	// in sequence mode, where another value may follow.
	StatePopulated

	// StateAwaitingKey is inside a map where the next event must be
	// a MapKey or EndMap.
	StateAwaitingKey

	// StateAwaitingValue is inside a map after a MapKey, where the
	// next event must begin a value.
	StateAwaitingValue

	// StateInArray is inside an array.
	StateInArray

	// StateTerminal is depth zero after the single value of a
	// non-sequence document. No further events are accepted.
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	case StateAwaitingKey:
		return "awaiting-key"
	case StateAwaitingValue:
		return "awaiting-value"
	case StateInArray:
		return "in-array"
	case StateTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

type nestingFrame struct {
	isMap bool

	// haveKey is true in a map between a MapKey and the end of its
	// value.
	haveKey bool
}

// Nesting tracks container depth and key/value alternation for an
// event stream and rejects events that would produce an invalid
// document. The zero value accepts a single top-level value; set
// Sequence to accept any number of consecutive top-level values.
type Nesting struct {
	Sequence bool

	frames   []nestingFrame
	topLevel State
	values   int64
	maxDepth int
}

// Apply validates event against the current state and advances.
// On error the state is unchanged.
func (n *Nesting) Apply(event Event) error {
	switch event.Kind {
	case MapKey:
		top := n.top()
		if top == nil || !top.isMap {
			return n.reject(event, "map key outside a map")
		}
		if top.haveKey {
			return n.reject(event, "map key where a value is expected")
		}
		top.haveKey = true
		return nil

	case EndMap, EndArray:
		top := n.top()
		wantMap := event.Kind == EndMap
		if top == nil {
			return n.reject(event, "no open container")
		}
		if top.isMap != wantMap {
			return n.reject(event, "closes a container of the other kind")
		}
		if top.haveKey {
			return n.reject(event, "map key has no value")
		}
		n.frames = n.frames[:len(n.frames)-1]
		n.completeValue()
		return nil

	case StartMap, StartArray, ScalarValue:
		if len(n.frames) == 0 && n.topLevel == StateTerminal {
			return n.reject(event, "document already complete")
		}
		if top := n.top(); top != nil && top.isMap && !top.haveKey {
			return n.reject(event, "value where a map key is expected")
		}
		if event.Kind == ScalarValue {
			n.completeValue()
			return nil
		}
		n.frames = append(n.frames, nestingFrame{isMap: event.Kind == StartMap})
		if len(n.frames) > n.maxDepth {
			n.maxDepth = len(n.frames)
		}
		return nil

	default:
		return n.reject(event, "unknown event kind")
	}
}

func (n *Nesting) completeValue() {
	if top := n.top(); top != nil {
		top.haveKey = false
		return
	}
	n.values++
	if n.Sequence {
		n.topLevel = StatePopulated
	} else {
		n.topLevel = StateTerminal
	}
}

func (n *Nesting) top() *nestingFrame {
	if len(n.frames) == 0 {
		return nil
	}
	return &n.frames[len(n.frames)-1]
}

func (n *Nesting) reject(event Event, reason string) error {
	return &StructuralError{Event: event.Kind, State: n.State(), Reason: reason}
}

// State returns the current position.
func (n *Nesting) State() State {
	top := n.top()
	switch {
	case top == nil:
		return n.topLevel
	case !top.isMap:
		return StateInArray
	case top.haveKey:
		return StateAwaitingValue
	default:
		return StateAwaitingKey
	}
}

// Depth returns the number of open containers.
func (n *Nesting) Depth() int {
	return len(n.frames)
}

// MaxDepth returns the deepest nesting seen so far.
func (n *Nesting) MaxDepth() int {
	return n.maxDepth
}

// Values returns the number of complete top-level values.
func (n *Nesting) Values() int64 {
	return n.values
}

// Close verifies that every container has been closed.
func (n *Nesting) Close() error {
	if depth := len(n.frames); depth > 0 {
		return &StructuralError{
			Event:  0,
			State:  n.State(),
			Reason: fmt.Sprintf("close with %d open container(s)", depth),
		}
	}
	return nil
}
