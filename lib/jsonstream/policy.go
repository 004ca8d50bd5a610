// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonstream

import (
	"fmt"
	"strings"
)

// BytesPolicy selects how byte strings appear in JSON output and
// whether the decoder recognises them on the way back.
type BytesPolicy int

const (
	// BytesHex writes a lowercase hex string. Decoding yields a
	// plain string.
	BytesHex BytesPolicy = iota

	// BytesBase64 writes a standard padded base64 string. Decoding
	// yields a plain string.
	BytesBase64

	// BytesArray writes an array of integers 0-255. Decoding yields
	// an array of integers.
	BytesArray

	// BytesTagged writes {"$bytes":"<base64>"}. A decoder with the
	// same policy turns exactly that shape back into a byte string.
	// Map keys of the form "$bytes", "$$bytes" and so on gain one
	// extra leading '$' on output and lose it on input, so a map that
	// really has a "$bytes" key never reads back as a byte string.
	BytesTagged
)

// TaggedBytesKey is the only key of a tagged byte-string object.
const TaggedBytesKey = "$bytes"

// escapeTaggedKey adds one '$' to a key that could be mistaken for
// TaggedBytesKey or one of its escapes.
func escapeTaggedKey(key string) string {
	if isTaggedKeyForm(key) {
		return "$" + key
	}
	return key
}

// unescapeTaggedKey removes the '$' added by escapeTaggedKey. A bare
// TaggedBytesKey is left alone.
func unescapeTaggedKey(key string) string {
	if strings.HasPrefix(key, "$$") && isTaggedKeyForm(key) {
		return key[1:]
	}
	return key
}

// isTaggedKeyForm reports whether key is one or more '$' followed by
// "bytes".
func isTaggedKeyForm(key string) bool {
	rest := strings.TrimLeft(key, "$")
	return rest == "bytes" && len(rest) < len(key)
}

func (p BytesPolicy) String() string {
	switch p {
	case BytesHex:
		return "hex"
	case BytesBase64:
		return "base64"
	case BytesArray:
		return "array"
	case BytesTagged:
		return "tagged"
	default:
		return fmt.Sprintf("bytes-policy(%d)", int(p))
	}
}

// ParseBytesPolicy parses a flag or configuration value. The empty
// string is BytesHex.
func ParseBytesPolicy(name string) (BytesPolicy, error) {
	switch name {
	case "", "hex":
		return BytesHex, nil
	case "base64":
		return BytesBase64, nil
	case "array":
		return BytesArray, nil
	case "tagged":
		return BytesTagged, nil
	default:
		return 0, fmt.Errorf("unknown bytes policy %q (expected hex, base64, array, or tagged)", name)
	}
}

// Driver selects the tokenizer behind a Decoder.
type Driver int

const (
	// DriverJSONText is go-json-experiment's jsontext tokenizer.
	DriverJSONText Driver = iota

	// DriverGoJSON is goccy/go-json's Decoder.Token.
	DriverGoJSON
)

func (d Driver) String() string {
	switch d {
	case DriverJSONText:
		return "jsontext"
	case DriverGoJSON:
		return "gojson"
	default:
		return fmt.Sprintf("driver(%d)", int(d))
	}
}

// ParseDriver parses a flag or configuration value. The empty string
// is DriverJSONText.
func ParseDriver(name string) (Driver, error) {
	switch name {
	case "", "jsontext":
		return DriverJSONText, nil
	case "gojson", "go-json":
		return DriverGoJSON, nil
	default:
		return 0, fmt.Errorf("unknown JSON driver %q (expected jsontext or gojson)", name)
	}
}
