// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonstream

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/wirebridge/msgpack/lib/transcode"
)

var (
	errIntegerRange = errors.New("integer literal is outside the 64-bit range")
	errFloatRange   = errors.New("number literal overflows float64")
)

// parseNumber classifies a JSON number literal.
//
// Literals without a fraction or exponent are integers: negative ones
// become Int and non-negative ones Uint, exactly, or an error if they
// do not fit in 64 bits. "-0" is the exception and becomes the float
// -0.0 so that its sign survives. Everything else is a float64, and a
// literal too large for float64 is an error rather than an infinity.
func parseNumber(literal string) (transcode.Scalar, error) {
	if !strings.ContainsAny(literal, ".eE") {
		if literal == "-0" {
			return transcode.FloatScalar(math.Copysign(0, -1)), nil
		}
		if strings.HasPrefix(literal, "-") {
			value, err := strconv.ParseInt(literal, 10, 64)
			if err != nil {
				return transcode.Scalar{}, errIntegerRange
			}
			return transcode.IntScalar(value), nil
		}
		value, err := strconv.ParseUint(literal, 10, 64)
		if err != nil {
			return transcode.Scalar{}, errIntegerRange
		}
		return transcode.UintScalar(value), nil
	}

	value, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		if math.IsInf(value, 0) {
			return transcode.Scalar{}, errFloatRange
		}
		// Underflow rounds toward zero, which is the nearest float64.
		if !errors.Is(err, strconv.ErrRange) {
			return transcode.Scalar{}, err
		}
	}
	return transcode.FloatScalar(value), nil
}

// validNumber reports whether literal matches the RFC 8259 number
// grammar: an optional minus, an integer part without leading zeros,
// an optional fraction and an optional exponent, each with at least
// one digit.
func validNumber(literal string) bool {
	index := 0
	digits := func() int {
		start := index
		for index < len(literal) && literal[index] >= '0' && literal[index] <= '9' {
			index++
		}
		return index - start
	}

	if index < len(literal) && literal[index] == '-' {
		index++
	}
	if index < len(literal) && literal[index] == '0' {
		index++
	} else if digits() == 0 {
		return false
	}
	if index < len(literal) && literal[index] == '.' {
		index++
		if digits() == 0 {
			return false
		}
	}
	if index < len(literal) && (literal[index] == 'e' || literal[index] == 'E') {
		index++
		if index < len(literal) && (literal[index] == '+' || literal[index] == '-') {
			index++
		}
		if digits() == 0 {
			return false
		}
	}
	return index == len(literal)
}
