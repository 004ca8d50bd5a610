// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package jsonstream

import (
	"math"
	"testing"

	"github.com/wirebridge/msgpack/lib/transcode"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		literal string
		want    transcode.Scalar
	}{
		{"0", transcode.UintScalar(0)},
		{"42", transcode.UintScalar(42)},
		{"18446744073709551615", transcode.UintScalar(math.MaxUint64)},
		{"-1", transcode.IntScalar(-1)},
		{"-9223372036854775808", transcode.IntScalar(math.MinInt64)},
		{"-0", transcode.FloatScalar(math.Copysign(0, -1))},
		{"1.0", transcode.FloatScalar(1)},
		{"1e3", transcode.FloatScalar(1000)},
		{"-2.5E-3", transcode.FloatScalar(-0.0025)},
		{"1e-400", transcode.FloatScalar(0)},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			got, err := parseNumber(tt.literal)
			if err != nil {
				t.Fatalf("parseNumber: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseNumber_OutOfRange(t *testing.T) {
	for _, literal := range []string{
		"18446744073709551616",
		"-9223372036854775809",
		"1e999",
		"-1e400",
	} {
		if got, err := parseNumber(literal); err == nil {
			t.Errorf("parseNumber(%q) = %s, want range error", literal, got)
		}
	}
}

func TestValidNumber(t *testing.T) {
	tests := []struct {
		literal string
		want    bool
	}{
		{"0", true},
		{"-0", true},
		{"42", true},
		{"-12.5e+3", true},
		{"1E-7", true},
		{"0.001", true},
		{"", false},
		{"-", false},
		{"01", false},
		{"-01", false},
		{"1.", false},
		{".5", false},
		{"1e", false},
		{"1e+", false},
		{"+1", false},
		{"1.5.3", false},
		{"0x10", false},
	}

	for _, tt := range tests {
		if got := validNumber(tt.literal); got != tt.want {
			t.Errorf("validNumber(%q) = %v, want %v", tt.literal, got, tt.want)
		}
	}
}
