// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cborstream

import (
	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configuration shared by every Encoder.
// It is built once and never modified.
//
// Floats use the shortest of half, single, or double precision that
// holds the value exactly. Integers always use the shortest argument
// encoding. Indefinite-length containers must be allowed for the
// streaming encoder to work at all.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		ShortestFloat: cbor.ShortestFloat16,
		NaNConvert:    cbor.NaNConvert7e00,
		InfConvert:    cbor.InfConvertFloat16,
		IndefLength:   cbor.IndefLengthAllowed,
	}.EncMode()
	if err != nil {
		panic("cborstream: CBOR encoder initialization failed: " + err.Error())
	}
}
