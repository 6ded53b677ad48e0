// kdf-go: SHA-256, HMAC and HKDF from first principles
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hkdf

import (
	"errors"

	"golang.org/x/crypto/cryptobyte"
)

// labelPrefix is prepended to every label, per RFC 8446 Section 7.1.
const labelPrefix = "tls13 "

// ErrLabelTooLong is returned when the prefixed label or the context does not
// fit into its one byte length prefix.
var ErrLabelTooLong = errors.New("hkdf: label or context too long")

// ExpandLabel implements HKDF-Expand-Label from TLS 1.3, expanding the secret
// into length bytes with the info set to the serialized HkdfLabel:
//
//	struct {
//	    uint16 length = Length;
//	    opaque label<7..255> = "tls13 " + Label;
//	    opaque context<0..255> = Context;
//	} HkdfLabel;
//
// https://datatracker.ietf.org/doc/html/rfc8446#section-7.1
func ExpandLabel(secret []byte, label string, context []byte, length int) ([]byte, error) {
	if err := checkLength(length); err != nil {
		return nil, err
	}
	if len(labelPrefix)+len(label) > 255 || len(context) > 255 {
		return nil, ErrLabelTooLong
	}
	var b cryptobyte.Builder
	b.AddUint16(uint16(length))
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes([]byte(labelPrefix))
		b.AddBytes([]byte(label))
	})
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(context)
	})
	info, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	return Expand(secret, info, length)
}
