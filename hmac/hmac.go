// kdf-go: SHA-256, HMAC and HKDF from first principles
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hmac provides HMAC-SHA256 message authentication.
//
// https://datatracker.ietf.org/doc/html/rfc2104
package hmac

import (
	"crypto/subtle"
	"errors"
	"hash"

	"github.com/dark-bio/kdf-go/sha256"
)

const (
	// Size is the size of an HMAC-SHA256 tag in bytes.
	Size = sha256.Size

	// BlockSize is the size keys are normalized to, the SHA-256 block size.
	BlockSize = sha256.BlockSize
)

const (
	ipad = 0x36
	opad = 0x5c
)

// ErrMismatch is returned when a MAC does not authenticate a message.
var ErrMismatch = errors.New("hmac: message authentication failed")

// normalize returns the key as exactly BlockSize bytes: longer keys are
// hashed first, shorter ones are zero padded on the right.
func normalize(key []byte) [BlockSize]byte {
	var out [BlockSize]byte
	if len(key) > BlockSize {
		sum := sha256.Sum256(key)
		copy(out[:], sum[:])
	} else {
		copy(out[:], key)
	}
	return out
}

// pads derives the inner and outer key pads from the key.
func pads(key []byte) (inner, outer [BlockSize]byte) {
	k := normalize(key)
	for i, b := range k {
		inner[i] = b ^ ipad
		outer[i] = b ^ opad
	}
	return inner, outer
}

// Sum computes the HMAC-SHA256 tag of the message under the key. Both key and
// message may be empty.
func Sum(key, message []byte) [Size]byte {
	inner, outer := pads(key)

	buf := make([]byte, 0, BlockSize+len(message))
	buf = append(append(buf, inner[:]...), message...)
	sum := sha256.Sum256(buf)

	buf = append(append(buf[:0], outer[:]...), sum[:]...)
	return sha256.Sum256(buf)
}

// Equal compares two MACs without leaking timing information about their
// contents.
func Equal(mac1, mac2 []byte) bool {
	return subtle.ConstantTimeCompare(mac1, mac2) == 1
}

// Verify checks that mac authenticates the message under the key.
func Verify(key, message, mac []byte) error {
	sum := Sum(key, message)
	if !Equal(sum[:], mac) {
		return ErrMismatch
	}
	return nil
}

// mac is an incremental HMAC-SHA256 built on the incremental hasher.
type mac struct {
	inner, outer hash.Hash
	ipad, opad   [BlockSize]byte
}

// New returns an incremental HMAC-SHA256 keyed with key. The key is copied,
// so the caller may reuse its buffer.
//
// Usage:
//
//	h := hmac.New(key)
//	h.Write(part1)
//	h.Write(part2)
//	tag := h.Sum(nil)
func New(key []byte) hash.Hash {
	m := &mac{
		inner: sha256.New(),
		outer: sha256.New(),
	}
	m.ipad, m.opad = pads(key)
	m.Reset()
	return m
}

func (m *mac) Write(p []byte) (int, error) { return m.inner.Write(p) }
func (m *mac) Size() int                   { return Size }
func (m *mac) BlockSize() int              { return BlockSize }

func (m *mac) Sum(in []byte) []byte {
	origLen := len(in)
	in = m.inner.Sum(in)

	m.outer.Reset()
	m.outer.Write(m.opad[:])
	m.outer.Write(in[origLen:])
	return m.outer.Sum(in[:origLen])
}

func (m *mac) Reset() {
	m.inner.Reset()
	m.inner.Write(m.ipad[:])
}
