// kdf-go: SHA-256, HMAC and HKDF from first principles
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sha256 implements the SHA-256 hash function.
//
// https://nvlpubs.nist.gov/nistpubs/FIPS/NIST.FIPS.180-4.pdf
//
// Messages are limited to 2^64-1 bits (the width of the length field appended
// during padding). Hashing anything longer panics rather than truncating the
// length.
package sha256

import (
	"encoding/binary"
	"errors"
	"hash"
	"math/bits"
)

const (
	// Size is the size of a SHA-256 digest in bytes.
	Size = 32

	// BlockSize is the size of a SHA-256 block in bytes.
	BlockSize = 64
)

// maxLength is the longest message in bytes whose bit length still fits into
// the 64 bit length field.
const maxLength = 1<<61 - 1

// iv is the initial chaining state, the first 32 bits of the fractional parts
// of the square roots of the first 8 primes.
var iv = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// k holds the round constants, the first 32 bits of the fractional parts of
// the cube roots of the first 64 primes.
var k = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// ErrInvalidState is returned when unmarshalling a malformed hash state.
var ErrInvalidState = errors.New("sha256: invalid hash state")

// Sum256 returns the SHA-256 digest of the message.
func Sum256(message []byte) [Size]byte {
	if uint64(len(message)) > maxLength {
		panic("sha256: message too long")
	}
	padded := pad(message)

	h := iv
	block(&h, padded)
	return digest(&h)
}

// pad appends the FIPS 180-4 padding to a copy of the message: a single 1 bit,
// the minimum number of 0 bits, then the message bit length as a big-endian
// uint64, so the result is a whole number of blocks.
func pad(message []byte) []byte {
	// Room for the 0x80 marker and the length, rounded up to the next block
	n := (len(message) + 1 + 8 + BlockSize - 1) / BlockSize * BlockSize

	padded := make([]byte, n)
	copy(padded, message)
	padded[len(message)] = 0x80
	binary.BigEndian.PutUint64(padded[n-8:], uint64(len(message))<<3)

	if len(padded)%BlockSize != 0 {
		panic("sha256: padded length not a multiple of the block size")
	}
	return padded
}

// block folds every whole block of p into the chaining state h, in order.
func block(h *[8]uint32, p []byte) {
	var w [64]uint32
	for len(p) >= BlockSize {
		// Message schedule: 16 big-endian words, expanded to 64
		for i := 0; i < 16; i++ {
			w[i] = binary.BigEndian.Uint32(p[i*4:])
		}
		for i := 16; i < 64; i++ {
			v1 := w[i-15]
			s0 := bits.RotateLeft32(v1, -7) ^ bits.RotateLeft32(v1, -18) ^ (v1 >> 3)
			v2 := w[i-2]
			s1 := bits.RotateLeft32(v2, -17) ^ bits.RotateLeft32(v2, -19) ^ (v2 >> 10)
			w[i] = w[i-16] + s0 + w[i-7] + s1
		}
		a, b, c, d, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]

		for i := 0; i < 64; i++ {
			s1 := bits.RotateLeft32(e, -6) ^ bits.RotateLeft32(e, -11) ^ bits.RotateLeft32(e, -25)
			ch := (e & f) ^ (^e & g)
			t1 := hh + s1 + ch + k[i] + w[i]

			s0 := bits.RotateLeft32(a, -2) ^ bits.RotateLeft32(a, -13) ^ bits.RotateLeft32(a, -22)
			maj := (a & b) ^ (a & c) ^ (b & c)
			t2 := s0 + maj

			hh, g, f, e = g, f, e, d+t1
			d, c, b, a = c, b, a, t1+t2
		}
		h[0] += a
		h[1] += b
		h[2] += c
		h[3] += d
		h[4] += e
		h[5] += f
		h[6] += g
		h[7] += hh

		p = p[BlockSize:]
	}
}

// digest serializes the chaining state as big-endian words.
func digest(h *[8]uint32) [Size]byte {
	var out [Size]byte
	for i, s := range h {
		binary.BigEndian.PutUint32(out[i*4:], s)
	}
	return out
}

// Digest is an incremental SHA-256 hasher. Full blocks are compressed as they
// arrive, at most one partial block is buffered.
type Digest struct {
	h   [8]uint32
	x   [BlockSize]byte
	nx  int
	len uint64
}

var _ hash.Hash = (*Digest)(nil)

// New returns an incremental SHA-256 hasher. Feeding it a message in any
// number of writes and calling Sum yields the same digest as Sum256.
func New() hash.Hash {
	d := new(Digest)
	d.Reset()
	return d
}

// Reset restores the initial chaining state.
func (d *Digest) Reset() {
	d.h = iv
	d.nx = 0
	d.len = 0
}

// Size returns the digest length, 32 bytes.
func (d *Digest) Size() int { return Size }

// BlockSize returns the block length, 64 bytes.
func (d *Digest) BlockSize() int { return BlockSize }

// Write absorbs p into the hash state. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	nn := len(p)
	if uint64(nn) > maxLength-d.len {
		panic("sha256: message too long")
	}
	d.len += uint64(nn)

	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize {
			block(&d.h, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= BlockSize {
		n := len(p) &^ (BlockSize - 1)
		block(&d.h, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return nn, nil
}

// Sum appends the digest of everything written so far to in. The running
// state is left untouched, so writing may continue afterwards.
func (d *Digest) Sum(in []byte) []byte {
	h := d.h

	// The padding of the buffered tail spans one or two blocks
	tail := pad(d.x[:d.nx])
	binary.BigEndian.PutUint64(tail[len(tail)-8:], d.len<<3)
	block(&h, tail)

	out := digest(&h)
	return append(in, out[:]...)
}

const (
	magic         = "sha\x03"
	marshaledSize = len(magic) + 8*4 + BlockSize + 8
)

// MarshalBinary snapshots the running hash state. The layout matches the one
// used by crypto/sha256, so states can be exchanged between the two.
func (d *Digest) MarshalBinary() ([]byte, error) {
	return d.AppendBinary(make([]byte, 0, marshaledSize))
}

// AppendBinary appends the running hash state snapshot to b.
func (d *Digest) AppendBinary(b []byte) ([]byte, error) {
	b = append(b, magic...)
	for _, s := range d.h {
		b = binary.BigEndian.AppendUint32(b, s)
	}
	b = append(b, d.x[:d.nx]...)
	b = append(b, make([]byte, BlockSize-d.nx)...)
	b = binary.BigEndian.AppendUint64(b, d.len)
	return b, nil
}

// UnmarshalBinary restores a hash state produced by MarshalBinary.
func (d *Digest) UnmarshalBinary(b []byte) error {
	if len(b) != marshaledSize || string(b[:len(magic)]) != magic {
		return ErrInvalidState
	}
	b = b[len(magic):]

	var h [8]uint32
	for i := range h {
		h[i] = binary.BigEndian.Uint32(b)
		b = b[4:]
	}
	var x [BlockSize]byte
	copy(x[:], b[:BlockSize])
	b = b[BlockSize:]

	length := binary.BigEndian.Uint64(b)
	if length > maxLength {
		return ErrInvalidState
	}
	d.h, d.x, d.len = h, x, length
	d.nx = int(length % BlockSize)
	return nil
}
