// kdf-go: SHA-256, HMAC and HKDF from first principles
// Copyright 2025 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hkdf provides HKDF-SHA256 key derivation.
//
// https://datatracker.ietf.org/doc/html/rfc5869
package hkdf

import (
	"errors"
	"hash"
	"io"

	"github.com/dark-bio/kdf-go/hmac"
)

const (
	// PRKSize is the size of the pseudorandom key produced by Extract.
	PRKSize = hmac.Size

	// MaxLength is the maximum output length for SHA-256 HKDF, which is
	// 255 * 32 = 8160 bytes. The block counter is a single byte.
	MaxLength = 255 * hmac.Size
)

// Error types for HKDF derivation failures
var (
	ErrInvalidLength = errors.New("hkdf: negative output length")
	ErrOutputTooLong = errors.New("hkdf: output length exceeds 255 blocks")
)

// Derive extracts a pseudorandom key from the input keying material and salt,
// then expands it with info into length bytes of output keying material. The
// salt and info may be nil or empty.
//
// A zero length yields an empty result. Lengths above MaxLength are rejected
// with ErrOutputTooLong.
func Derive(length int, ikm, salt, info []byte) ([]byte, error) {
	if err := checkLength(length); err != nil {
		return nil, err
	}
	prk := Extract(salt, ikm)
	return Expand(prk[:], info, length)
}

// Key derives a key of length n from the secret, salt, and info using
// HKDF-SHA256. The salt and info may be nil or empty.
//
// Panics if n is negative or exceeds MaxLength.
func Key(secret, salt, info []byte, n int) []byte {
	out, err := Derive(n, secret, salt, info)
	if err != nil {
		panic(err.Error())
	}
	return out
}

// Extract computes the pseudorandom key HMAC(salt, ikm). An empty salt is
// replaced by PRKSize zero bytes.
func Extract(salt, ikm []byte) [PRKSize]byte {
	if len(salt) == 0 {
		salt = make([]byte, PRKSize)
	}
	return hmac.Sum(salt, ikm)
}

// Expand stretches a pseudorandom key into length bytes of output keying
// material bound to info:
//
//	T(0) = empty
//	T(i) = HMAC(prk, T(i-1) || info || i)
//	OKM  = first length bytes of T(1) || T(2) || ... || T(N)
func Expand(prk, info []byte, length int) ([]byte, error) {
	if err := checkLength(length); err != nil {
		return nil, err
	}
	n := (length + hmac.Size - 1) / hmac.Size

	okm := make([]byte, 0, n*hmac.Size)
	buf := make([]byte, 0, hmac.Size+len(info)+1)

	var prev []byte
	for i := 1; i <= n; i++ {
		buf = append(append(append(buf[:0], prev...), info...), byte(i))
		t := hmac.Sum(prk, buf)

		okm = append(okm, t[:]...)
		prev = okm[len(okm)-hmac.Size:]
	}
	return okm[:length], nil
}

// checkLength rejects output lengths the one byte block counter cannot reach.
func checkLength(length int) error {
	switch {
	case length < 0:
		return ErrInvalidLength
	case length > MaxLength:
		return ErrOutputTooLong
	}
	return nil
}

// reader streams output keying material block by block.
type reader struct {
	expander hash.Hash

	info    []byte
	counter int

	prev  []byte
	cache []byte
}

// New returns a reader streaming the output keying material derived from the
// secret, salt and info. Reads that would take the total output past
// MaxLength fail with ErrOutputTooLong without consuming anything.
func New(secret, salt, info []byte) io.Reader {
	prk := Extract(salt, secret)

	return &reader{
		expander: hmac.New(prk[:]),
		info:     append([]byte(nil), info...),
		counter:  1,
	}
}

func (r *reader) Read(p []byte) (int, error) {
	need := len(p)
	if remains := len(r.cache) + (256-r.counter)*hmac.Size; remains < need {
		return 0, ErrOutputTooLong
	}
	n := copy(p, r.cache)
	p = p[n:]

	for len(p) > 0 {
		r.expander.Reset()
		r.expander.Write(r.prev)
		r.expander.Write(r.info)
		r.expander.Write([]byte{byte(r.counter)})
		r.prev = r.expander.Sum(r.prev[:0])
		r.counter++

		r.cache = r.prev
		n = copy(p, r.cache)
		p = p[n:]
	}
	r.cache = r.cache[n:]
	return need, nil
}
