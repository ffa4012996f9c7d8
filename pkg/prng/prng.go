// Package prng implements the deterministic, portable pseudorandom
// generator used to derive polynomial coefficients from a secret. Every
// honest node that encodes the same secret must produce byte-identical
// coefficients, so the generator is specified precisely here rather than
// left to math/rand's seed semantics (which are not guaranteed stable
// across Go versions).
package prng

import (
	"encoding/binary"
	"math/big"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20"

	"github.com/luxfi/ocioraba/pkg/field"
)

// Stream is a deterministic byte stream keyed off a field element (the
// secret). Two Streams constructed from equal secrets emit identical
// output, on any platform, forever — that stability is the whole point.
type Stream struct {
	cipher *chacha20.Cipher
}

// NewStream derives a ChaCha20 keystream from secret using BLAKE3 as the
// key-derivation hash: digest = blake3("ocioraba/coeff-prng" || secret
// bytes), key = digest[:32], nonce = digest[32:32+12] (blake3's default
// 32-byte output is extended via XOF for the nonce bytes).
func NewStream(secret field.Elem) *Stream {
	h := blake3.New()
	_, _ = h.Write([]byte("ocioraba/coeff-prng"))
	_, _ = h.Write(secret.Bytes())

	xof := h.Digest()
	key := make([]byte, chacha20.KeySize)
	nonce := make([]byte, chacha20.NonceSize)
	if _, err := xof.Read(key); err != nil {
		panic(err) // blake3's XOF reader never errors
	}
	if _, err := xof.Read(nonce); err != nil {
		panic(err)
	}

	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		panic(err) // key/nonce are fixed-size and always valid here
	}
	return &Stream{cipher: c}
}

// NextElem draws the next field element from the stream via rejection
// sampling: pull 16 raw bytes, clear the top bit so the value fits in 127
// bits, and resample on the rare case it still lands in [P, 2^127).
func (s *Stream) NextElem() field.Elem {
	buf := make([]byte, 16)
	for {
		zero := make([]byte, 16)
		s.cipher.XORKeyStream(buf, zero)
		buf[0] &= 0x7f // top bit clear: value < 2^127

		v := binary.BigEndian.Uint64(buf[8:])
		hi := binary.BigEndian.Uint64(buf[:8])
		if hi == 0x7fffffffffffffff && v == 0xffffffffffffffff {
			continue // exact value P, resample
		}
		return field.MustFromBigInt(new(big.Int).SetBytes(buf))
	}
}
