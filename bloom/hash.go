package bloom

import "github.com/zeebo/xxh3"

// baseHashes computes the two 64-bit base hash values used for double
// hashing. The two halves of a single xxh3 128-bit hash are well distributed
// and independent of each other, so one pass over the input yields both.
func baseHashes(data []byte) (h1, h2 uint64) {
	h := xxh3.Hash128(data)
	return h.Lo, h.Hi
}

// position derives the i-th probed bit position in [0, m) via double
// hashing:
//
//	position_i = (h1 + i*h2) mod m
//
// The combination runs in uint64 arithmetic: overflow wraps mod 2^64, which
// is itself congruent under the final reduction, so the result lands in
// [0, m) without any sign normalization.
func position(h1, h2 uint64, i uint32, m uint64) uint64 {
	return (h1 + uint64(i)*h2) % m
}
