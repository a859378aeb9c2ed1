package bloom

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
)

const (
	// serializeVersion is the current serialization format version.
	serializeVersion byte = 1

	// headerSize is the serialization header in bytes:
	// version (1) + k (4, big-endian uint32) + m (8, big-endian uint64).
	headerSize = 13

	// maxBits bounds m on decode so a corrupt header cannot drive a huge
	// allocation or overflow the length arithmetic.
	maxBits = uint64(1) << 50
)

// MarshalBinary serializes the filter to its compact binary form:
//
//	[ version: 1 byte ]
//	[ k: 4 bytes, big-endian ]
//	[ m: 8 bytes, big-endian ]
//	[ bit array: ceil(m/8) bytes, bits packed big-endian within each byte ]
//
// The encoding and the target false-positive rate are not part of the
// format; they are conventions of the version tag. Serializing while
// concurrent inserts are in flight yields a valid filter that may miss bits
// from inserts that had not completed.
func (f *Filter) MarshalBinary() ([]byte, error) {
	byteLen := (f.m + 7) / 8
	buf := make([]byte, headerSize+byteLen)

	buf[0] = serializeVersion
	binary.BigEndian.PutUint32(buf[1:5], f.k)
	binary.BigEndian.PutUint64(buf[5:13], f.m)

	// Words store bit i at mask 1<<(i%64); the wire format wants bit 8j+r
	// at mask 0x80>>r of byte j, which is exactly a per-byte bit reversal.
	for j := uint64(0); j < byteLen; j++ {
		raw := byte(f.words[j/8].Load() >> ((j % 8) * 8))
		buf[headerSize+j] = bits.Reverse8(raw)
	}

	return buf, nil
}

// UnmarshalBinary restores a filter from its serialized form. The restored
// filter answers every MightContain query identically to the one that was
// serialized. Truncated or internally inconsistent data is rejected with
// ErrCorruptData; an unknown version tag with ErrUnsupportedVersion.
func UnmarshalBinary(data []byte) (*Filter, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrCorruptData, len(data), headerSize)
	}
	if v := data[0]; v != serializeVersion {
		return nil, fmt.Errorf("%w: got version %d, want %d", ErrUnsupportedVersion, v, serializeVersion)
	}

	k := binary.BigEndian.Uint32(data[1:5])
	m := binary.BigEndian.Uint64(data[5:13])
	if k == 0 {
		return nil, fmt.Errorf("%w: hash count is zero", ErrCorruptData)
	}
	if m == 0 {
		return nil, fmt.Errorf("%w: bit-array length is zero", ErrCorruptData)
	}
	if m > maxBits {
		return nil, fmt.Errorf("%w: bit-array length %d exceeds %d", ErrCorruptData, m, maxBits)
	}

	byteLen := (m + 7) / 8
	if uint64(len(data)) != headerSize+byteLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %d bits", ErrCorruptData, len(data), headerSize+byteLen, m)
	}
	// Padding bits past m in the final byte must be zero, otherwise the
	// declared m and the bit array disagree about the filter's contents.
	if pad := byteLen*8 - m; pad > 0 {
		if data[len(data)-1]&byte((1<<pad)-1) != 0 {
			return nil, fmt.Errorf("%w: nonzero padding past bit %d", ErrCorruptData, m)
		}
	}

	// The format does not carry the configured target rate; 2^-k is the
	// target implied by an optimally sized filter with k hash functions.
	f := newFilter(m, k, math.Exp2(-float64(k)), UTF8)
	for j := uint64(0); j < byteLen; j++ {
		raw := bits.Reverse8(data[headerSize+j])
		if raw != 0 {
			f.words[j/8].Or(uint64(raw) << ((j % 8) * 8))
		}
	}
	f.count.Store(estimateInsertions(m, k, f.FillRatio()))

	return f, nil
}
