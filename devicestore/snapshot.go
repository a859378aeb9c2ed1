// Snapshot persistence for the store.
//
// A snapshot is the filter's compact binary form, zstd-compressed and
// prefixed with a blake2b-256 checksum of the compressed payload. The store
// only produces and consumes the byte stream; where it lives (file, blob
// store, database) is the caller's concern.
package devicestore

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	"github.com/madhuripc/DeviceService/bloom"
)

// Shared encoder/decoder, both documented as safe for concurrent use.
// Constructed once because zstd encoder/decoder setup is expensive relative
// to compressing a single filter.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// WriteSnapshot writes the current filter state to w. Adds running
// concurrently with the snapshot may or may not be included; the written
// snapshot is always a valid filter.
func (s *Store) WriteSnapshot(w io.Writer) error {
	raw, err := s.filter.Load().MarshalBinary()
	if err != nil {
		return err
	}

	compressed := zstdEncoder.EncodeAll(raw, nil)
	sum := blake2b.Sum256(compressed)

	if _, err := w.Write(sum[:]); err != nil {
		return err
	}
	_, err = w.Write(compressed)
	return err
}

// ReadSnapshot restores the store from a snapshot previously produced by
// WriteSnapshot, atomically replacing the current filter. On any error the
// current filter is left untouched. Checksum, decompression and decode
// failures are reported as ErrCorruptSnapshot.
func (s *Store) ReadSnapshot(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(data) < blake2b.Size256 {
		return fmt.Errorf("%w: %d bytes is shorter than the checksum", ErrCorruptSnapshot, len(data))
	}

	compressed := data[blake2b.Size256:]
	if sum := blake2b.Sum256(compressed); !bytes.Equal(sum[:], data[:blake2b.Size256]) {
		return fmt.Errorf("%w: checksum mismatch", ErrCorruptSnapshot)
	}

	raw, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return fmt.Errorf("%w: zstd: %w", ErrCorruptSnapshot, err)
	}

	f, err := bloom.UnmarshalBinary(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	s.filter.Store(f)
	return nil
}
