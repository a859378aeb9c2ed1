package bloom

import (
	"fmt"
	"math/bits"
	"sync/atomic"
)

// Filter is a bloom filter over string identifiers: a fixed m-bit array and
// k probed bit positions per operation. Every inserted identifier is always
// reported as present; an identifier that was never inserted is reported
// present with probability bounded by the configured false-positive rate
// while the filter holds at most its expected number of insertions.
//
// A Filter is safe for concurrent use. Setting a bit is idempotent and
// monotone (0→1, never back), so concurrent Insert calls commute and need no
// coordination; MightContain racing an in-flight Insert may at worst miss
// bits of that not-yet-complete insert.
//
// The bit array is never resized. To change capacity or error rate, build a
// new Filter and swap the reference.
type Filter struct {
	words    []atomic.Uint64 // bit i lives at words[i/64], mask 1<<(i%64)
	m        uint64          // bit-array length in bits
	k        uint32          // probed positions per operation
	fpRate   float64         // configured target false-positive rate
	encoding Encoding
	count    atomic.Uint64 // inserts observed, diagnostics only
}

// New creates a filter sized for the expected number of insertions and the
// target false-positive rate, using the default UTF-8 identifier encoding.
// Returns ErrInvalidConfig if expectedInsertions is zero or fpRate is
// outside (0, 1).
func New(expectedInsertions uint64, fpRate float64) (*Filter, error) {
	return NewWithEncoding(expectedInsertions, fpRate, UTF8)
}

// NewWithEncoding is New with an explicit identifier encoding. A nil
// encoding falls back to UTF8.
func NewWithEncoding(expectedInsertions uint64, fpRate float64, encoding Encoding) (*Filter, error) {
	if expectedInsertions == 0 {
		return nil, fmt.Errorf("%w: expected insertions must be positive", ErrInvalidConfig)
	}
	if fpRate <= 0 || fpRate >= 1 {
		return nil, fmt.Errorf("%w: false positive rate must be in (0, 1), got %g", ErrInvalidConfig, fpRate)
	}
	if encoding == nil {
		encoding = UTF8
	}
	m := OptimalBits(expectedInsertions, fpRate)
	k := OptimalHashCount(m, expectedInsertions)
	return newFilter(m, k, fpRate, encoding), nil
}

// newFilter builds a zeroed filter from already-validated parameters.
func newFilter(m uint64, k uint32, fpRate float64, encoding Encoding) *Filter {
	return &Filter{
		words:    make([]atomic.Uint64, (m+63)/64),
		m:        m,
		k:        k,
		fpRate:   fpRate,
		encoding: encoding,
	}
}

// Insert adds an identifier to the filter. Inserting the same identifier
// again has no further effect on the bit array. Returns ErrEmptyIdentifier
// for an empty identifier, in which case no bits are touched.
func (f *Filter) Insert(id string) error {
	if id == "" {
		return ErrEmptyIdentifier
	}
	h1, h2 := baseHashes(f.encoding.EncodeIdentifier(id))
	for i := uint32(0); i < f.k; i++ {
		pos := position(h1, h2, i, f.m)
		f.words[pos/64].Or(1 << (pos % 64))
	}
	f.count.Add(1)
	return nil
}

// InsertAll adds each identifier in order, equivalent to repeated Insert.
// It stops at the first invalid identifier; identifiers before it remain
// inserted.
func (f *Filter) InsertAll(ids []string) error {
	for _, id := range ids {
		if err := f.Insert(id); err != nil {
			return err
		}
	}
	return nil
}

// MightContain reports whether the identifier might have been inserted.
// A false result is definitive; a true result is wrong with probability
// around CurrentFalsePositiveProbability. Empty identifiers are rejected
// with ErrEmptyIdentifier, the same policy as Insert.
func (f *Filter) MightContain(id string) (bool, error) {
	if id == "" {
		return false, ErrEmptyIdentifier
	}
	h1, h2 := baseHashes(f.encoding.EncodeIdentifier(id))
	for i := uint32(0); i < f.k; i++ {
		pos := position(h1, h2, i, f.m)
		if f.words[pos/64].Load()&(1<<(pos%64)) == 0 {
			return false, nil
		}
	}
	return true, nil
}

// Bits returns the bit-array length m.
func (f *Filter) Bits() uint64 {
	return f.m
}

// K returns the number of bit positions probed per operation.
func (f *Filter) K() uint32 {
	return f.k
}

// TargetFalsePositiveRate returns the false-positive rate the filter was
// sized for.
func (f *Filter) TargetFalsePositiveRate() float64 {
	return f.fpRate
}

// ApproximateCount returns the number of Insert calls observed. Duplicate
// inserts are counted, and for a deserialized filter the value is estimated
// from the bit fill, so treat it as a diagnostic rather than a cardinality.
func (f *Filter) ApproximateCount() uint64 {
	return f.count.Load()
}

// FillRatio returns the fraction of bits currently set.
func (f *Filter) FillRatio() float64 {
	var set uint64
	for i := range f.words {
		set += uint64(bits.OnesCount64(f.words[i].Load()))
	}
	return float64(set) / float64(f.m)
}

// CurrentFalsePositiveProbability estimates the probability that
// MightContain returns true for an identifier that was never inserted,
// based on the live fill ratio (fill^k) rather than the static
// configuration. It reports roughly the configured target when the filter
// holds about its expected number of insertions, and visibly more once
// insertions exceed that capacity.
func (f *Filter) CurrentFalsePositiveProbability() float64 {
	return estimateFalsePositiveProbability(f.FillRatio(), f.k)
}

// OptimalBits returns the bit-array length a filter would need to hold the
// given number of insertions at this filter's configured false-positive
// rate. See the package-level OptimalBits for the formula.
func (f *Filter) OptimalBits(expectedInsertions uint64) uint64 {
	return OptimalBits(expectedInsertions, f.fpRate)
}
