package bloom

import "math"

const (
	// ln2 is the natural logarithm of 2.
	ln2 = 0.6931471805599453
	// ln2Squared is ln(2)^2.
	ln2Squared = 0.4804530139182014
)

// OptimalBits returns the bit-array length m that achieves the target
// false-positive rate for the expected number of insertions:
//
//	m = ceil(-n * ln(p) / ln(2)²)
//
// This is a pure function of its arguments, exposed so callers can estimate
// the memory footprint of a filter before constructing one. Arguments are
// not validated here; New rejects out-of-range configurations.
func OptimalBits(expectedInsertions uint64, fpRate float64) uint64 {
	return uint64(math.Ceil(-float64(expectedInsertions) * math.Log(fpRate) / ln2Squared))
}

// OptimalHashCount returns the hash-function count k that minimizes the
// false-positive rate for a filter of m bits holding n elements:
//
//	k = max(1, round((m/n) * ln(2)))
func OptimalHashCount(m, n uint64) uint32 {
	k := uint32(math.Round(float64(m) / float64(n) * ln2))
	return max(k, 1)
}

// estimateFalsePositiveProbability estimates the probability that all k
// probed bits are set for an identifier that was never inserted, given the
// current fill ratio: fill^k.
func estimateFalsePositiveProbability(fillRatio float64, k uint32) float64 {
	return math.Pow(fillRatio, float64(k))
}

// estimateInsertions inverts the expected fill ratio 1 - e^(-kn/m) to
// recover an approximate insertion count from an observed fill. Used to
// seed the diagnostic counter after deserialization, since the wire format
// carries only k, m and the bit array.
func estimateInsertions(m uint64, k uint32, fillRatio float64) uint64 {
	if fillRatio <= 0 {
		return 0
	}
	if fillRatio >= 1 {
		// Saturated filter; the estimate diverges, so report one element
		// per bit as a finite upper bound.
		return m
	}
	n := -float64(m) / float64(k) * math.Log(1-fillRatio)
	return uint64(math.Round(n))
}
