// Package bloom implements a bloom filter over string identifiers.
//
// A bloom filter is a space-efficient probabilistic set: it answers "was this
// identifier inserted?" with no false negatives and a bounded, configurable
// false-positive rate. If [Filter.MightContain] returns false the identifier
// was definitely never inserted; if it returns true the identifier was
// probably inserted, but might not have been.
//
// # Sizing
//
// [New] derives the bit-array length m and hash count k from the expected
// number of insertions n and the target false-positive probability p using
// the standard closed-form optima:
//
//	m = ceil(-n * ln(p) / ln(2)²)
//	k = max(1, round((m/n) * ln(2)))
//
// A filter sized for (n, p) stays near p while it holds at most n elements
// and degrades gracefully beyond that. [OptimalBits] exposes the sizing math
// so callers can estimate memory footprint up front.
//
// # Hashing
//
// Each operation computes a single 128-bit xxh3 hash of the encoded
// identifier and derives all k bit positions from its two 64-bit halves via
// double hashing:
//
//	position_i = (h1 + i*h2) mod m
//
// This keeps insert and lookup cost at O(k) with one hash computation per
// operation while matching the false-positive behavior of k independent
// hash functions.
//
// # Concurrency
//
// A [Filter] is safe for concurrent use. Bits are set with atomic OR and
// read with atomic loads; since setting a bit is idempotent and monotone,
// concurrent inserts need no locking. Growing a filter is not supported —
// build a new one and swap the reference.
//
// # Serialization
//
// [Filter.MarshalBinary] produces a compact fixed binary layout (a version
// tag, k, m, and the packed bit array) rather than a generic object dump.
// [UnmarshalBinary] restores a filter that answers every MightContain query
// identically to the original.
package bloom
