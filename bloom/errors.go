package bloom

import "errors"

// Sentinel errors for programmatic handling. Callers can use errors.Is to
// distinguish caller mistakes (ErrInvalidConfig, ErrEmptyIdentifier) from
// unusable serialized data (ErrCorruptData, ErrUnsupportedVersion).
var (
	// ErrInvalidConfig is returned by New for a non-positive expected
	// insertion count or a false-positive rate outside (0, 1).
	ErrInvalidConfig = errors.New("bloom: invalid filter configuration")

	// ErrEmptyIdentifier is returned by Insert and MightContain for an
	// empty identifier. The filter state is never touched in that case.
	ErrEmptyIdentifier = errors.New("bloom: identifier must not be empty")

	// ErrCorruptData is returned by UnmarshalBinary when the serialized
	// data is truncated or internally inconsistent.
	ErrCorruptData = errors.New("bloom: corrupt serialized data")

	// ErrUnsupportedVersion is returned by UnmarshalBinary when the
	// version tag is not recognized.
	ErrUnsupportedVersion = errors.New("bloom: unsupported serialization version")
)
