package devicestore

import "errors"

var (
	// ErrCorruptSnapshot is returned by ReadSnapshot when the data fails
	// its checksum or cannot be decoded. The store keeps its current
	// filter in that case.
	ErrCorruptSnapshot = errors.New("devicestore: corrupt snapshot")

	// ErrInvalidConfigFile is returned by LoadConfig for unparseable
	// configuration data.
	ErrInvalidConfigFile = errors.New("devicestore: invalid config file")
)
