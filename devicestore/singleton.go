package devicestore

import "sync"

var (
	sharedOnce  sync.Once
	sharedStore *Store
)

// Shared returns the process-wide store, created on first use with
// DefaultExpectedDevices and DefaultFalsePositiveRate. Repeated calls
// return the same instance; Reconfigure or ReadSnapshot on it take effect
// for every caller because the underlying filter reference is swapped
// atomically.
func Shared() *Store {
	sharedOnce.Do(func() {
		s, err := New(DefaultExpectedDevices, DefaultFalsePositiveRate)
		if err != nil {
			// The defaults are compile-time constants New accepts.
			panic(err)
		}
		sharedStore = s
	})
	return sharedStore
}
