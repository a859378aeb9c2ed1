// Package devicestore keeps a compact record of suspect device identifiers.
//
// The store is backed by a bloom filter: a device that was added is always
// reported as suspect, while a device that was never added is reported
// suspect with a small configurable probability. That trade buys a memory
// footprint of a few bits per device instead of the full identifier.
//
// Most callers use the process-wide instance:
//
//	store := devicestore.Shared()
//	_ = store.AddSuspectDevice("DEVICE_101")
//	suspect, _ := store.IsSuspectDevice("DEVICE_101")
//
// Capacity and error rate are fixed per filter; Reconfigure builds a fresh
// filter and swaps it in atomically rather than resizing in place.
package devicestore

import (
	"sync/atomic"

	"github.com/madhuripc/DeviceService/bloom"
)

// Defaults used by the shared instance and by zero-valued Config fields.
const (
	DefaultExpectedDevices   = 10_000_000
	DefaultFalsePositiveRate = 0.01
)

// Store records suspect devices and answers membership queries. It is safe
// for concurrent use; see the bloom package for the exact consistency
// guarantees between concurrent adds and checks.
type Store struct {
	filter atomic.Pointer[bloom.Filter]
}

// New creates a store sized for the expected number of suspect devices at
// the given false-positive rate.
func New(expectedDevices uint64, fpRate float64) (*Store, error) {
	f, err := bloom.New(expectedDevices, fpRate)
	if err != nil {
		return nil, err
	}
	s := &Store{}
	s.filter.Store(f)
	return s, nil
}

// AddSuspectDevice records a device as suspect. The device UID must not be
// empty.
func (s *Store) AddSuspectDevice(deviceUID string) error {
	return s.filter.Load().Insert(deviceUID)
}

// AddAllSuspectDevices records each device in order, equivalent to repeated
// AddSuspectDevice. It stops at the first invalid UID; devices before it
// remain recorded.
func (s *Store) AddAllSuspectDevices(deviceUIDs []string) error {
	return s.filter.Load().InsertAll(deviceUIDs)
}

// IsSuspectDevice reports whether a device might be suspect. A false result
// is definitive; a true result is wrong with probability around
// FalsePositiveProbability.
func (s *Store) IsSuspectDevice(deviceUID string) (bool, error) {
	return s.filter.Load().MightContain(deviceUID)
}

// FalsePositiveProbability estimates the probability of erroneously
// reporting a device as suspect, based on the filter's current saturation.
func (s *Store) FalsePositiveProbability() float64 {
	return s.filter.Load().CurrentFalsePositiveProbability()
}

// OptimalBits returns the number of filter bits needed to hold the given
// number of devices at the store's configured false-positive rate. Useful
// for capacity planning before a Reconfigure.
func (s *Store) OptimalBits(expectedDevices uint64) uint64 {
	return s.filter.Load().OptimalBits(expectedDevices)
}

// Reconfigure replaces the filter with a fresh one sized for the new
// parameters. All previously recorded devices are forgotten. The swap is
// atomic: every concurrent caller sees either the old filter or the new
// one, never a partially built state.
func (s *Store) Reconfigure(expectedDevices uint64, fpRate float64) error {
	f, err := bloom.New(expectedDevices, fpRate)
	if err != nil {
		return err
	}
	s.filter.Store(f)
	return nil
}
