package bloom

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
)

// contains is a test helper for the common case where the identifier is
// known to be valid.
func contains(t *testing.T, f *Filter, id string) bool {
	t.Helper()
	ok, err := f.MightContain(id)
	if err != nil {
		t.Fatalf("MightContain(%q): %v", id, err)
	}
	return ok
}

func TestFilterBasic(t *testing.T) {
	f, err := New(1000, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, id := range []string{"hello", "world", "DEVICE_101"} {
		if err := f.Insert(id); err != nil {
			t.Fatalf("Insert(%q): %v", id, err)
		}
		if !contains(t, f, id) {
			t.Errorf("expected %q to be present", id)
		}
	}

	if contains(t, f, "notpresent") {
		t.Log("warning: false positive for 'notpresent'")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(0, 0.01); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New(0, 0.01) error = %v, want ErrInvalidConfig", err)
	}
	for _, p := range []float64{0, 1, -0.5, 1.5} {
		if _, err := New(100, p); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("New(100, %g) error = %v, want ErrInvalidConfig", p, err)
		}
	}
}

func TestEmptyIdentifierRejected(t *testing.T) {
	f, err := New(100, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := f.Insert(""); !errors.Is(err, ErrEmptyIdentifier) {
		t.Errorf("Insert(\"\") error = %v, want ErrEmptyIdentifier", err)
	}
	if _, err := f.MightContain(""); !errors.Is(err, ErrEmptyIdentifier) {
		t.Errorf("MightContain(\"\") error = %v, want ErrEmptyIdentifier", err)
	}

	// Rejected input must not touch the bit array.
	if got := f.FillRatio(); got != 0 {
		t.Errorf("fill ratio after rejected inserts = %g, want 0", got)
	}
	if got := f.ApproximateCount(); got != 0 {
		t.Errorf("count after rejected inserts = %d, want 0", got)
	}
}

func TestInsertAll(t *testing.T) {
	f, err := New(100, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ids := []string{"a", "b", "c", "d"}
	if err := f.InsertAll(ids); err != nil {
		t.Fatalf("InsertAll: %v", err)
	}
	for _, id := range ids {
		if !contains(t, f, id) {
			t.Errorf("expected %q to be present", id)
		}
	}
}

func TestInsertAllStopsAtInvalid(t *testing.T) {
	f, err := New(100, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = f.InsertAll([]string{"before", "", "after"})
	if !errors.Is(err, ErrEmptyIdentifier) {
		t.Fatalf("InsertAll error = %v, want ErrEmptyIdentifier", err)
	}
	if !contains(t, f, "before") {
		t.Error("identifier before the invalid one should remain inserted")
	}
	if f.ApproximateCount() != 1 {
		t.Errorf("count = %d, want 1", f.ApproximateCount())
	}
}

func TestNoFalseNegatives(t *testing.T) {
	f, err := New(10000, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := range 10000 {
		if err := f.Insert(fmt.Sprintf("DEVICE_%d", i)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	for i := range 10000 {
		if !contains(t, f, fmt.Sprintf("DEVICE_%d", i)) {
			t.Fatalf("false negative for DEVICE_%d", i)
		}
	}
}

func TestInsertIdempotent(t *testing.T) {
	f, err := New(1000, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := f.Insert("DEVICE_42"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	once, err := f.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	for range 10 {
		if err := f.Insert("DEVICE_42"); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	many, err := f.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	if !bytes.Equal(once, many) {
		t.Error("repeated insert of the same identifier changed the bit array")
	}
}

func TestOrderIndependence(t *testing.T) {
	ids := make([]string, 500)
	for i := range ids {
		ids[i] = fmt.Sprintf("DEVICE_%d", i)
	}

	forward, err := New(1000, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := forward.InsertAll(ids); err != nil {
		t.Fatalf("InsertAll: %v", err)
	}

	shuffled, err := New(1000, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	perm := rand.New(rand.NewSource(1)).Perm(len(ids))
	for _, i := range perm {
		if err := shuffled.Insert(ids[i]); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	a, _ := forward.MarshalBinary()
	b, _ := shuffled.MarshalBinary()
	if !bytes.Equal(a, b) {
		t.Error("insertion order changed the final bit array")
	}
}

func TestFalsePositiveRateNearCapacity(t *testing.T) {
	const (
		expected = 10000
		target   = 0.01
	)

	f, err := New(expected, target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := range expected {
		if err := f.Insert(fmt.Sprintf("DEVICE_%d", i)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	// Probe with a disjoint set. The measured rate is statistical; allow a
	// 2x margin over the configured target.
	const probes = 20000
	var falsePositives int
	for i := range probes {
		if contains(t, f, fmt.Sprintf("PROBE_%d", i)) {
			falsePositives++
		}
	}

	rate := float64(falsePositives) / probes
	if rate > target*2 {
		t.Errorf("false positive rate %.4f exceeds 2x target %.4f", rate, target)
	}
	t.Logf("measured FP rate: %.4f (target %.4f, m=%d, k=%d)", rate, target, f.Bits(), f.K())
}

func TestCurrentFalsePositiveProbability(t *testing.T) {
	const target = 0.01
	f, err := New(1000, target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := f.CurrentFalsePositiveProbability(); got != 0 {
		t.Errorf("empty filter FPP = %g, want 0", got)
	}

	// At capacity the fill-based estimate should sit near the target.
	for i := range 1000 {
		if err := f.Insert(fmt.Sprintf("DEVICE_%d", i)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	got := f.CurrentFalsePositiveProbability()
	if got < target/2 || got > target*2 {
		t.Errorf("FPP at capacity = %g, want within 2x of %g", got, target)
	}
}

func TestDegradationBeyondCapacity(t *testing.T) {
	const target = 0.01
	f, err := New(1000, target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// 10x the configured capacity.
	for i := range 10000 {
		if err := f.Insert(fmt.Sprintf("DEVICE_%d", i)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	if got := f.CurrentFalsePositiveProbability(); got <= target {
		t.Errorf("FPP at 10x capacity = %g, want > %g", got, target)
	}
}

func TestConcurrentInsert(t *testing.T) {
	f, err := New(100000, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const numGoroutines = 8
	const itemsPerGoroutine = 10000

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for g := range numGoroutines {
		go func(g int) {
			defer wg.Done()
			for i := range itemsPerGoroutine {
				if err := f.Insert(fmt.Sprintf("g%d-device-%d", g, i)); err != nil {
					t.Errorf("Insert: %v", err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	var missing int
	for g := range numGoroutines {
		for i := range itemsPerGoroutine {
			if !contains(t, f, fmt.Sprintf("g%d-device-%d", g, i)) {
				missing++
			}
		}
	}
	if missing > 0 {
		t.Errorf("%d identifiers missing after concurrent inserts", missing)
	}

	if got := f.ApproximateCount(); got != numGoroutines*itemsPerGoroutine {
		t.Errorf("count = %d, want %d", got, numGoroutines*itemsPerGoroutine)
	}
}

func TestConcurrentInsertAndCheck(t *testing.T) {
	f, err := New(100000, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := range 1000 {
		if err := f.Insert(fmt.Sprintf("prepop-%d", i)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	const numGoroutines = 4
	const ops = 10000

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2)
	for g := range numGoroutines {
		go func(g int) {
			defer wg.Done()
			for i := range ops {
				_ = f.Insert(fmt.Sprintf("write-g%d-%d", g, i))
			}
		}(g)
		go func(g int) {
			defer wg.Done()
			for i := range ops {
				// Prepopulated identifiers must always be present.
				ok, err := f.MightContain(fmt.Sprintf("prepop-%d", i%1000))
				if err != nil || !ok {
					t.Errorf("prepop-%d: ok=%v err=%v", i%1000, ok, err)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestCustomEncoding(t *testing.T) {
	// An encoding that maps distinct identifiers to the same bytes makes
	// them indistinguishable to the filter — the filter only ever sees the
	// encoded form.
	constant := encodingFunc(func(string) []byte { return []byte("same") })

	f, err := NewWithEncoding(100, 0.01, constant)
	if err != nil {
		t.Fatalf("NewWithEncoding: %v", err)
	}
	if err := f.Insert("first"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !contains(t, f, "completely-different") {
		t.Error("identifiers with identical encodings should be indistinguishable")
	}
}

type encodingFunc func(string) []byte

func (fn encodingFunc) EncodeIdentifier(id string) []byte { return fn(id) }
