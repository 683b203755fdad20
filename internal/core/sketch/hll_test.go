package sketch

import (
	"bytes"
	"fmt"
	"math"
	"testing"
)

func TestPositionIsDeterministic(t *testing.T) {
	i1, r1 := Position("user-7")
	i2, r2 := Position("user-7")
	if i1 != i2 || r1 != r2 {
		t.Fatalf("same element produced different positions: (%d,%d) vs (%d,%d)", i1, r1, i2, r2)
	}
	if i1 < 0 || i1 >= M {
		t.Fatalf("index %d out of range [0,%d)", i1, M)
	}
	if r1 < 1 || int(r1) > q+1 {
		t.Fatalf("rank %d out of range [1,%d]", r1, q+1)
	}
}

func TestObserveIsIdempotent(t *testing.T) {
	regs := Zero()
	if !Observe(regs, "user-7") {
		t.Fatalf("first observation should change a register")
	}
	snapshot := bytes.Clone(regs)

	for i := 0; i < 10; i++ {
		if Observe(regs, "user-7") {
			t.Fatalf("repeat observation %d changed a register", i)
		}
	}
	if !bytes.Equal(regs, snapshot) {
		t.Fatalf("registers drifted under repeat observations")
	}
	if got := Estimate(regs); got != 1 {
		t.Fatalf("single element should estimate 1, got %d", got)
	}
}

func TestEstimateEmpty(t *testing.T) {
	if got := Estimate(nil); got != 0 {
		t.Fatalf("nil registers should estimate 0, got %d", got)
	}
	if got := Estimate([]byte{}); got != 0 {
		t.Fatalf("empty registers should estimate 0, got %d", got)
	}
	if got := Estimate(Zero()); got != 0 {
		t.Fatalf("all zero registers should estimate 0, got %d", got)
	}
}

func TestEstimateShortInputPadsWithZeros(t *testing.T) {
	// a truncated register file reads as if the tail were all zeros
	full := Zero()
	Observe(full, "user-1")

	// find where the register landed so we can keep it in the short slice
	idx, _ := Position("user-1")
	short := bytes.Clone(full[:idx+1])

	if got, want := Estimate(short), Estimate(full); got != want {
		t.Fatalf("short input estimate %d, full input estimate %d", got, want)
	}
}

func TestEstimateSmallCardinalitiesAreExact(t *testing.T) {
	// well under m the estimator behaves like linear counting and should be
	// spot on for handfuls of elements
	for _, n := range []int{1, 2, 5, 10, 25} {
		regs := Zero()
		for i := 0; i < n; i++ {
			Observe(regs, fmt.Sprintf("user-%d", i))
		}
		got := Estimate(regs)
		if got < int64(n)-1 || got > int64(n)+1 {
			t.Fatalf("n=%d estimated %d", n, got)
		}
	}
}

func TestEstimateWithinErrorBound(t *testing.T) {
	const n = 10000
	regs := Zero()
	for i := 0; i < n; i++ {
		Observe(regs, fmt.Sprintf("element-%d", i))
	}

	got := Estimate(regs)
	tolerance := 3 * RelativeError() * float64(n)
	if diff := math.Abs(float64(got) - n); diff > tolerance {
		t.Fatalf("estimated %d for %d distinct elements, off by %.0f (tolerance %.0f)", got, n, diff, tolerance)
	}
}

func TestEstimateUnchangedByDuplicateRounds(t *testing.T) {
	elements := make([]string, 500)
	for i := range elements {
		elements[i] = fmt.Sprintf("viewer-%d", i)
	}

	once := Zero()
	for _, e := range elements {
		Observe(once, e)
	}

	many := Zero()
	for round := 0; round < 5; round++ {
		for _, e := range elements {
			Observe(many, e)
		}
	}

	if a, b := Estimate(once), Estimate(many); a != b {
		t.Fatalf("duplicate rounds moved the estimate: %d vs %d", a, b)
	}
}

func TestRelativeError(t *testing.T) {
	want := 1.04 / math.Sqrt(float64(M))
	if got := RelativeError(); math.Abs(got-want) > 1e-12 {
		t.Fatalf("relative error %v, want %v", got, want)
	}
}
