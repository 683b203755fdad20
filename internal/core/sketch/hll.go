// Package sketch implements the HyperLogLog register math used by the hll
// strategy. It is pure: no storage, no I/O. Registers live in Postgres as a
// BYTEA column; this package only decides which register an element lands in,
// what rank it writes, and how to turn a register file back into an estimate
package sketch

import (
	"math"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

const (
	// Precision is the number of index bits (p). m = 2^p one-byte registers
	Precision = 10

	// M is the register count
	M = 1 << Precision

	// q is the number of hash bits left for rank calculation
	q = 64 - Precision

	indexMask = M - 1

	// alpha is the bias correction constant for 64-bit hashes from the Ertl paper
	alpha = 0.721347520444481703680 // 0.5 / log(2)
)

// Zero returns a fresh all-zero register file
func Zero() []byte { return make([]byte, M) }

// RelativeError returns the standard error of the estimator (1.04 / sqrt(m))
func RelativeError() float64 { return 1.04 / math.Sqrt(M) }

// Position maps an element to its register index and the rank to write there.
// The low p bits of the 64-bit hash pick the register; the rank is one plus
// the count of trailing zero bits in the remainder, capped at q+1 so it always
// fits in a byte. Equal elements always land on the same (index, rank), which
// is what makes recording a view idempotent per user
func Position(element string) (index int, rank uint8) {
	h := xxhash.Sum64String(element)
	index = int(h & indexMask)
	w := h >> Precision
	if w == 0 {
		return index, uint8(q + 1)
	}
	r := bits.TrailingZeros64(w) + 1
	if r > q+1 {
		r = q + 1
	}
	return index, uint8(r)
}

// Observe merges one element into regs in place and reports whether any
// register changed. regs must have length M
func Observe(regs []byte, element string) bool {
	idx, rank := Position(element)
	if regs[idx] >= rank {
		return false
	}
	regs[idx] = rank
	return true
}

// Estimate returns the cardinality estimate for a register file using the
// Ertl estimator. A nil or empty file estimates zero. Inputs shorter than M
// are treated as if padded with zero registers
func Estimate(regs []byte) int64 {
	if len(regs) == 0 {
		return 0
	}

	// histogram of register values; the estimator only needs counts per rank
	var histo [q + 2]int
	zeroPad := M - len(regs)
	if zeroPad > 0 {
		histo[0] = zeroPad
	}
	for _, v := range regs {
		if int(v) > q+1 {
			v = q + 1
		}
		histo[v]++
	}
	if histo[0] == M {
		return 0
	}

	z := float64(M) * tau(float64(M-histo[q+1])/float64(M))
	for j := q; j >= 1; j-- {
		z += float64(histo[j])
		z *= 0.5
	}
	z += float64(M) * sigma(float64(histo[0])/float64(M))

	return int64(math.Round(alpha * float64(M) * float64(M) / z))
}

// tau estimates the contribution of saturated registers (Ertl section 5)
func tau(x float64) float64 {
	if x == 0 || x == 1 {
		return 0
	}
	var zPrev float64
	y := 1.0
	z := 1 - x
	for z != zPrev {
		x = math.Sqrt(x)
		zPrev = z
		y *= 0.5
		z -= (1 - x) * (1 - x) * y
	}
	return z / 3
}

// sigma estimates the contribution of zero registers (Ertl section 5)
func sigma(x float64) float64 {
	if x == 1 {
		return math.Inf(1)
	}
	var zPrev float64
	y := 1.0
	z := x
	for z != zPrev {
		x *= x
		zPrev = z
		z += x * y
		y += y
	}
	return z
}
