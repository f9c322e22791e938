// Package mtrand implements the MT19937 Mersenne Twister used by the seeded
// random builtins. For a given seed it produces the reference MT19937
// sequence, so seeded shuffles and picks are reproducible across runs.
package mtrand

import "time"

const (
	n         = 624
	m         = 397
	matrixA   = 0x9908b0df
	upperMask = 0x80000000
	lowerMask = 0x7fffffff
)

// MaxRand is the largest value Uint31 returns.
const MaxRand = 1<<31 - 1

// Rand is an MT19937 generator. The zero value is unseeded and seeds itself
// from the clock on first use. A Rand is not safe for concurrent use.
type Rand struct {
	mt     [n]uint32
	index  int
	seeded bool
}

// New returns an unseeded generator.
func New() *Rand {
	return &Rand{index: n}
}

// NewSeeded returns a generator seeded with seed.
func NewSeeded(seed uint32) *Rand {
	r := New()
	r.Seed(seed)
	return r
}

// Seed resets the generator to the sequence for seed.
func (r *Rand) Seed(seed uint32) {
	r.mt[0] = seed
	for i := 1; i < n; i++ {
		prev := r.mt[i-1]
		r.mt[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	r.index = n
	r.seeded = true
}

// Seeded reports whether Seed has been called, explicitly or lazily.
func (r *Rand) Seeded() bool { return r.seeded }

func (r *Rand) ensureSeeded() {
	if !r.seeded {
		now := time.Now().UnixNano()
		r.Seed(uint32(now) ^ uint32(now>>32))
	}
}

// Uint32 returns the next tempered 32-bit output.
func (r *Rand) Uint32() uint32 {
	r.ensureSeeded()
	if r.index >= n {
		r.twist()
	}

	y := r.mt[r.index]
	r.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// Uint31 returns the next output shifted into [0, MaxRand].
func (r *Rand) Uint31() int64 {
	return int64(r.Uint32() >> 1)
}

// Intn returns a value in [0, bound). It panics if bound <= 0.
func (r *Rand) Intn(bound int) int {
	if bound <= 0 {
		panic("mtrand: Intn bound must be positive")
	}
	return int(uint64(r.Uint32()) % uint64(bound))
}

// Range returns a value in [lo, hi]. The bounds are swapped when lo > hi.
func (r *Rand) Range(lo, hi int64) int64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	span := uint64(hi) - uint64(lo) + 1
	if span == 0 {
		// full int64 range
		return int64(uint64(r.Uint32())<<32 | uint64(r.Uint32()))
	}
	return lo + int64(uint64(r.Uint32())%span)
}

func (r *Rand) twist() {
	for i := 0; i < n; i++ {
		y := (r.mt[i] & upperMask) | (r.mt[(i+1)%n] & lowerMask)
		v := r.mt[(i+m)%n] ^ (y >> 1)
		if y&1 != 0 {
			v ^= matrixA
		}
		r.mt[i] = v
	}
	r.index = 0
}
