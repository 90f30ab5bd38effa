package aqua

import (
	"math"
	"math/rand/v2"
	"sync"
)

// random is the process-wide generator behind every draw in this package.
// It is seeded once and never reseeded.
var random = &lockedRand{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}

// lockedRand serialises access to a *rand.Rand, which is not safe for
// concurrent use on its own.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) intN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) uint64N(n uint64) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Uint64N(n)
}

func (l *lockedRand) float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) normFloat64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.NormFloat64()
}

// Int returns a random integer in [0, bound).
// It panics if bound <= 0.
func Int(bound int) int {
	if bound <= 0 {
		panic("aqua: bound must be positive")
	}
	return random.intN(bound)
}

// IntRange returns a random integer in [origin, bound).
// It panics if origin >= bound.
func IntRange(origin, bound int) int {
	if origin >= bound {
		panic("aqua: bound must be greater than origin")
	}
	// The span may exceed MaxInt; wrapping arithmetic brings the sum back
	// into range.
	span := uint64(bound) - uint64(origin)
	return origin + int(random.uint64N(span))
}

// Float returns a random float64 in [0, bound).
// It panics if bound <= 0.
func Float(bound float64) float64 {
	if !(bound > 0) {
		panic("aqua: bound must be positive")
	}
	return FloatRange(0, bound)
}

// FloatRange returns a random float64 in [origin, bound).
// It panics if origin >= bound.
func FloatRange(origin, bound float64) float64 {
	if !(origin < bound) {
		panic("aqua: bound must be greater than origin")
	}
	f := origin + random.float64()*(bound-origin)
	if f >= bound {
		// Rounding can land exactly on bound for wide ranges.
		f = math.Nextafter(bound, math.Inf(-1))
	}
	return f
}

// Gaussian returns a normally distributed float64 with mean 0 and standard
// deviation 1.
func Gaussian() float64 {
	return random.normFloat64()
}

// Element returns a random element of s.
// It panics if s is empty.
func Element[T any](s []T) T {
	return s[Int(len(s))]
}

// Shuffle returns a shuffled copy of s. The input slice is left untouched.
//
// Usage:
//
//	order := aqua.Shuffle(spawnPoints)
func Shuffle[T any](s []T) []T {
	shuffled := make([]T, len(s))
	copy(shuffled, s)

	for i := len(shuffled) - 1; i >= 1; i-- {
		j := Int(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
