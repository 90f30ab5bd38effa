package aqua

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt_Bounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n := Int(5)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 5)
	}
	assert.Equal(t, 0, Int(1))
}

func TestIntRange_Bounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n := IntRange(-3, 3)
		assert.GreaterOrEqual(t, n, -3)
		assert.Less(t, n, 3)
	}
}

func TestIntRange_WideSpan(t *testing.T) {
	tests := []struct {
		name          string
		origin, bound int
	}{
		{name: "full range", origin: math.MinInt, bound: math.MaxInt},
		{name: "negative origin", origin: -1, bound: math.MaxInt},
		{name: "min origin", origin: math.MinInt, bound: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 1000; i++ {
				var n int
				require.NotPanics(t, func() { n = IntRange(tt.origin, tt.bound) })
				assert.GreaterOrEqual(t, n, tt.origin)
				assert.Less(t, n, tt.bound)
			}
		})
	}

	assert.Equal(t, math.MinInt, IntRange(math.MinInt, math.MinInt+1))
	assert.Equal(t, math.MaxInt-1, IntRange(math.MaxInt-1, math.MaxInt))
}

func TestFloatRange_Bounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		f := FloatRange(1.5, 2.5)
		assert.GreaterOrEqual(t, f, 1.5)
		assert.Less(t, f, 2.5)

		f = Float(0.1)
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 0.1)
	}
}

func TestRandom_InvalidBoundsPanic(t *testing.T) {
	assert.Panics(t, func() { Int(0) })
	assert.Panics(t, func() { Int(-1) })
	assert.Panics(t, func() { IntRange(4, 4) })
	assert.Panics(t, func() { Float(0) })
	assert.Panics(t, func() { FloatRange(2, 1) })
	assert.Panics(t, func() { Element([]string{}) })
}

func TestElement(t *testing.T) {
	items := []string{"a", "b", "c"}
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		seen[Element(items)] = true
	}
	assert.Len(t, seen, 3)
}

func TestShuffle_PreservesElements(t *testing.T) {
	in := []int{1, 2, 2, 3, 4, 5, 5, 5, 6}
	orig := append([]int(nil), in...)

	out := Shuffle(in)

	assert.Equal(t, orig, in, "input must not be modified")
	assert.ElementsMatch(t, in, out)
	assert.Len(t, out, len(in))
}

func TestShuffle_Empty(t *testing.T) {
	assert.Empty(t, Shuffle([]int{}))
	assert.Equal(t, []string{"x"}, Shuffle([]string{"x"}))
}

func TestShuffle_ProducesDifferentOrders(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	orders := make(map[[8]int]bool)
	for i := 0; i < 50; i++ {
		orders[[8]int(Shuffle(in))] = true
	}
	assert.Greater(t, len(orders), 1)
}

func TestRandom_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = Int(10)
				_ = Gaussian()
			}
		}()
	}
	wg.Wait()
}
