package sid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterMonotonic(t *testing.T) {
	c := NewCounter()
	seen := make(map[uint64]bool)
	var prev uint64
	for i := 0; i < 1000; i++ {
		n := c.Next()
		assert.False(t, seen[n], "id %d minted twice", n)
		seen[n] = true
		assert.Greater(t, n, prev)
		prev = n
	}
}

func TestSourceInterfaceSatisfiedByCounter(t *testing.T) {
	var s Source = NewCounter()
	assert.Equal(t, uint64(1), s.Next())
	assert.Equal(t, uint64(2), s.Next())
}
