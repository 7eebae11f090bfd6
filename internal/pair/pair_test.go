package pair_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sparkmeet/spark-backend/internal/pair"
)

func TestNewCanonicalOrdering(t *testing.T) {
	assert.Equal(t, pair.New(10, 20), pair.New(20, 10))

	p := pair.New(20, 10)
	assert.Equal(t, uint64(10), p.Low)
	assert.Equal(t, uint64(20), p.High)
}

func TestNewPanicsOnSelfPair(t *testing.T) {
	assert.Panics(t, func() { pair.New(7, 7) })
}

func TestContainsAndOther(t *testing.T) {
	p := pair.New(3, 9)

	assert.True(t, p.Contains(3))
	assert.True(t, p.Contains(9))
	assert.False(t, p.Contains(4))

	assert.Equal(t, uint64(9), p.Other(3))
	assert.Equal(t, uint64(3), p.Other(9))
	assert.Equal(t, uint64(0), p.Other(4))
}
