package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	// 10 cells over 4 buckets: sizes 3,3,2,2, contiguous, covering
	pm := NewPartitionMap(4, 10)
	var (
		total  int
		prevHi int
	)
	for n := 0; n < 4; n++ {
		lo, hi := pm.GetBucketRange(n)
		assert.Equal(t, prevHi, lo)
		total += hi - lo
		prevHi = hi
	}
	assert.Equal(t, 10, total)
	assert.Equal(t, 3, pm.GetBucketDimension(0))
	assert.Equal(t, 2, pm.GetBucketDimension(3))

	// Exact division
	pm = NewPartitionMap(5, 10)
	for n := 0; n < 5; n++ {
		assert.Equal(t, 2, pm.GetBucketDimension(n))
	}

	// More buckets than cells leaves trailing buckets empty
	pm = NewPartitionMap(4, 3)
	assert.Equal(t, 1, pm.GetBucketDimension(0))
	assert.Equal(t, 0, pm.GetBucketDimension(3))
}
