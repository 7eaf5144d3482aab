package utils

// PartitionMap splits a flat cell range over a fixed number of workers
// with a maximum imbalance of one cell between buckets.
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bucketNum int) (kMax int) {
	k1, k2 := pm.GetBucketRange(bucketNum)
	kMax = k2 - k1
	return
}

// Split1D assigns bucket threadNum its half-open [begin, end) range. The
// remainder cells are spread one each over the leading buckets.
func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	var (
		base = pm.MaxIndex / pm.ParallelDegree
		rem  = pm.MaxIndex % pm.ParallelDegree
	)
	bucket[0] = threadNum * base
	if threadNum < rem {
		bucket[0] += threadNum
	} else {
		bucket[0] += rem
	}
	bucket[1] = bucket[0] + base
	if threadNum < rem {
		bucket[1]++
	}
	return
}
