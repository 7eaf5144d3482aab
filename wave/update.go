package wave

import (
	"sync"

	"github.com/neuromusic/waver/utils"
)

// Update computes one time slice of the space-time field. frame is the
// writable view of slice step and implementations replace its contents
// wholesale. The run loop owns step ordering; an Update only ever sees
// its own slice.
type Update func(step int, t float64, src *Source, frame utils.Tensor) error

// SnapshotUpdate writes the bare source snapshot at time t into the
// frame. This is the default operator: no propagation stencil is
// applied, so the field records the forcing term itself.
func SnapshotUpdate(step int, t float64, src *Source, frame utils.Tensor) error {
	src.ValueInto(t, frame)
	return nil
}

// SnapshotUpdateParallel fills each frame with the cells partitioned
// over degree goroutines. Output is identical to SnapshotUpdate; the
// partitioned fill is the shape a threaded stencil takes.
func SnapshotUpdateParallel(degree int) Update {
	if degree < 1 {
		degree = 1
	}
	return func(step int, t float64, src *Source, frame utils.Tensor) error {
		var (
			data = frame.Data()
			pm   = utils.NewPartitionMap(degree, len(data))
			a    = src.Waveform.At(t)
			wg   sync.WaitGroup
		)
		wg.Add(degree)
		for n := 0; n < degree; n++ {
			go func(n int) {
				defer wg.Done()
				lo, hi := pm.GetBucketRange(n)
				for i := lo; i < hi; i++ {
					data[i] = 0
				}
			}(n)
		}
		wg.Wait()
		if a != 0 {
			for _, c := range src.cells {
				data[c] = a
			}
		}
		return nil
	}
}
