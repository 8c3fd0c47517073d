package clustering

import "context"

// Clusterer partitions vectors into k labeled groups. The returned slice has
// one label per input vector; labels are arbitrary ints in [0, k).
type Clusterer interface {
	Cluster(ctx context.Context, vectors [][]float64, k int) ([]int, error)
}
