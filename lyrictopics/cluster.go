package lyrictopics

import "sort"

// DensityCluster assigns each reduced vector a cluster label or Noise using
// DBSCAN over Euclidean distance. Cluster count is an output, not an input.
//
// epsilon <= 0 selects the neighborhood radius automatically as the median
// distance to the minPts-th nearest neighbour, the batch's own density
// scale. Points are visited in input order and seed sets expand FIFO, so
// ties resolve deterministically across runs.
//
// An all-noise result is valid. N below minPts fails with
// InsufficientDataError.
func DensityCluster(vectors [][]float32, minPts int, epsilon float64) ([]ClusterLabel, error) {
	if minPts < 1 {
		minPts = 1
	}
	if len(vectors) < minPts {
		return nil, &InsufficientDataError{Stage: "cluster", Have: len(vectors), Need: minPts}
	}
	if err := checkDimensions(vectors); err != nil {
		return nil, err
	}

	if epsilon <= 0 {
		epsilon = autoEpsilon(vectors, minPts)
	}

	const undefined = ClusterLabel(-2)

	n := len(vectors)
	labels := make([]ClusterLabel, n)
	for i := range labels {
		labels[i] = undefined
	}

	next := ClusterLabel(0)
	for i := 0; i < n; i++ {
		if labels[i] != undefined {
			continue
		}
		neighbors := rangeQuery(vectors, i, epsilon)
		if len(neighbors) < minPts {
			labels[i] = Noise
			continue
		}

		id := next
		next++
		labels[i] = id

		seed := make([]int, 0, len(neighbors))
		for _, j := range neighbors {
			if j != i {
				seed = append(seed, j)
			}
		}

		for len(seed) > 0 {
			q := seed[0]
			seed = seed[1:]

			if labels[q] == Noise {
				labels[q] = id
			}
			if labels[q] != undefined {
				continue
			}
			labels[q] = id

			qNeighbors := rangeQuery(vectors, q, epsilon)
			if len(qNeighbors) >= minPts {
				seed = append(seed, qNeighbors...)
			}
		}
	}

	return labels, nil
}

// rangeQuery returns indices of all vectors within epsilon of vectors[idx],
// in input order.
func rangeQuery(vectors [][]float32, idx int, epsilon float64) []int {
	var result []int
	q := vectors[idx]
	for i, v := range vectors {
		if euclideanDistance(q, v) <= epsilon {
			result = append(result, i)
		}
	}
	return result
}

// autoEpsilon estimates the neighborhood radius as the median k-th
// nearest-neighbour distance across the batch.
func autoEpsilon(vectors [][]float32, k int) float64 {
	n := len(vectors)
	kdists := make([]float64, 0, n)
	dists := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dists[j] = euclideanDistance(vectors[i], vectors[j])
		}
		sort.Float64s(dists)
		// dists[0] is the self distance; the k-th neighbour sits at index k.
		idx := k
		if idx >= n {
			idx = n - 1
		}
		kdists = append(kdists, dists[idx])
	}
	sort.Float64s(kdists)
	return kdists[len(kdists)/2]
}

// BuildClusters groups songs by label, preserving input order within each
// cluster. Noise points are excluded; the returned slice is ordered by
// label.
func BuildClusters(songs []Song) []Cluster {
	byLabel := make(map[ClusterLabel]*Cluster)
	var order []ClusterLabel
	for _, s := range songs {
		if s.Label.IsNoise() {
			continue
		}
		c, ok := byLabel[s.Label]
		if !ok {
			c = &Cluster{Label: s.Label}
			byLabel[s.Label] = c
			order = append(order, s.Label)
		}
		c.Members = append(c.Members, s.ID)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]Cluster, 0, len(order))
	for _, label := range order {
		out = append(out, *byLabel[label])
	}
	return out
}
