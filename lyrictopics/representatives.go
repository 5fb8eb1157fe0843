package lyrictopics

import "sort"

// SelectRepresentatives computes the cluster centroid and fills in the
// representative list: up to k member ids ranked by ascending Euclidean
// distance to the centroid. Exact distance ties keep the members' original
// order, so the ranking is reproducible. Clusters smaller than k simply
// contribute all their members.
//
// The order is meaningful downstream: closest-first decides which summaries
// the topic-naming collaborator sees first.
func SelectRepresentatives(c *Cluster, vectorsByID map[string][]float32, k int) {
	if len(c.Members) == 0 {
		c.Centroid = nil
		c.Representatives = nil
		return
	}
	memberVecs := make([][]float32, len(c.Members))
	for i, id := range c.Members {
		memberVecs[i] = vectorsByID[id]
	}
	c.Centroid = centroid(memberVecs)

	type ranked struct {
		id   string
		dist float64
	}
	rankedMembers := make([]ranked, len(c.Members))
	for i, id := range c.Members {
		rankedMembers[i] = ranked{id: id, dist: euclideanDistance(memberVecs[i], c.Centroid)}
	}
	sort.SliceStable(rankedMembers, func(i, j int) bool {
		return rankedMembers[i].dist < rankedMembers[j].dist
	})

	if k > len(rankedMembers) {
		k = len(rankedMembers)
	}
	c.Representatives = make([]string, k)
	for i := 0; i < k; i++ {
		c.Representatives[i] = rankedMembers[i].id
	}
}
