package lyrictopics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectRepresentativesRanksByCentroidDistance(t *testing.T) {
	vectors := map[string][]float32{
		"far":     {9, 0},
		"close":   {1, 0},
		"mid":     {4, 0},
		"closest": {0, 0},
	}
	c := Cluster{Label: 0, Members: []string{"far", "close", "mid", "closest"}}

	SelectRepresentatives(&c, vectors, 3)

	// Centroid is (3.5, 0).
	require.Equal(t, []float32{3.5, 0}, c.Centroid)
	assert.Equal(t, []string{"mid", "close", "closest"}, c.Representatives)

	// Ordering is non-decreasing in distance to the centroid.
	prev := -1.0
	for _, id := range c.Representatives {
		d := euclideanDistance(vectors[id], c.Centroid)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
}

func TestSelectRepresentativesSmallClusterReturnsAll(t *testing.T) {
	vectors := map[string][]float32{
		"a": {0, 0},
		"b": {1, 1},
	}
	c := Cluster{Label: 0, Members: []string{"a", "b"}}

	SelectRepresentatives(&c, vectors, 5)

	assert.Len(t, c.Representatives, 2)
	assert.Subset(t, c.Members, c.Representatives)
}

func TestSelectRepresentativesBreaksTiesByInputOrder(t *testing.T) {
	// All members are equidistant from the centroid; the stable sort must
	// keep the original member order.
	vectors := map[string][]float32{
		"s3": {1, 0},
		"s1": {-1, 0},
		"s2": {0, 1},
		"s4": {0, -1},
	}
	c := Cluster{Label: 0, Members: []string{"s3", "s1", "s2", "s4"}}

	SelectRepresentatives(&c, vectors, 4)

	assert.Equal(t, []string{"s3", "s1", "s2", "s4"}, c.Representatives)
}

func TestSelectRepresentativesNoDuplicates(t *testing.T) {
	vectors := map[string][]float32{
		"a": {0, 0}, "b": {1, 0}, "c": {2, 0}, "d": {3, 0}, "e": {4, 0},
	}
	c := Cluster{Label: 0, Members: []string{"a", "b", "c", "d", "e"}}

	SelectRepresentatives(&c, vectors, 5)

	seen := make(map[string]struct{})
	for _, id := range c.Representatives {
		_, dup := seen[id]
		require.False(t, dup, "duplicate representative %s", id)
		seen[id] = struct{}{}
	}
}
