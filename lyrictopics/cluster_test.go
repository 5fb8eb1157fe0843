package lyrictopics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blob(center []float32, offsets ...float32) [][]float32 {
	out := make([][]float32, len(offsets))
	for i, off := range offsets {
		v := make([]float32, len(center))
		for j, c := range center {
			v[j] = c + off
		}
		out[i] = v
	}
	return out
}

func TestDensityClusterTwoBlobs(t *testing.T) {
	vectors := append(
		blob([]float32{0, 0}, 0, 0.1, 0.2, -0.1, -0.2, 0.05),
		blob([]float32{10, 10}, 0, 0.1, 0.2, -0.1, -0.2, 0.05)...,
	)

	labels, err := DensityCluster(vectors, 3, 0)
	require.NoError(t, err)
	require.Len(t, labels, len(vectors))

	// The two blobs separate and labels partition the non-noise points.
	first := labels[0]
	second := labels[6]
	require.False(t, first.IsNoise())
	require.False(t, second.IsNoise())
	assert.NotEqual(t, first, second)
	for i, l := range labels {
		if i < 6 {
			assert.Equal(t, first, l)
		} else {
			assert.Equal(t, second, l)
		}
	}
}

func TestDensityClusterMarksOutliersNoise(t *testing.T) {
	vectors := append(
		blob([]float32{0, 0}, 0, 0.1, 0.2, -0.1, -0.2),
		[]float32{100, -100},
	)

	labels, err := DensityCluster(vectors, 3, 0.5)
	require.NoError(t, err)
	assert.True(t, labels[5].IsNoise())
	for i := 0; i < 5; i++ {
		assert.False(t, labels[i].IsNoise())
	}
}

func TestDensityClusterAllNoiseIsValid(t *testing.T) {
	vectors := [][]float32{
		{0, 0}, {100, 0}, {0, 100}, {100, 100}, {50, 50}, {-50, 30},
	}
	labels, err := DensityCluster(vectors, 5, 1e-6)
	require.NoError(t, err)
	for _, l := range labels {
		assert.True(t, l.IsNoise())
	}
	assert.Empty(t, BuildClusters(songsFromLabels(labels)))
}

func TestDensityClusterInsufficientData(t *testing.T) {
	vectors := [][]float32{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	_, err := DensityCluster(vectors, 5, 0)

	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 4, insufficient.Have)
	assert.Equal(t, 5, insufficient.Need)
}

func TestDensityClusterDeterministic(t *testing.T) {
	vectors := syntheticBlobs(50, 8, 7)
	a, err := DensityCluster(vectors, 5, 0)
	require.NoError(t, err)
	b, err := DensityCluster(vectors, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDensityClusterDimensionMismatch(t *testing.T) {
	vectors := [][]float32{{0, 0}, {1}, {2, 2}, {3, 3}, {4, 4}}
	_, err := DensityCluster(vectors, 2, 0)

	var mismatch *DimensionMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestBuildClustersPreservesMemberOrder(t *testing.T) {
	songs := []Song{
		{ID: "a", Label: 1},
		{ID: "b", Label: 0},
		{ID: "c", Label: Noise},
		{ID: "d", Label: 1},
		{ID: "e", Label: 0},
	}
	clusters := BuildClusters(songs)
	require.Len(t, clusters, 2)
	assert.Equal(t, ClusterLabel(0), clusters[0].Label)
	assert.Equal(t, []string{"b", "e"}, clusters[0].Members)
	assert.Equal(t, ClusterLabel(1), clusters[1].Label)
	assert.Equal(t, []string{"a", "d"}, clusters[1].Members)
}

func songsFromLabels(labels []ClusterLabel) []Song {
	out := make([]Song, len(labels))
	for i, l := range labels {
		out[i] = Song{ID: string(rune('a' + i)), Label: l}
	}
	return out
}
