package lyrictopics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticBlobs returns n vectors of dimension d split evenly around two
// well-separated centers. The generator is seeded so tests are repeatable.
func syntheticBlobs(n, d int, seed int64) [][]float32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float32, n)
	for i := range out {
		v := make([]float32, d)
		center := float32(0)
		if i >= n/2 {
			center = 10
		}
		for j := range v {
			v[j] = center + float32(rng.NormFloat64())*0.5
		}
		out[i] = v
	}
	return out
}

func TestReduceVectorsOutputDimensions(t *testing.T) {
	vectors := syntheticBlobs(40, 64, 1)

	for _, dim := range []int{2, 10, 15, 20} {
		reduced, err := ReduceVectors(vectors, dim, ReducerPCA, TSNEConfig{})
		require.NoError(t, err)
		require.Len(t, reduced, len(vectors))
		for _, v := range reduced {
			assert.Len(t, v, dim)
		}
	}
}

func TestReduceVectorsPadsPastRank(t *testing.T) {
	// 5 vectors of dimension 3: rank is at most 3, so coordinates beyond it
	// must be zero while the output still has the configured length.
	vectors := syntheticBlobs(5, 3, 2)
	reduced, err := ReduceVectors(vectors, 10, ReducerPCA, TSNEConfig{})
	require.NoError(t, err)
	for _, v := range reduced {
		require.Len(t, v, 10)
		for c := 3; c < 10; c++ {
			assert.Zero(t, v[c])
		}
	}
}

func TestReduceVectorsPreservesSeparation(t *testing.T) {
	vectors := syntheticBlobs(30, 32, 3)
	reduced, err := ReduceVectors(vectors, 5, ReducerPCA, TSNEConfig{})
	require.NoError(t, err)

	// Points sharing a blob must end up closer to each other than to the
	// other blob.
	within := euclideanDistance(reduced[0], reduced[1])
	across := euclideanDistance(reduced[0], reduced[20])
	assert.Less(t, within, across)
}

func TestReduceVectorsDeterministic(t *testing.T) {
	vectors := syntheticBlobs(50, 16, 4)
	a, err := ReduceVectors(vectors, 10, ReducerPCA, TSNEConfig{})
	require.NoError(t, err)
	b, err := ReduceVectors(vectors, 10, ReducerPCA, TSNEConfig{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReduceVectorsInsufficientData(t *testing.T) {
	var insufficient *InsufficientDataError

	_, err := ReduceVectors(nil, 5, ReducerPCA, TSNEConfig{})
	require.ErrorAs(t, err, &insufficient)

	_, err = ReduceVectors([][]float32{{1, 2, 3}}, 5, ReducerPCA, TSNEConfig{})
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.Have)
}

func TestReduceVectorsDimensionMismatch(t *testing.T) {
	vectors := [][]float32{{1, 2, 3}, {4, 5}, {6, 7, 8}}
	_, err := ReduceVectors(vectors, 2, ReducerPCA, TSNEConfig{})

	var mismatch *DimensionMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1, mismatch.Index)
	assert.Equal(t, 3, mismatch.Want)
	assert.Equal(t, 2, mismatch.Got)
}

func TestReduceVectorsUnknownReducer(t *testing.T) {
	vectors := syntheticBlobs(10, 4, 5)
	_, err := ReduceVectors(vectors, 2, ReducerKind("umap"), TSNEConfig{})
	require.Error(t, err)
}
