package lyrictopics

import (
	"fmt"

	"github.com/danaugrs/go-tsne/tsne"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ReduceVectors projects N embedding vectors of equal dimension D down to
// dim coordinates each. The projection is a function of the whole batch,
// not of individual vectors: both algorithms build structure across all
// inputs. The output is index-aligned with the input and every reduced
// vector has exactly dim coordinates.
func ReduceVectors(vectors [][]float32, dim int, kind ReducerKind, tcfg TSNEConfig) ([][]float32, error) {
	if len(vectors) < 2 {
		return nil, &InsufficientDataError{Stage: "reduce", Have: len(vectors), Need: 2}
	}
	if err := checkDimensions(vectors); err != nil {
		return nil, err
	}
	if dim <= 0 {
		return nil, fmt.Errorf("reduce: target dimension must be positive, got %d", dim)
	}
	switch kind {
	case ReducerTSNE:
		return reduceTSNE(vectors, dim, tcfg)
	case ReducerPCA, "":
		return reducePCA(vectors, dim)
	default:
		return nil, fmt.Errorf("reduce: unknown reducer %q", kind)
	}
}

// reducePCA centers the batch and projects it onto the top-dim right
// singular vectors. When dim exceeds the matrix rank the remaining
// coordinates stay zero, keeping the output dimensionality fixed.
func reducePCA(vectors [][]float32, dim int) ([][]float32, error) {
	n := len(vectors)
	d := len(vectors[0])

	data := make([]float64, n*d)
	for i, v := range vectors {
		for j, x := range v {
			data[i*d+j] = float64(x)
		}
	}
	x := mat.NewDense(n, d, data)

	for j := 0; j < d; j++ {
		col := mat.Col(nil, j, x)
		mean := stat.Mean(col, nil)
		for i := 0; i < n; i++ {
			x.Set(i, j, x.At(i, j)-mean)
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, fmt.Errorf("reduce: svd factorization failed")
	}
	var v mat.Dense
	svd.VTo(&v)

	components := dim
	if rank := min(n, d); components > rank {
		components = rank
	}

	out := make([][]float32, n)
	for i := 0; i < n; i++ {
		row := make([]float32, dim)
		for c := 0; c < components; c++ {
			var sum float64
			for j := 0; j < d; j++ {
				sum += x.At(i, j) * v.At(j, c)
			}
			row[c] = float32(sum)
		}
		out[i] = row
	}
	return out, nil
}

func reduceTSNE(vectors [][]float32, dim int, tcfg TSNEConfig) ([][]float32, error) {
	n := len(vectors)
	d := len(vectors[0])

	data := make([]float64, n*d)
	for i, v := range vectors {
		for j, x := range v {
			data[i*d+j] = float64(x)
		}
	}
	x := mat.NewDense(n, d, data)

	perplexity := tcfg.Perplexity
	// Perplexity must stay well below the batch size or the conditional
	// distributions degenerate.
	if limit := float64(n-1) / 3; perplexity > limit {
		perplexity = limit
	}
	if perplexity < 1 {
		perplexity = 1
	}

	t := tsne.NewTSNE(dim, perplexity, tcfg.LearningRate, tcfg.MaxIterations, false)
	t.EmbedData(x, nil)

	out := make([][]float32, n)
	for i := 0; i < n; i++ {
		row := make([]float32, dim)
		for c := 0; c < dim; c++ {
			row[c] = float32(t.Y.At(i, c))
		}
		out[i] = row
	}
	return out, nil
}
