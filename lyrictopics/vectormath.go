package lyrictopics

import "math"

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		fa := float64(a[i])
		fb := float64(b[i])
		dot += fa * fb
		na += fa * fa
		nb += fb * fb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

func euclideanDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// centroid returns the element-wise mean of the given vectors. All vectors
// must share one dimensionality.
func centroid(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	out := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		for i, x := range v {
			out[i] += float64(x)
		}
	}
	res := make([]float32, len(out))
	inv := 1.0 / float64(len(vectors))
	for i, x := range out {
		res[i] = float32(x * inv)
	}
	return res
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}

// checkDimensions verifies all vectors share the first vector's length.
func checkDimensions(vectors [][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	want := len(vectors[0])
	for i, v := range vectors {
		if len(v) != want {
			return &DimensionMismatchError{Index: i, Want: want, Got: len(v)}
		}
	}
	return nil
}
