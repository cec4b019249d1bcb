package recommendation

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// normalizeColumns min-max scales every column into [0,1]. A constant column
// becomes 1 when its value is positive and 0 otherwise, so users sharing an
// identical non-zero signal stay maximally similar.
func normalizeColumns(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		lo, hi := floats.Min(col), floats.Max(col)
		span := hi - lo
		for i, v := range col {
			switch {
			case span > 0:
				out.Set(i, j, (v-lo)/span)
			case v > 0:
				out.Set(i, j, 1)
			}
		}
	}

	return out
}

// cosineSimilarity returns the pairwise cosine similarity of the rows of m.
// The diagonal is 1; any pair involving an all-zero row scores 0.
func cosineSimilarity(m *mat.Dense) *mat.SymDense {
	n, _ := m.Dims()
	norms := make([]float64, n)
	for i := 0; i < n; i++ {
		norms[i] = floats.Norm(m.RawRowView(i), 2)
	}

	sim := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sim.SetSym(i, i, 1)
		if norms[i] == 0 {
			continue
		}
		for j := i + 1; j < n; j++ {
			if norms[j] == 0 {
				continue
			}
			v := floats.Dot(m.RawRowView(i), m.RawRowView(j)) / (norms[i] * norms[j])
			// rounding can push identical directions just past 1
			if v > 1 {
				v = 1
			}
			sim.SetSym(i, j, v)
		}
	}

	return sim
}

// BuildModel normalizes the blended features and derives the user similarity model.
func BuildModel(features *FeatureMatrix) (*SimilarityModel, error) {
	if features == nil || len(features.Users) == 0 {
		return nil, ErrNotTrainable
	}

	normalized := normalizeColumns(features.Data)
	sim := cosineSimilarity(normalized)

	users := make([]uint64, len(features.Users))
	copy(users, features.Users)

	return NewSimilarityModel(users, sim)
}
