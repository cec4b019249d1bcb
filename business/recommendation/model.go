package recommendation

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

var ErrNotTrainable = errors.New("no trainable signal data")

// SimilarityModel pairs a symmetric user x user similarity matrix with the
// user ids labelling its rows and columns, in the same order.
type SimilarityModel struct {
	UserIDs    []uint64
	Similarity *mat.SymDense

	index map[uint64]int
}

func NewSimilarityModel(userIDs []uint64, sim *mat.SymDense) (*SimilarityModel, error) {
	if sim == nil {
		return nil, fmt.Errorf("similarity matrix is required")
	}
	if n := sim.SymmetricDim(); n != len(userIDs) {
		return nil, fmt.Errorf("similarity dimension %d does not match %d user ids", n, len(userIDs))
	}

	index := make(map[uint64]int, len(userIDs))
	for i, id := range userIDs {
		if _, dup := index[id]; dup {
			return nil, fmt.Errorf("duplicate user id %d in model", id)
		}
		index[id] = i
	}

	return &SimilarityModel{UserIDs: userIDs, Similarity: sim, index: index}, nil
}

func (m *SimilarityModel) Size() int {
	return len(m.UserIDs)
}

func (m *SimilarityModel) IndexOf(userID uint64) (int, bool) {
	i, ok := m.index[userID]
	return i, ok
}

// Neighbors returns up to k other users ordered by similarity, highest first.
// Equal scores keep model order.
func (m *SimilarityModel) Neighbors(userID uint64, k int) []uint64 {
	i, ok := m.IndexOf(userID)
	if !ok || k <= 0 {
		return nil
	}

	type scored struct {
		idx   int
		score float64
	}
	others := make([]scored, 0, m.Size()-1)
	for j := 0; j < m.Size(); j++ {
		if j == i {
			continue
		}
		others = append(others, scored{idx: j, score: m.Similarity.At(i, j)})
	}
	sort.SliceStable(others, func(a, b int) bool {
		return others[a].score > others[b].score
	})

	if len(others) > k {
		others = others[:k]
	}
	out := make([]uint64, len(others))
	for n, s := range others {
		out[n] = m.UserIDs[s.idx]
	}
	return out
}
