package recommendation

import (
	"slices"

	"gonum.org/v1/gonum/mat"
)

// FeatureMatrix is a user x category table. Users and Categories are sorted
// ascending and label the rows and columns of Data; absent cells are zero.
type FeatureMatrix struct {
	Users      []uint64
	Categories []uint64
	Data       *mat.Dense
}

// At returns the cell for (user, category), zero when either label is absent.
func (m *FeatureMatrix) At(userID, categoryID uint64) float64 {
	if m == nil {
		return 0
	}
	i, ok := slices.BinarySearch(m.Users, userID)
	if !ok {
		return 0
	}
	j, ok := slices.BinarySearch(m.Categories, categoryID)
	if !ok {
		return 0
	}
	return m.Data.At(i, j)
}

// reindex projects m onto the given labels, zero-filling new cells.
// Labels of m missing from users/categories are dropped.
func (m *FeatureMatrix) reindex(users, categories []uint64) *FeatureMatrix {
	rowIdx := indexOf(users)
	colIdx := indexOf(categories)

	out := mat.NewDense(len(users), len(categories), nil)
	for i, u := range m.Users {
		ri, ok := rowIdx[u]
		if !ok {
			continue
		}
		for j, c := range m.Categories {
			ci, ok := colIdx[c]
			if !ok {
				continue
			}
			out.Set(ri, ci, m.Data.At(i, j))
		}
	}

	return &FeatureMatrix{Users: users, Categories: categories, Data: out}
}

// Blend aligns content and collaborative matrices on the union of their labels
// and combines them as content*contentWeight + collaborative*collabWeight.
// A missing side leaves the other unchanged; both missing yields nil.
func Blend(content, collaborative *FeatureMatrix, contentWeight, collabWeight float64) *FeatureMatrix {
	switch {
	case content == nil && collaborative == nil:
		return nil
	case collaborative == nil:
		return content
	case content == nil:
		return collaborative
	}

	users := unionSorted(content.Users, collaborative.Users)
	categories := unionSorted(content.Categories, collaborative.Categories)

	c := content.reindex(users, categories)
	r := collaborative.reindex(users, categories)

	var blended, weighted mat.Dense
	blended.Scale(contentWeight, c.Data)
	weighted.Scale(collabWeight, r.Data)
	blended.Add(&blended, &weighted)

	return &FeatureMatrix{Users: users, Categories: categories, Data: &blended}
}

type aggregation int

const (
	aggSum aggregation = iota
	aggMean
)

type cellKey struct {
	user     uint64
	category uint64
}

type cellAcc struct {
	sum float64
	n   int
}

// pivot accumulates (user, category, value) rows into a FeatureMatrix.
type pivot struct {
	agg   aggregation
	cells map[cellKey]*cellAcc
}

func newPivot(agg aggregation) *pivot {
	return &pivot{agg: agg, cells: make(map[cellKey]*cellAcc)}
}

func (p *pivot) add(userID, categoryID uint64, value float64) {
	k := cellKey{user: userID, category: categoryID}
	acc, ok := p.cells[k]
	if !ok {
		acc = &cellAcc{}
		p.cells[k] = acc
	}
	acc.sum += value
	acc.n++
}

// matrix returns nil when nothing was accumulated.
func (p *pivot) matrix() *FeatureMatrix {
	if len(p.cells) == 0 {
		return nil
	}

	userSet := make(map[uint64]struct{})
	catSet := make(map[uint64]struct{})
	for k := range p.cells {
		userSet[k.user] = struct{}{}
		catSet[k.category] = struct{}{}
	}
	users := sortedKeys(userSet)
	categories := sortedKeys(catSet)
	rowIdx := indexOf(users)
	colIdx := indexOf(categories)

	data := mat.NewDense(len(users), len(categories), nil)
	for k, acc := range p.cells {
		v := acc.sum
		if p.agg == aggMean {
			v = acc.sum / float64(acc.n)
		}
		data.Set(rowIdx[k.user], colIdx[k.category], v)
	}

	return &FeatureMatrix{Users: users, Categories: categories, Data: data}
}

func sortedKeys(set map[uint64]struct{}) []uint64 {
	out := make([]uint64, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func unionSorted(a, b []uint64) []uint64 {
	out := make([]uint64, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.Sort(out)
	return slices.Compact(out)
}

func indexOf(labels []uint64) map[uint64]int {
	idx := make(map[uint64]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}
