package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
)

// PairCorr is the Pearson correlation of two numerical columns.
type PairCorr struct {
	A string  `json:"a" yaml:"a"`
	B string  `json:"b" yaml:"b"`
	R float64 `json:"r" yaml:"r"`
	N int     `json:"n" yaml:"n"`
}

// Correlations computes r for every pair of numerical columns over the rows
// where both cells are numbers. Pairs with fewer than two shared rows or a
// constant side are skipped. The result is sorted by |r| descending.
func Correlations(ds *dataset.Dataset) []PairCorr {
	cols := ds.ColumnsOf(dataset.Numerical)
	var pairs []PairCorr
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			a, b := cols[i].Name, cols[j].Name
			xs, ys := pairwise(ds, a, b)
			if len(xs) < 2 {
				continue
			}
			r := stat.Correlation(xs, ys, nil)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				continue
			}
			pairs = append(pairs, PairCorr{A: a, B: b, R: clamp(r), N: len(xs)})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].R) > math.Abs(pairs[j].R)
	})
	return pairs
}

func pairwise(ds *dataset.Dataset, a, b string) (xs, ys []float64) {
	for _, r := range ds.Records {
		x, okx := r[a].Number()
		y, oky := r[b].Number()
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

func clamp(r float64) float64 {
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}
