// Package series prepares chart-ready data from a dataset. It does not
// render anything.
package series

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
)

// Bin is one histogram bucket covering [Start, End).
type Bin struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
	Mid   float64 `json:"mid" yaml:"mid"`
	Count int     `json:"count" yaml:"count"`
	Label string  `json:"label" yaml:"label"`
}

// Histogram buckets values into min(maxBins, ceil(sqrt(n))) equal-width bins
// spanning [min, max]. The last bin is closed so max is counted. Identical
// values collapse into a single bin.
func Histogram(values []float64, maxBins int) []Bin {
	n := len(values)
	if n == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Start: lo, End: hi, Mid: lo, Count: n, Label: label(lo, hi)}}
	}

	count := int(math.Ceil(math.Sqrt(float64(n))))
	if maxBins > 0 && count > maxBins {
		count = maxBins
	}
	width := (hi - lo) / float64(count)
	bins := make([]Bin, count)
	for i := range bins {
		start := lo + float64(i)*width
		end := lo + float64(i+1)*width
		if i == count-1 {
			end = hi
		}
		bins[i] = Bin{Start: start, End: end, Mid: lo + (float64(i)+0.5)*width, Label: label(start, end)}
	}
	for _, v := range values {
		idx := int(math.Floor((v - lo) / width))
		if idx >= count {
			idx = count - 1
		}
		bins[idx].Count++
	}
	return bins
}

func label(a, b float64) string {
	return fmt.Sprintf("%.1f-%.1f", a, b)
}

// Category is the number of rows holding one value of a column.
type Category struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// NullLabel stands for empty cells in category counts.
const NullLabel = "N/A"

// Categories counts the distinct values of a column, most frequent first.
// Ties sort by label. limit <= 0 keeps every category.
func Categories(ds *dataset.Dataset, column string, limit int) []Category {
	counts := make(map[string]int)
	for _, r := range ds.Records {
		v := r[column]
		key := v.String()
		if v.IsNull() {
			key = NullLabel
		}
		counts[key]++
	}
	out := make([]Category, 0, len(counts))
	for l, c := range counts {
		out = append(out, Category{Label: l, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Point is one scatter plot coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Scatter pairs the x and y columns over rows where both cells are numbers.
func Scatter(ds *dataset.Dataset, x, y string) []Point {
	var pts []Point
	for _, r := range ds.Records {
		xv, okx := r[x].Number()
		yv, oky := r[y].Number()
		if okx && oky {
			pts = append(pts, Point{X: xv, Y: yv})
		}
	}
	return pts
}
