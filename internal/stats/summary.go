// Package stats computes the descriptive statistics bundle for numerical
// columns and the measures derived from it (IQR fences, skewness,
// correlations).
package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
)

// Summary is the statistics bundle of one numerical column. Fields hold
// unrounded values; use Display for presentation.
type Summary struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	Mode   float64 `json:"mode" yaml:"mode"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Q25    float64 `json:"q25" yaml:"q25"`
	Q75    float64 `json:"q75" yaml:"q75"`
}

// Compute returns the summary of finite values. An empty input yields the
// zero Summary, which callers read as "no numerical data".
func Compute(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	// inputs are non-empty, so the library calls cannot fail
	mean, _ := mstats.Mean(sorted)
	median, _ := mstats.Median(sorted)
	std, _ := mstats.StandardDeviationPopulation(sorted)

	return Summary{
		Count:  n,
		Mean:   mean,
		Median: median,
		Mode:   mode(sorted),
		Min:    sorted[0],
		Max:    sorted[n-1],
		StdDev: std,
		Q25:    nearestRank(sorted, 0.25),
		Q75:    nearestRank(sorted, 0.75),
	}
}

// Display rounds mean, median, mode and standard deviation to two decimals.
// Count, min, max and the quartiles are data values and stay untouched.
func (s Summary) Display() Summary {
	d := s
	d.Mean = Round2(s.Mean)
	d.Median = Round2(s.Median)
	d.Mode = Round2(s.Mode)
	d.StdDev = Round2(s.StdDev)
	return d
}

// Empty reports whether the summary was computed from no values.
func (s Summary) Empty() bool { return s.Count == 0 }

// Round2 rounds half away from zero to two decimals.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// mode returns the most frequent value; ties go to the smallest value.
// sorted must be ascending.
func mode(sorted []float64) float64 {
	best, bestRun := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestRun {
			best, bestRun = sorted[i], j-i
		}
		i = j
	}
	return best
}

// nearestRank indexes the sorted slice at floor(n*q) without interpolation.
func nearestRank(sorted []float64, q float64) float64 {
	idx := int(math.Floor(float64(len(sorted)) * q))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// ForColumn summarizes the numeric cells of a column.
func ForColumn(ds *dataset.Dataset, column string) Summary {
	return Compute(ds.Numbers(column))
}

// Lookup returns a per-column summary function over ds. Each call recomputes
// from the immutable dataset.
func Lookup(ds *dataset.Dataset) func(column string) Summary {
	return func(column string) Summary { return ForColumn(ds, column) }
}
