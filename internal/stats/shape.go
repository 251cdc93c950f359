package stats

import "math"

// Shape classifies the asymmetry of a distribution.
type Shape string

const (
	Normal      Shape = "normal"
	RightSkewed Shape = "right-skewed"
	LeftSkewed  Shape = "left-skewed"
)

// skewLimit separates approximately-normal from skewed.
const skewLimit = 0.5

// fenceFactor scales the IQR for the outlier fences.
const fenceFactor = 1.5

// IQR is the interquartile range q75 - q25.
func (s Summary) IQR() float64 { return s.Q75 - s.Q25 }

// Fences returns the inclusive range outside of which a value is an outlier.
func (s Summary) Fences() (lower, upper float64) {
	iqr := s.IQR()
	return s.Q25 - fenceFactor*iqr, s.Q75 + fenceFactor*iqr
}

// Outliers returns the values strictly outside the fences, in input order.
func (s Summary) Outliers(values []float64) []float64 {
	lo, hi := s.Fences()
	var out []float64
	for _, v := range values {
		if v < lo || v > hi {
			out = append(out, v)
		}
	}
	return out
}

// Skewness is Pearson's second coefficient 3(mean-median)/stdDev over the
// unrounded values. A constant column (stdDev 0) has skewness 0.
func (s Summary) Skewness() float64 {
	if s.StdDev == 0 || math.IsNaN(s.StdDev) {
		return 0
	}
	return 3 * (s.Mean - s.Median) / s.StdDev
}

// Shape buckets Skewness at ±0.5.
func (s Summary) Shape() Shape {
	sk := s.Skewness()
	switch {
	case sk >= skewLimit:
		return RightSkewed
	case sk <= -skewLimit:
		return LeftSkewed
	default:
		return Normal
	}
}
