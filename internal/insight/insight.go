// Package insight turns a profiled dataset into an ordered list of
// human-readable findings.
package insight

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
	"github.com/KaramelBytes/csvlens-cli/internal/stats"
)

// Kind names the rule that produced an insight.
type Kind string

const (
	KindOverview       Kind = "overview"
	KindDistribution   Kind = "distribution"
	KindOutliers       Kind = "outliers"
	KindCardinality    Kind = "cardinality"
	KindCategories     Kind = "categories"
	KindQuality        Kind = "quality"
	KindCorrelation    Kind = "correlation"
	KindRecommendation Kind = "recommendation"
)

// Severity grades an insight for presentation.
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Success Severity = "success"
	Error   Severity = "error"
)

// Insight is one finding about a dataset.
type Insight struct {
	Kind     Kind     `json:"kind" yaml:"kind"`
	Title    string   `json:"title" yaml:"title"`
	Body     string   `json:"body" yaml:"body"`
	Severity Severity `json:"severity" yaml:"severity"`
}

const (
	highCardinalityRatio = 0.8
	maxCategories        = 10
	categoryPreview      = 5
	largeDatasetRows     = 1000
)

// Generate applies every rule in display order. lookup supplies the
// statistics of a numerical column; nil recomputes them from ds.
func Generate(ds *dataset.Dataset, lookup func(column string) stats.Summary) []Insight {
	if lookup == nil {
		lookup = stats.Lookup(ds)
	}
	rows := ds.RowCount()
	numerical := ds.ColumnsOf(dataset.Numerical)
	categorical := ds.ColumnsOf(dataset.Categorical)

	out := []Insight{{
		Kind:  KindOverview,
		Title: "Dataset Overview",
		Body: fmt.Sprintf("The dataset contains %d records with %d features: %d numerical and %d categorical columns.",
			rows, len(ds.Columns), len(numerical), len(categorical)),
		Severity: Info,
	}}

	for _, col := range numerical {
		s := lookup(col.Name)
		if s.Empty() {
			continue
		}
		out = append(out, distribution(col.Name, s))
		if in, ok := outliers(col.Name, s, ds.Numbers(col.Name)); ok {
			out = append(out, in)
		}
	}

	for _, col := range categorical {
		if in, ok := categories(col, rows); ok {
			out = append(out, in)
		}
	}

	if in, ok := missing(ds.Columns); ok {
		out = append(out, in)
	}

	if len(numerical) >= 2 {
		names := make([]string, len(numerical))
		for i, c := range numerical {
			names[i] = c.Name
		}
		out = append(out, Insight{
			Kind:  KindCorrelation,
			Title: "Correlation Analysis Opportunity",
			Body: fmt.Sprintf("With %d numerical columns (%s), relationships between variables can be explored with correlation analysis and scatter plots.",
				len(numerical), strings.Join(names, ", ")),
			Severity: Info,
		})
	}

	if rows > largeDatasetRows {
		out = append(out, Insight{
			Kind:  KindRecommendation,
			Title: "Large Dataset Recommendations",
			Body: fmt.Sprintf("With %d rows the dataset supports advanced analytics. Consider sampling for faster visualization, clustering for pattern discovery, or time-series analysis if temporal columns are present.",
				rows),
			Severity: Success,
		})
	}
	return out
}

func distribution(name string, s stats.Summary) Insight {
	var shape string
	switch s.Shape() {
	case stats.RightSkewed:
		shape = "a right-skewed distribution (tail extends to the right)"
	case stats.LeftSkewed:
		shape = "a left-skewed distribution (tail extends to the left)"
	default:
		shape = "an approximately normal distribution"
	}
	d := s.Display()
	relation := "equals"
	switch {
	case s.Mean > s.Median:
		relation = "exceeds"
	case s.Mean < s.Median:
		relation = "is below"
	}
	return Insight{
		Kind:  KindDistribution,
		Title: name + " Distribution",
		Body: fmt.Sprintf("Column '%s' shows %s. The mean (%s) %s the median (%s), with values ranging from %s to %s. Standard deviation is %s.",
			name, shape,
			dataset.FormatNumber(d.Mean), relation, dataset.FormatNumber(d.Median),
			dataset.FormatNumber(d.Min), dataset.FormatNumber(d.Max),
			dataset.FormatNumber(d.StdDev)),
		Severity: Info,
	}
}

func outliers(name string, s stats.Summary, values []float64) (Insight, bool) {
	found := s.Outliers(values)
	if len(found) == 0 {
		return Insight{}, false
	}
	lo, hi := s.Fences()
	pct := float64(len(found)) / float64(len(values)) * 100
	return Insight{
		Kind:  KindOutliers,
		Title: name + " Outliers Detected",
		Body: fmt.Sprintf("Found %d potential outliers (%.1f%% of data) in '%s'. These values fall outside the range [%.2f, %.2f].",
			len(found), pct, name, lo, hi),
		Severity: Warning,
	}, true
}

// categories returns the high-cardinality warning or the category summary.
// Columns between the two thresholds produce nothing.
func categories(col dataset.ColumnDescriptor, rows int) (Insight, bool) {
	nonNull := col.NonNullCount(rows)
	if nonNull == 0 {
		return Insight{}, false
	}
	ratio := float64(col.UniqueCount) / float64(nonNull)
	if ratio > highCardinalityRatio {
		return Insight{
			Kind:  KindCardinality,
			Title: "High Cardinality in " + col.Name,
			Body: fmt.Sprintf("Column '%s' has %d unique values out of %d records (%.1f%%). It behaves more like an identifier than a categorical variable.",
				col.Name, col.UniqueCount, nonNull, ratio*100),
			Severity: Warning,
		}, true
	}
	if col.UniqueCount > maxCategories {
		return Insight{}, false
	}
	preview := col.SampleValues
	more := ""
	if len(preview) > categoryPreview {
		preview = preview[:categoryPreview]
		more = "..."
	}
	labels := make([]string, len(preview))
	for i, v := range preview {
		labels[i] = v.String()
	}
	return Insight{
		Kind:  KindCategories,
		Title: col.Name + " Categories",
		Body: fmt.Sprintf("Column '%s' contains %d distinct categories: %s%s.",
			col.Name, col.UniqueCount, strings.Join(labels, ", "), more),
		Severity: Info,
	}, true
}

func missing(cols []dataset.ColumnDescriptor) (Insight, bool) {
	var parts []string
	for _, c := range cols {
		if c.NullCount > 0 {
			parts = append(parts, fmt.Sprintf("%s (%d missing)", c.Name, c.NullCount))
		}
	}
	if len(parts) == 0 {
		return Insight{}, false
	}
	return Insight{
		Kind:  KindQuality,
		Title: "Missing Data Detected",
		Body: fmt.Sprintf("%d columns contain missing values: %s. Consider imputation or removal strategies.",
			len(parts), strings.Join(parts, ", ")),
		Severity: Warning,
	}, true
}

// Summary counts insights by category and scores the dataset's completeness.
type Summary struct {
	Total           int `json:"total" yaml:"total"`
	Warnings        int `json:"warnings" yaml:"warnings"`
	Recommendations int `json:"recommendations" yaml:"recommendations"`
	// DataQuality is the percentage of columns without missing values.
	DataQuality int `json:"data_quality" yaml:"data_quality"`
}

// Tally summarizes a generated insight list for ds.
func Tally(ds *dataset.Dataset, insights []Insight) Summary {
	sum := Summary{Total: len(insights)}
	for _, in := range insights {
		if in.Severity == Warning {
			sum.Warnings++
		}
		if in.Kind == KindRecommendation {
			sum.Recommendations++
		}
	}
	if len(ds.Columns) > 0 {
		complete := 0
		for _, c := range ds.Columns {
			if c.NullCount == 0 {
				complete++
			}
		}
		sum.DataQuality = int(math.Round(float64(complete) / float64(len(ds.Columns)) * 100))
	}
	return sum
}
