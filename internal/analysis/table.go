// Package analysis assembles the full report for one tabular file: schema,
// statistics, insights and optional correlations.
package analysis

import (
	"context"
	"fmt"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
	"github.com/KaramelBytes/csvlens-cli/internal/insight"
	"github.com/KaramelBytes/csvlens-cli/internal/parser"
	"github.com/KaramelBytes/csvlens-cli/internal/stats"
)

// Options controls analysis behavior for tabular data.
type Options struct {
	// SampleRows determines how many leading rows to include in the report.
	SampleRows int
	// Delimiter for CSV. If 0, auto-detects among ',', ';', '\t', '|'.
	Delimiter rune
	// Sheet selects the workbook sheet for .xlsx input.
	Sheet string
	// Correlations computes Pearson correlations among numerical columns.
	Correlations bool
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{SampleRows: 10}
}

// Report is the analysis of one dataset, renderable as markdown, YAML or JSON.
type Report struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Rows         int               `json:"rows" yaml:"rows"`
	Columns      []ColumnSummary   `json:"columns" yaml:"columns"`
	Numeric      []NumericSummary  `json:"statistics" yaml:"statistics"`
	Insights     []insight.Insight `json:"insights" yaml:"insights"`
	Summary      insight.Summary   `json:"summary" yaml:"summary"`
	Correlations []stats.PairCorr  `json:"correlations,omitempty" yaml:"correlations,omitempty"`
	Head         [][]string        `json:"head,omitempty" yaml:"head,omitempty"`
}

// ColumnSummary is the profile of one column.
type ColumnSummary struct {
	Name    string               `json:"name" yaml:"name"`
	Type    dataset.SemanticType `json:"type" yaml:"type"`
	NonNull int                  `json:"non_null" yaml:"non_null"`
	Missing int                  `json:"missing" yaml:"missing"`
	Unique  int                  `json:"unique" yaml:"unique"`
	Samples []string             `json:"samples,omitempty" yaml:"samples,omitempty"`
}

// NumericSummary holds display-rounded statistics of a numerical column.
type NumericSummary struct {
	Column   string        `json:"column" yaml:"column"`
	Stats    stats.Summary `json:"stats" yaml:"stats"`
	Shape    stats.Shape   `json:"shape" yaml:"shape"`
	Outliers int           `json:"outliers" yaml:"outliers"`
}

// Analyze loads a file with the registered loaders and builds its report.
func Analyze(ctx context.Context, path string, opt Options) (*Report, error) {
	ds, err := parser.ParseFile(ctx, path, parser.Options{Delimiter: opt.Delimiter, Sheet: opt.Sheet})
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", path, err)
	}
	return Build(ds, opt), nil
}

// Build derives a report from an already parsed dataset.
func Build(ds *dataset.Dataset, opt Options) *Report {
	rows := ds.RowCount()
	r := &Report{ID: ds.ID, Name: ds.Name, Rows: rows}

	for _, c := range ds.Columns {
		cs := ColumnSummary{
			Name:    c.Name,
			Type:    c.Type,
			NonNull: c.NonNullCount(rows),
			Missing: c.NullCount,
			Unique:  c.UniqueCount,
		}
		for _, v := range c.SampleValues {
			cs.Samples = append(cs.Samples, v.String())
		}
		r.Columns = append(r.Columns, cs)
	}

	summaries := make(map[string]stats.Summary)
	for _, c := range ds.ColumnsOf(dataset.Numerical) {
		ns, raw := Summarize(ds, c.Name)
		summaries[c.Name] = raw
		if raw.Empty() {
			continue
		}
		r.Numeric = append(r.Numeric, ns)
	}

	r.Insights = insight.Generate(ds, func(col string) stats.Summary {
		if s, ok := summaries[col]; ok {
			return s
		}
		return stats.ForColumn(ds, col)
	})
	r.Summary = insight.Tally(ds, r.Insights)

	if opt.Correlations {
		r.Correlations = stats.Correlations(ds)
	}

	names := ds.Names()
	for _, rec := range ds.Head(opt.SampleRows) {
		row := make([]string, len(names))
		for i, n := range names {
			row[i] = rec[n].String()
		}
		r.Head = append(r.Head, row)
	}
	return r
}

// Summarize computes the statistics of one column. It returns the display
// summary and the unrounded one.
func Summarize(ds *dataset.Dataset, column string) (NumericSummary, stats.Summary) {
	values := ds.Numbers(column)
	s := stats.Compute(values)
	return NumericSummary{
		Column:   column,
		Stats:    s.Display(),
		Shape:    s.Shape(),
		Outliers: len(s.Outliers(values)),
	}, s
}
