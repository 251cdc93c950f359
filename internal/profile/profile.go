// Package profile derives per-column cardinality, missingness and semantic
// type from coerced values.
package profile

import (
	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
)

const (
	// typeShare is the fraction of non-null values that must share a kind
	// before the column takes that type. The comparison is strict.
	typeShare = 0.8
	// maxCategories caps unique values for a categorical column.
	maxCategories = 10
	// categoryShare caps unique values relative to the non-null count.
	categoryShare = 0.5
)

// Column builds the descriptor for one column from its full value sequence,
// nulls included.
func Column(name string, values []dataset.Value) dataset.ColumnDescriptor {
	desc := dataset.ColumnDescriptor{Name: name}
	seen := make(map[dataset.Key]struct{})
	var numbers, dates, nonNull int
	for _, v := range values {
		switch v.Kind() {
		case dataset.KindNull:
			desc.NullCount++
			continue
		case dataset.KindNumber:
			numbers++
		case dataset.KindDate:
			dates++
		}
		nonNull++
		k := v.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		if len(desc.SampleValues) < dataset.MaxSampleValues {
			desc.SampleValues = append(desc.SampleValues, v)
		}
	}
	desc.UniqueCount = len(seen)
	desc.Type = classify(nonNull, numbers, dates, desc.UniqueCount)
	return desc
}

// Classify returns the semantic type of a value sequence.
func Classify(values []dataset.Value) dataset.SemanticType {
	return Column("", values).Type
}

func classify(n, numbers, dates, unique int) dataset.SemanticType {
	if n == 0 {
		return dataset.TextType
	}
	total := float64(n)
	switch {
	case float64(numbers) > typeShare*total:
		return dataset.Numerical
	case float64(dates) > typeShare*total:
		return dataset.Datetime
	case float64(unique) <= minFloat(maxCategories, total*categoryShare):
		return dataset.Categorical
	default:
		return dataset.TextType
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
