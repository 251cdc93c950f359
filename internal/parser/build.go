package parser

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
	"github.com/KaramelBytes/csvlens-cli/internal/profile"
)

// build coerces every cell once, keys records by header name and profiles
// each column from the coerced values.
func build(name string, header []string, rows [][]string) (*dataset.Dataset, error) {
	if len(rows) == 0 {
		return nil, dataset.ErrEmptyInput
	}
	names := uniqueNames(header)
	cols := make([][]dataset.Value, len(names))
	for j := range cols {
		cols[j] = make([]dataset.Value, len(rows))
	}
	records := make([]dataset.Record, len(rows))
	for i, row := range rows {
		rec := make(dataset.Record, len(names))
		for j, col := range names {
			var v dataset.Value
			if j < len(row) {
				v = Coerce(row[j])
			}
			rec[col] = v
			cols[j][i] = v
		}
		records[i] = rec
	}
	descs := make([]dataset.ColumnDescriptor, len(names))
	for j, col := range names {
		descs[j] = profile.Column(col, cols[j])
	}
	return dataset.New(name, records, descs), nil
}

// uniqueNames trims header cells and suffixes repeats with _1, _2, ...
func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		name := h
		for n := 1; taken[name]; n++ {
			name = fmt.Sprintf("%s_%d", h, n)
		}
		taken[name] = true
		out[i] = name
	}
	return out
}
