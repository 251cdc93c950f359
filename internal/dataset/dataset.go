package dataset

import (
	"time"

	"github.com/google/uuid"
)

// SemanticType is the inferred domain meaning of a column.
type SemanticType string

const (
	Numerical   SemanticType = "numerical"
	Categorical SemanticType = "categorical"
	Datetime    SemanticType = "datetime"
	TextType    SemanticType = "text"
)

// MaxSampleValues bounds ColumnDescriptor.SampleValues.
const MaxSampleValues = 10

// Record maps every column name to its coerced value.
type Record map[string]Value

// ColumnDescriptor captures cardinality, missingness and the inferred type of
// one column.
type ColumnDescriptor struct {
	Name         string
	Type         SemanticType
	UniqueCount  int
	NullCount    int
	SampleValues []Value
}

// Dataset is the immutable result of parsing one file.
type Dataset struct {
	ID        string
	Name      string
	Records   []Record
	Columns   []ColumnDescriptor
	CreatedAt time.Time
}

// New assembles a dataset. Callers hand over ownership of records and columns.
func New(name string, records []Record, columns []ColumnDescriptor) *Dataset {
	return &Dataset{
		ID:        uuid.NewString(),
		Name:      name,
		Records:   records,
		Columns:   columns,
		CreatedAt: time.Now(),
	}
}

// RowCount returns the number of data records.
func (d *Dataset) RowCount() int { return len(d.Records) }

// Column looks up a column descriptor by name.
func (d *Dataset) Column(name string) (ColumnDescriptor, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDescriptor{}, false
}

// ColumnsOf returns the columns classified as t, in source order.
func (d *Dataset) ColumnsOf(t SemanticType) []ColumnDescriptor {
	var out []ColumnDescriptor
	for _, c := range d.Columns {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Values returns the column's values in row order, nulls included.
func (d *Dataset) Values(name string) []Value {
	out := make([]Value, len(d.Records))
	for i, r := range d.Records {
		out[i] = r[name]
	}
	return out
}

// Numbers returns the numeric values of a column in row order, skipping
// every non-number cell.
func (d *Dataset) Numbers(name string) []float64 {
	var out []float64
	for _, r := range d.Records {
		if f, ok := r[name].Number(); ok {
			out = append(out, f)
		}
	}
	return out
}

// NonNullCount is the number of rows holding a value for the column.
func (c ColumnDescriptor) NonNullCount(rows int) int { return rows - c.NullCount }

// Head returns up to n leading records.
func (d *Dataset) Head(n int) []Record {
	if n < 0 {
		n = 0
	}
	if n > len(d.Records) {
		n = len(d.Records)
	}
	return d.Records[:n]
}

// Names returns the column names in source order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}
