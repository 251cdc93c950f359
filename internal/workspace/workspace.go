// Package workspace holds the single current dataset of an interactive
// session. Loading a file replaces the dataset wholesale.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
	"github.com/KaramelBytes/csvlens-cli/internal/insight"
	"github.com/KaramelBytes/csvlens-cli/internal/parser"
	"github.com/KaramelBytes/csvlens-cli/internal/stats"
)

var (
	// ErrNoDataset is returned before the first successful Load.
	ErrNoDataset = errors.New("no dataset loaded")
	// ErrUnknownColumn is returned for column names absent from the dataset.
	ErrUnknownColumn = errors.New("unknown column")
)

// Workspace owns the current dataset slot. Readers always observe either the
// previous or the new dataset, never a partial one.
type Workspace struct {
	current atomic.Pointer[dataset.Dataset]
	opt     parser.Options
	timeout time.Duration
}

// New creates an empty workspace. timeout bounds each Load; zero disables it.
func New(opt parser.Options, timeout time.Duration) *Workspace {
	return &Workspace{opt: opt, timeout: timeout}
}

// Load parses path completely and then swaps it in. On failure the previous
// dataset stays current.
func (w *Workspace) Load(ctx context.Context, path string) (*dataset.Dataset, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	ds, err := parser.ParseFile(ctx, path, w.opt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	w.current.Store(ds)
	return ds, nil
}

// Replace installs an already built dataset.
func (w *Workspace) Replace(ds *dataset.Dataset) {
	w.current.Store(ds)
}

// Current returns the loaded dataset.
func (w *Workspace) Current() (*dataset.Dataset, error) {
	ds := w.current.Load()
	if ds == nil {
		return nil, ErrNoDataset
	}
	return ds, nil
}

// Column resolves a column of the current dataset.
func (w *Workspace) Column(name string) (*dataset.Dataset, dataset.ColumnDescriptor, error) {
	ds, err := w.Current()
	if err != nil {
		return nil, dataset.ColumnDescriptor{}, err
	}
	col, ok := ds.Column(name)
	if !ok {
		return nil, dataset.ColumnDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return ds, col, nil
}

// Stats summarizes one column of the current dataset. A column without
// numeric cells yields the empty summary.
func (w *Workspace) Stats(column string) (stats.Summary, error) {
	ds, _, err := w.Column(column)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.ForColumn(ds, column), nil
}

// Insights regenerates the insight list of the current dataset.
func (w *Workspace) Insights() ([]insight.Insight, error) {
	ds, err := w.Current()
	if err != nil {
		return nil, err
	}
	return insight.Generate(ds, nil), nil
}
