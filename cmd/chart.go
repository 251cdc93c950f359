package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
	"github.com/KaramelBytes/csvlens-cli/internal/series"
	"github.com/KaramelBytes/csvlens-cli/internal/workspace"
)

var (
	chFormat    string
	chDelimiter string
	chSheetName string
	chBins      int
	chLimit     int
)

var chartCmd = &cobra.Command{
	Use:   "chart <histogram|bar|scatter> <file> <column> [column2]",
	Short: "Print chart-ready data series for a column",
	Long: `Prepare the data behind a chart without drawing it:

  histogram  equal-width bins of a numerical column
  bar        value counts of a categorical column, most frequent first
  scatter    (x, y) pairs of two numerical columns`,
	Args: cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, path, cols := args[0], args[1], args[2:]
		w, err := openDataset(cmd, loadOptions{delimiter: chDelimiter, sheet: chSheetName}, path)
		if err != nil {
			return err
		}
		bins, limit := chartLimits(cmd)
		data, md, err := chartSeries(w, kind, cols, bins, limit)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), chFormat, data, md)
	},
}

func chartLimits(cmd *cobra.Command) (bins, limit int) {
	s := settings()
	bins, limit = s.HistogramMaxBins, s.CategoryLimit
	if cmd != nil && cmd.Flags().Changed("bins") {
		bins = chBins
	}
	if cmd != nil && cmd.Flags().Changed("limit") {
		limit = chLimit
	}
	return bins, limit
}

// chartSeries builds the series for kind over the workspace dataset. It
// returns the structured data and its markdown form.
func chartSeries(w *workspace.Workspace, kind string, cols []string, bins, limit int) (any, func() string, error) {
	need := 1
	switch kind {
	case "histogram", "bar":
	case "scatter":
		need = 2
	default:
		return nil, nil, fmt.Errorf("unknown chart kind %q (use histogram|bar|scatter)", kind)
	}
	if len(cols) != need {
		return nil, nil, fmt.Errorf("%s chart needs %d column(s), got %d", kind, need, len(cols))
	}
	var ds *dataset.Dataset
	for _, c := range cols {
		d, col, err := w.Column(c)
		if err != nil {
			return nil, nil, err
		}
		want := dataset.Numerical
		if kind == "bar" {
			want = dataset.Categorical
		}
		if col.Type != want {
			return nil, nil, fmt.Errorf("%s chart needs a %s column; %q is %s", kind, want, c, col.Type)
		}
		ds = d
	}

	switch kind {
	case "histogram":
		hist := series.Histogram(ds.Numbers(cols[0]), bins)
		return hist, func() string {
			var b strings.Builder
			b.WriteString("| range | count |\n| --- | --- |\n")
			for _, bin := range hist {
				b.WriteString(fmt.Sprintf("| %s | %d |\n", bin.Label, bin.Count))
			}
			return b.String()
		}, nil
	case "bar":
		cats := series.Categories(ds, cols[0], limit)
		return cats, func() string {
			var b strings.Builder
			b.WriteString("| value | count |\n| --- | --- |\n")
			for _, c := range cats {
				b.WriteString(fmt.Sprintf("| %s | %d |\n", c.Label, c.Count))
			}
			return b.String()
		}, nil
	case "scatter":
		pts := series.Scatter(ds, cols[0], cols[1])
		return pts, func() string {
			var b strings.Builder
			b.WriteString(fmt.Sprintf("| %s | %s |\n| --- | --- |\n", cols[0], cols[1]))
			for _, p := range pts {
				b.WriteString(fmt.Sprintf("| %s | %s |\n", dataset.FormatNumber(p.X), dataset.FormatNumber(p.Y)))
			}
			return b.String()
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown chart kind %q (use histogram|bar|scatter)", kind)
	}
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVar(&chFormat, "format", "yaml", "output format: md|yaml|json")
	chartCmd.Flags().StringVar(&chDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (auto-detect if omitted)")
	chartCmd.Flags().StringVar(&chSheetName, "sheet", "", "XLSX: sheet name (default first sheet)")
	chartCmd.Flags().IntVar(&chBins, "bins", 20, "histogram: maximum number of bins")
	chartCmd.Flags().IntVar(&chLimit, "limit", 15, "bar: maximum number of categories (0 = all)")
}
