package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvlens-cli/internal/analysis"
	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
	"github.com/KaramelBytes/csvlens-cli/internal/workspace"
)

var (
	stFormat    string
	stDelimiter string
	stSheetName string
)

var statsCmd = &cobra.Command{
	Use:   "stats <file> [column...]",
	Short: "Print descriptive statistics for numerical columns",
	Long: `Print count, mean, median, mode, min, max, population standard deviation
and nearest-rank quartiles. Without column arguments every numerical column
is summarized.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openDataset(cmd, loadOptions{delimiter: stDelimiter, sheet: stSheetName}, args[0])
		if err != nil {
			return err
		}
		rows, err := statsRows(w, args[1:])
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), pickFormat(cmd, stFormat), rows, func() string {
			if len(rows) == 0 {
				return "No numerical columns."
			}
			return analysis.StatsTable(rows)
		})
	},
}

// statsRows summarizes the named columns, or every numerical column.
func statsRows(w *workspace.Workspace, columns []string) ([]analysis.NumericSummary, error) {
	ds, err := w.Current()
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		for _, c := range ds.ColumnsOf(dataset.Numerical) {
			columns = append(columns, c.Name)
		}
	}
	rows := make([]analysis.NumericSummary, 0, len(columns))
	for _, name := range columns {
		if _, _, err := w.Column(name); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
		ns, _ := analysis.Summarize(ds, name)
		rows = append(rows, ns)
	}
	return rows, nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&stFormat, "format", "md", "output format: md|yaml|json")
	statsCmd.Flags().StringVar(&stDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (auto-detect if omitted)")
	statsCmd.Flags().StringVar(&stSheetName, "sheet", "", "XLSX: sheet name (default first sheet)")
}
