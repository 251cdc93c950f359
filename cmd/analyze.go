package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvlens-cli/internal/analysis"
	"github.com/KaramelBytes/csvlens-cli/internal/utils"
)

var (
	anaOutputPath string
	anaFormat     string
	anaDelimiter  string
	anaSheetName  string
	anaSampleRows int
	anaCorr       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a CSV/TSV/XLSX file and produce a full report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt := reportOptions(cmd, anaSampleRows, anaCorr)
		format := pickFormat(cmd, anaFormat)

		w, err := openDataset(cmd, loadOptions{delimiter: anaDelimiter, sheet: anaSheetName}, path)
		if err != nil {
			return err
		}
		ds, err := w.Current()
		if err != nil {
			return err
		}
		out, err := analysis.Build(ds, opt).Render(format)
		if err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

// reportOptions merges report flags over the configured defaults.
func reportOptions(cmd *cobra.Command, sampleRows int, corr bool) analysis.Options {
	s := settings()
	opt := analysis.DefaultOptions()
	opt.SampleRows = s.SampleRows
	opt.Correlations = s.Correlations
	if cmd.Flags().Changed("sample-rows") {
		opt.SampleRows = sampleRows
	}
	if cmd.Flags().Changed("correlations") {
		opt.Correlations = corr
	}
	return opt
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "md", "report format: md|yaml|json")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (auto-detect if omitted)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet", "", "XLSX: sheet name to analyze (default first sheet)")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 10, "number of leading rows to include (0 disables)")
	analyzeCmd.Flags().BoolVar(&anaCorr, "correlations", false, "compute Pearson correlations among numerical columns")
}
