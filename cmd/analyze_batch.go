package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvlens-cli/internal/analysis"
	"github.com/KaramelBytes/csvlens-cli/internal/utils"
)

var (
	abOutDir     string
	abFormat     string
	abDelimiter  string
	abSheetName  string
	abSampleRows int
	abCorr       bool
	abQuiet      bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files with progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		opt := reportOptions(cmd, abSampleRows, abCorr)
		popt, err := loadOptions{delimiter: abDelimiter, sheet: abSheetName}.parserOptions()
		if err != nil {
			return err
		}
		opt.Delimiter = popt.Delimiter
		opt.Sheet = popt.Sheet
		format := pickFormat(cmd, abFormat)

		if abOutDir != "" {
			if err := utils.EnsureDir(abOutDir); err != nil {
				return fmt.Errorf("create out dir: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			ctx, cancel := parseContext(cmd)
			rep, err := analysis.Analyze(ctx, path, opt)
			cancel()
			if err != nil {
				return err
			}
			log.Debug().Str("file", path).Int("rows", rep.Rows).Int("insights", len(rep.Insights)).Msg("analyzed")
			body, err := rep.Render(format)
			if err != nil {
				return err
			}

			if abOutDir == "" {
				fmt.Fprintln(out, string(body))
				continue
			}
			target := utils.ReportPath(abOutDir, path, analysis.Extension(format), exists)
			if base := filepath.Base(target); !abQuiet && base != reportBase(path, format) {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Detected existing report, writing to %s to avoid overwrite.\n", base)
			}
			if err := utils.SafeWriteFile(target, body); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", target)
			}
		}
		return nil
	},
}

// expandInputs resolves glob patterns and literal paths, deduplicated and sorted.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if exists(arg) {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func reportBase(src, format string) string {
	return filepath.Base(utils.ReportPath("", src, analysis.Extension(format), func(string) bool { return false }))
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory to write <name>.report.<ext> files (stdout if omitted)")
	analyzeBatchCmd.Flags().StringVar(&abFormat, "format", "md", "report format: md|yaml|json")
	analyzeBatchCmd.Flags().StringVar(&abDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (auto-detect if omitted)")
	analyzeBatchCmd.Flags().StringVar(&abSheetName, "sheet", "", "XLSX: sheet name to analyze (default first sheet)")
	analyzeBatchCmd.Flags().IntVar(&abSampleRows, "sample-rows", 10, "number of leading rows to include (0 disables)")
	analyzeBatchCmd.Flags().BoolVar(&abCorr, "correlations", false, "compute Pearson correlations among numerical columns")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
