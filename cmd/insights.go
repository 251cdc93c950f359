package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvlens-cli/internal/insight"
	"github.com/KaramelBytes/csvlens-cli/internal/workspace"
)

var (
	inFormat    string
	inDelimiter string
	inSheetName string
)

type insightList struct {
	Insights []insight.Insight `json:"insights" yaml:"insights"`
	Summary  insight.Summary   `json:"summary" yaml:"summary"`
}

var insightsCmd = &cobra.Command{
	Use:   "insights <file>",
	Short: "Generate plain-language insights about a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openDataset(cmd, loadOptions{delimiter: inDelimiter, sheet: inSheetName}, args[0])
		if err != nil {
			return err
		}
		list, err := collectInsights(w)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), pickFormat(cmd, inFormat), list, list.markdown)
	},
}

func collectInsights(w *workspace.Workspace) (insightList, error) {
	ds, err := w.Current()
	if err != nil {
		return insightList{}, err
	}
	ins, err := w.Insights()
	if err != nil {
		return insightList{}, err
	}
	return insightList{Insights: ins, Summary: insight.Tally(ds, ins)}, nil
}

func (l insightList) markdown() string {
	var b strings.Builder
	for _, in := range l.Insights {
		b.WriteString(fmt.Sprintf("- [%s] %s (%s)\n  %s\n", in.Severity, in.Title, in.Kind, in.Body))
	}
	b.WriteString(fmt.Sprintf("\nTotal %d, warnings %d, recommendations %d, data quality %d%%",
		l.Summary.Total, l.Summary.Warnings, l.Summary.Recommendations, l.Summary.DataQuality))
	return b.String()
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.Flags().StringVar(&inFormat, "format", "md", "output format: md|yaml|json")
	insightsCmd.Flags().StringVar(&inDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (auto-detect if omitted)")
	insightsCmd.Flags().StringVar(&inSheetName, "sheet", "", "XLSX: sheet name (default first sheet)")
}
