package analysis

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
	"github.com/KaramelBytes/csvlens-cli/internal/utils"
)

// ErrUnknownFormat is returned by Render for formats other than md, yaml and json.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists the accepted Render formats.
var Formats = []string{"md", "yaml", "json"}

// Extension maps a format to the file extension used for saved reports.
func Extension(format string) string {
	if format == "yaml" {
		return "yaml"
	}
	if format == "json" {
		return "json"
	}
	return "md"
}

// Render serializes the report in the requested format.
func (r *Report) Render(format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "md", "markdown":
		return []byte(r.Markdown()), nil
	case "yaml", "yml":
		b, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	case "json":
		return utils.PrettyJSON(r)
	default:
		return nil, fmt.Errorf("%w: %q (use one of %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

// Markdown renders the report as plain sections readable in a terminal.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Columns)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Columns {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%, unique %d)", safeName(c.Name), c.Type, c.NonNull, missPct, c.Unique))
		if len(c.Samples) > 0 {
			lim := min(len(c.Samples), 5)
			vals := make([]string, lim)
			for i := 0; i < lim; i++ {
				vals[i] = safeVal(c.Samples[i])
			}
			b.WriteString(" e.g. ")
			b.WriteString(strings.Join(vals, " | "))
		}
		b.WriteString("\n")
	}

	if len(r.Numeric) > 0 {
		b.WriteString("\n[STATISTICS]\n")
		b.WriteString(StatsTable(r.Numeric))
	}

	b.WriteString("\n[INSIGHTS]\n")
	for _, in := range r.Insights {
		b.WriteString(fmt.Sprintf("- [%s] %s: %s\n", in.Severity, in.Title, in.Body))
	}
	b.WriteString(fmt.Sprintf("\nTotal %d, warnings %d, recommendations %d, data quality %d%%\n",
		r.Summary.Total, r.Summary.Warnings, r.Summary.Recommendations, r.Summary.DataQuality))

	if len(r.Correlations) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		maxp := min(len(r.Correlations), 10)
		for _, p := range r.Correlations[:maxp] {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f (n=%d)\n", p.A, p.B, p.R, p.N))
		}
	}

	if len(r.Head) > 0 {
		b.WriteString("\n[HEAD ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Head {
			b.WriteString("| ")
			for i, val := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	return b.String()
}

// StatsTable renders numeric summaries as a markdown table. Columns without
// numeric values show a dash.
func StatsTable(rows []NumericSummary) string {
	var b strings.Builder
	b.WriteString("| column | count | mean | median | mode | min | max | std | q25 | q75 | shape | outliers |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, n := range rows {
		s := n.Stats
		if s.Empty() {
			b.WriteString(fmt.Sprintf("| %s | 0 | - | - | - | - | - | - | - | - | - | - |\n", safeVal(n.Column)))
			continue
		}
		b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s | %s | %s | %s | %d |\n",
			safeVal(n.Column), s.Count,
			num(s.Mean), num(s.Median), num(s.Mode), num(s.Min), num(s.Max),
			num(s.StdDev), num(s.Q25), num(s.Q75), n.Shape, n.Outliers))
	}
	return b.String()
}

func num(f float64) string {
	if math.IsNaN(f) {
		return "-"
	}
	return dataset.FormatNumber(f)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
