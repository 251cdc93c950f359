package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvlens-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/csvlens-cli/internal/config"
	"github.com/KaramelBytes/csvlens-cli/internal/utils"
	"github.com/KaramelBytes/csvlens-cli/internal/workspace"
)

var (
	exDelimiter string
	exSheetName string
)

const explorePrompt = "csvlens> "

const exploreHelp = `commands:
  load <file>                       load a file, replacing the current dataset
  columns                           list columns with type, unique and missing counts
  stats [column...]                 statistics for numerical columns
  insights                          regenerate insights
  head [n]                          print the first n rows (default 10)
  report                            full analysis report
  chart <histogram|bar|scatter> <column> [column2]
  help                              show help
  quit | exit                       leave the session`

var exploreCmd = &cobra.Command{
	Use:   "explore [file]",
	Short: "Interactive session over one dataset at a time",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := newWorkspace(loadOptions{delimiter: exDelimiter, sheet: exSheetName})
		if err != nil {
			return err
		}
		s := newSession(ctxOf(cmd), w, cmd.OutOrStdout())
		if len(args) == 1 {
			if _, err := s.exec("load " + args[0]); err != nil {
				return err
			}
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          explorePrompt,
			HistoryFile:     historyPath(),
			AutoComplete:    exploreCompleter(),
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return fmt.Errorf("readline: %w", err)
		}
		defer func() { _ = rl.Close() }()

		fmt.Fprintln(s.out, "type help for help")
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if err != nil {
				// EOF
				return nil
			}
			quit, err := s.exec(line)
			if err != nil {
				fmt.Fprintln(s.out, "✗ Error:", err)
			}
			if quit {
				return nil
			}
		}
	},
}

// session dispatches explore commands against a workspace.
type session struct {
	ctx        context.Context
	w          *workspace.Workspace
	out        io.Writer
	sampleRows int
	bins       int
	limit      int
}

func newSession(ctx context.Context, w *workspace.Workspace, out io.Writer) *session {
	s := settings()
	return &session{
		ctx:        ctx,
		w:          w,
		out:        out,
		sampleRows: s.SampleRows,
		bins:       s.HistogramMaxBins,
		limit:      s.CategoryLimit,
	}
}

// exec runs one command line. quit is true for quit and exit.
func (s *session) exec(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "quit", "exit", `\q`:
		return true, nil
	case "help", `\help`:
		fmt.Fprintln(s.out, exploreHelp)
	case "load":
		if len(args) != 1 {
			return false, errors.New("usage: load <file>")
		}
		if err := loadInto(s.ctx, s.w, args[0]); err != nil {
			return false, err
		}
		ds, _ := s.w.Current()
		fmt.Fprintf(s.out, "✓ Loaded %s: %d rows, %d columns\n", ds.Name, ds.RowCount(), len(ds.Columns))
	case "columns":
		return false, s.columns()
	case "stats":
		rows, err := statsRows(s.w, args)
		if err != nil {
			return false, err
		}
		fmt.Fprint(s.out, analysis.StatsTable(rows))
	case "insights":
		list, err := collectInsights(s.w)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, list.markdown())
	case "head":
		n := s.sampleRows
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 0 {
				return false, fmt.Errorf("head: invalid row count %q", args[0])
			}
			n = v
		}
		return false, s.head(n)
	case "report":
		ds, err := s.w.Current()
		if err != nil {
			return false, err
		}
		opt := analysis.DefaultOptions()
		opt.SampleRows = s.sampleRows
		opt.Correlations = true
		fmt.Fprintln(s.out, analysis.Build(ds, opt).Markdown())
	case "chart":
		if len(args) < 2 {
			return false, errors.New("usage: chart <histogram|bar|scatter> <column> [column2]")
		}
		_, md, err := chartSeries(s.w, args[0], args[1:], s.bins, s.limit)
		if err != nil {
			return false, err
		}
		fmt.Fprint(s.out, md())
	default:
		return false, fmt.Errorf("unknown command: %s (type help)", name)
	}
	return false, nil
}

func (s *session) columns() error {
	ds, err := s.w.Current()
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(ds.Columns))
	for _, c := range ds.Columns {
		rows = append(rows, []string{
			c.Name, string(c.Type),
			strconv.Itoa(c.UniqueCount), strconv.Itoa(c.NullCount),
		})
	}
	printTable(s.out, []string{"column", "type", "unique", "missing"}, rows)
	return nil
}

func (s *session) head(n int) error {
	ds, err := s.w.Current()
	if err != nil {
		return err
	}
	names := ds.Names()
	var rows [][]string
	for _, rec := range ds.Head(n) {
		row := make([]string, len(names))
		for i, name := range names {
			if v := rec[name]; v.IsNull() {
				row[i] = "NULL"
			} else {
				row[i] = v.String()
			}
		}
		rows = append(rows, row)
	}
	printTable(s.out, names, rows)
	fmt.Fprintf(s.out, "(%d of %d rows)\n", len(rows), ds.RowCount())
	return nil
}

// printTable writes an aligned text table.
func printTable(w io.Writer, cols []string, rows [][]string) {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i := range cols {
			if i < len(row) && len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}
	printRow := func(values []string) {
		var b strings.Builder
		for i := range cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			v := ""
			if i < len(values) {
				v = values[i]
			}
			b.WriteString(padRight(v, widths[i]))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
	printRow(cols)
	sep := make([]string, len(cols))
	for i := range cols {
		sep[i] = strings.Repeat("-", widths[i])
	}
	fmt.Fprintln(w, strings.Join(sep, "-+-"))
	for _, row := range rows {
		printRow(row)
	}
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func exploreCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("load"),
		readline.PcItem("columns"),
		readline.PcItem("stats"),
		readline.PcItem("insights"),
		readline.PcItem("head"),
		readline.PcItem("report"),
		readline.PcItem("chart",
			readline.PcItem("histogram"),
			readline.PcItem("bar"),
			readline.PcItem("scatter"),
		),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

func historyPath() string {
	dir, err := cfgpkg.Dir()
	if err != nil || utils.EnsureDir(dir) != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().StringVar(&exDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (auto-detect if omitted)")
	exploreCmd.Flags().StringVar(&exSheetName, "sheet", "", "XLSX: sheet name (default first sheet)")
}
