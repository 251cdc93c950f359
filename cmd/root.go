package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/csvlens-cli/internal/config"
	"github.com/KaramelBytes/csvlens-cli/internal/logger"
	"github.com/KaramelBytes/csvlens-cli/internal/parser"
	"github.com/KaramelBytes/csvlens-cli/internal/workspace"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logLevel  string
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "csvlens",
	Short: "csvlens: profile CSV, TSV and XLSX files from the terminal",
	Long: `csvlens parses a tabular file, infers a semantic type for every column,
computes descriptive statistics and generates plain-language insights about
distribution shape, outliers, cardinality and missing data.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.csvlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console|json (overrides config)")
}

// setup loads configuration and configures logging before every command.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if debug {
		level = "debug"
	}
	format := cfg.LogFormat
	if logFormat != "" {
		format = logFormat
	}
	logger.SetupWriter(cmd.ErrOrStderr(), level, format)
	log = logger.Get("cli")
	log.Debug().Str("command", cmd.CommandPath()).Str("config", cfgFile).Msg("configuration loaded")
	return nil
}

// settings returns the loaded configuration, or defaults before setup ran.
func settings() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	return cfg
}

// loadOptions holds the per-command input flags shared by the data commands.
type loadOptions struct {
	delimiter string
	sheet     string
}

func (o loadOptions) parserOptions() (parser.Options, error) {
	d := o.delimiter
	if d == "" {
		d = settings().Delimiter
	}
	r, err := cfgpkg.ParseDelimiter(d)
	if err != nil {
		return parser.Options{}, err
	}
	return parser.Options{Delimiter: r, Sheet: o.sheet}, nil
}

func newWorkspace(o loadOptions) (*workspace.Workspace, error) {
	popt, err := o.parserOptions()
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(settings().ParseTimeoutSec) * time.Second
	return workspace.New(popt, timeout), nil
}

// loadInto parses path into w and logs the timing.
func loadInto(ctx context.Context, w *workspace.Workspace, path string) error {
	start := time.Now()
	ds, err := w.Load(ctx, path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("load failed")
		return err
	}
	log.Debug().
		Str("dataset", ds.Name).
		Str("id", ds.ID).
		Int("rows", ds.RowCount()).
		Int("columns", len(ds.Columns)).
		Dur("elapsed", time.Since(start)).
		Msg("dataset loaded")
	return nil
}

// parseContext bounds a parse by parse_timeout_sec when it is set.
func parseContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := ctxOf(cmd)
	if sec := settings().ParseTimeoutSec; sec > 0 {
		return context.WithTimeout(ctx, time.Duration(sec)*time.Second)
	}
	return context.WithCancel(ctx)
}

// openDataset builds a one-shot workspace holding path.
func openDataset(cmd *cobra.Command, o loadOptions, path string) (*workspace.Workspace, error) {
	w, err := newWorkspace(o)
	if err != nil {
		return nil, err
	}
	if err := loadInto(ctxOf(cmd), w, path); err != nil {
		return nil, err
	}
	return w, nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// pickFormat resolves --format against the configured default.
func pickFormat(cmd *cobra.Command, flagValue string) string {
	if cmd.Flags().Changed("format") {
		return flagValue
	}
	return settings().OutputFormat
}
