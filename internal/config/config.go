package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	SampleRows   int    `mapstructure:"sample_rows" yaml:"sample_rows"`
	Correlations bool   `mapstructure:"correlations" yaml:"correlations"`
	// Delimiter is empty for auto-detection.
	Delimiter       string `mapstructure:"delimiter" yaml:"delimiter"`
	ParseTimeoutSec int    `mapstructure:"parse_timeout_sec" yaml:"parse_timeout_sec"`

	// Chart series
	HistogramMaxBins int `mapstructure:"histogram_max_bins" yaml:"histogram_max_bins"`
	CategoryLimit    int `mapstructure:"category_limit" yaml:"category_limit"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"output_format", "sample_rows", "correlations", "delimiter", "parse_timeout_sec",
	"histogram_max_bins", "category_limit", "log_level", "log_format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output_format", "md")
	v.SetDefault("sample_rows", 10)
	v.SetDefault("correlations", false)
	v.SetDefault("delimiter", "")
	v.SetDefault("parse_timeout_sec", 0)
	v.SetDefault("histogram_max_bins", 20)
	v.SetDefault("category_limit", 15)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// Dir returns ~/.csvlens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".csvlens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.csvlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CSVLENS")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set validates value and assigns it to key.
func (c *Global) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "output_format":
		switch value {
		case "md", "yaml", "json":
			c.OutputFormat = value
		default:
			return fmt.Errorf("invalid output_format %q (use md|yaml|json)", value)
		}
	case "sample_rows":
		n, err := nonNegative(key, value)
		if err != nil {
			return err
		}
		c.SampleRows = n
	case "correlations":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid correlations value %q: %w", value, err)
		}
		c.Correlations = b
	case "delimiter":
		if _, err := ParseDelimiter(value); err != nil {
			return err
		}
		c.Delimiter = value
	case "parse_timeout_sec":
		n, err := nonNegative(key, value)
		if err != nil {
			return err
		}
		c.ParseTimeoutSec = n
	case "histogram_max_bins":
		n, err := nonNegative(key, value)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("histogram_max_bins must be at least 1")
		}
		c.HistogramMaxBins = n
	case "category_limit":
		n, err := nonNegative(key, value)
		if err != nil {
			return err
		}
		c.CategoryLimit = n
	case "log_level":
		switch value {
		case "debug", "info", "warn", "error":
			c.LogLevel = value
		default:
			return fmt.Errorf("invalid log_level %q (use debug|info|warn|error)", value)
		}
	case "log_format":
		switch value {
		case "console", "json":
			c.LogFormat = value
		default:
			return fmt.Errorf("invalid log_format %q (use console|json)", value)
		}
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

func nonNegative(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q: expected a non-negative integer", key, value)
	}
	return n, nil
}

// ParseDelimiter maps a flag or config value to a delimiter rune. Empty means
// auto-detect and yields 0.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %s (use ','|';'|'tab'|'|')", s)
	}
}

// Defaults returns the configuration with every key at its default value.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}
