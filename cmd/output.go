package cmd

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/csvlens-cli/internal/analysis"
	"github.com/KaramelBytes/csvlens-cli/internal/utils"
)

// render serializes v as yaml or json, or calls md for the markdown form.
func render(format string, v any, md func() string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "md", "markdown":
		return []byte(md()), nil
	case "yaml", "yml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	case "json":
		return utils.PrettyJSON(v)
	default:
		return nil, fmt.Errorf("%w: %q (use one of %s)", analysis.ErrUnknownFormat, format, strings.Join(analysis.Formats, ", "))
	}
}

func emit(w io.Writer, format string, v any, md func() string) error {
	b, err := render(format, v, md)
	if err != nil {
		return err
	}
	s := string(b)
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err = io.WriteString(w, s)
	return err
}
