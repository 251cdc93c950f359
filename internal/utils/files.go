package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

// ReportPath returns <dir>/<base>.report.<ext> for src, adding __2, __3 ...
// to the base name when taken reports a collision.
func ReportPath(dir, src, ext string, taken func(string) bool) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	name := filepath.Join(dir, base+".report."+ext)
	for i := 2; taken(name); i++ {
		name = filepath.Join(dir, fmt.Sprintf("%s__%d.report.%s", base, i, ext))
	}
	return name
}
