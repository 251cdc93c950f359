package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReportPathCollisions(t *testing.T) {
	dir := t.TempDir()
	exists := func(p string) bool {
		_, err := os.Stat(p)
		return err == nil
	}
	first := ReportPath(dir, "/data/sales.csv", "md", exists)
	if filepath.Base(first) != "sales.report.md" {
		t.Fatalf("unexpected first name: %s", first)
	}
	if err := SafeWriteFile(first, []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	second := ReportPath(dir, "other/sales.tsv", "md", exists)
	if filepath.Base(second) != "sales__2.report.md" {
		t.Fatalf("unexpected collision name: %s", second)
	}
	if _, err := os.Stat(first + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}
