package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const harvest = `plot,variety,yield,harvested
north,merlot,12.5,2024-09-01
north,merlot,13.1,2024-09-02
south,syrah,11.0,2024-09-03
south,syrah,,2024-09-04
east,merlot,14.2,2024-09-05
east,syrah,40.0,2024-09-06
north,syrah,12.9,2024-09-07
south,merlot,13.4,2024-09-08
`

// resetFlags restores every flag to its default so state does not leak
// between invocations of the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := tryCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func tryCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// isolate points HOME at a temp dir and writes the harvest fixture there.
func isolate(t *testing.T) (home, csvPath string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	csvPath = filepath.Join(home, "harvest.csv")
	if err := os.WriteFile(csvPath, []byte(harvest), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return home, csvPath
}

func TestCLI_AnalyzeMarkdown(t *testing.T) {
	_, p := isolate(t)
	out := runCmd(t, "analyze", p, "--sample-rows", "2", "--correlations")
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: harvest.csv",
		"Rows: 8",
		"- yield: numerical (non-null 7, missing 12.5%",
		"- harvested: datetime",
		"yield Outliers Detected",
		"Missing Data Detected",
		"[HEAD ROWS]",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_AnalyzeJSONToFile(t *testing.T) {
	home, p := isolate(t)
	target := filepath.Join(home, "out.json")
	out := runCmd(t, "analyze", p, "--format", "json", "-o", target)
	if !strings.Contains(out, "✓ Wrote analysis to") {
		t.Fatalf("unexpected output: %s", out)
	}
	b, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var rep struct {
		Rows    int `json:"rows"`
		Columns []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"columns"`
	}
	if err := json.Unmarshal(b, &rep); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rep.Rows != 8 || len(rep.Columns) != 4 || rep.Columns[2].Type != "numerical" {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestCLI_ConfigFormatDefault(t *testing.T) {
	home, p := isolate(t)
	cfgPath := filepath.Join(home, "csvlens.yaml")
	runCmd(t, "--config", cfgPath, "config", "set", "output_format", "yaml")
	out := runCmd(t, "--config", cfgPath, "insights", p)
	if !strings.Contains(out, "insights:") || !strings.Contains(out, "data_quality:") {
		t.Fatalf("expected yaml insights, got:\n%s", out)
	}
	shown := runCmd(t, "--config", cfgPath, "config", "show")
	if !strings.Contains(shown, "output_format: yaml") {
		t.Fatalf("config show: %s", shown)
	}
	if _, err := tryCmd(t, "--config", cfgPath, "config", "set", "output_format", "pdf"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestCLI_Stats(t *testing.T) {
	_, p := isolate(t)
	out := runCmd(t, "stats", p)
	if !strings.Contains(out, "| yield | 7 |") {
		t.Fatalf("unexpected stats output:\n%s", out)
	}
	if _, err := tryCmd(t, "stats", p, "missing"); err == nil || !strings.Contains(err.Error(), "unknown column") {
		t.Fatalf("expected unknown column error, got %v", err)
	}
}

func TestCLI_ChartSeries(t *testing.T) {
	_, p := isolate(t)
	out := runCmd(t, "chart", "bar", p, "variety", "--format", "json")
	var cats []struct {
		Label string `json:"label"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &cats); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if len(cats) != 2 || cats[0].Label != "merlot" || cats[0].Count != 4 {
		t.Fatalf("unexpected categories: %+v", cats)
	}

	out = runCmd(t, "chart", "histogram", p, "yield")
	if !strings.Contains(out, "label:") {
		t.Fatalf("expected yaml bins, got:\n%s", out)
	}
	if _, err := tryCmd(t, "chart", "histogram", p, "variety"); err == nil {
		t.Fatalf("expected type error for categorical histogram")
	}
}

func TestCLI_AnalyzeFailsOnRaggedRows(t *testing.T) {
	home, _ := isolate(t)
	bad := filepath.Join(home, "bad.csv")
	if err := os.WriteFile(bad, []byte("a,b\n1,2\n3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := tryCmd(t, "analyze", bad)
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("expected parse error on line 3, got %v", err)
	}
}

func TestAnalyzeBatch_OutDirAndCollisions(t *testing.T) {
	home, _ := isolate(t)
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	for _, d := range []string{d1, d2} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(d, "metrics.csv"), []byte(harvest), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	outDir := filepath.Join(home, "reports")
	runCmd(t, "analyze-batch", filepath.Join(home, "d*", "metrics.csv"), "--out-dir", outDir, "--sample-rows", "0", "--quiet")

	b1 := filepath.Join(outDir, "metrics.report.md")
	b2 := filepath.Join(outDir, "metrics__2.report.md")
	for _, p := range []string{b1, b2} {
		body, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("missing report %s: %v", p, err)
		}
		if strings.Contains(string(body), "[HEAD ROWS]") {
			t.Fatalf("expected no head rows in %s", p)
		}
	}
}
