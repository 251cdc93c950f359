package analysis

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
	"github.com/KaramelBytes/csvlens-cli/internal/insight"
)

var csvRows = []string{
	"Group;Concentration;Temp;Score;Category;Note",
	"A;0.5;70;10.0;alpha;first",
	"A;0.6;71;11.0;alpha;second",
	"A;0.55;69;9.5;beta;third",
	"B;0.7;75;10.5;alpha;fourth",
	"B;0.65;74;9.8;beta;fifth",
	"B;0.68;73;10.2;alpha;sixth",
	"A;0.52;68;8.8;gamma;seventh",
	"B;0.75;76;9.7;beta;eighth",
	"A;3.0;95;50.0;alpha;ninth",
	"B;0.66;;10.1;gamma;tenth",
}

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "lab.csv")
	if err := os.WriteFile(p, []byte(strings.Join(csvRows, "\n")), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}

func TestAnalyzeAndMarkdown(t *testing.T) {
	p := writeFixture(t)
	opt := DefaultOptions()
	opt.SampleRows = 3
	opt.Correlations = true
	rep, err := Analyze(context.Background(), p, opt)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rep.Rows != 10 || len(rep.Columns) != 6 {
		t.Fatalf("unexpected shape: rows=%d cols=%d", rep.Rows, len(rep.Columns))
	}
	types := map[string]dataset.SemanticType{}
	for _, c := range rep.Columns {
		types[c.Name] = c.Type
	}
	want := map[string]dataset.SemanticType{
		"Group":         dataset.Categorical,
		"Concentration": dataset.Numerical,
		"Temp":          dataset.Numerical,
		"Score":         dataset.Numerical,
		"Category":      dataset.Categorical,
		"Note":          dataset.TextType,
	}
	for k, v := range want {
		if types[k] != v {
			t.Fatalf("column %s: got %s want %s", k, types[k], v)
		}
	}
	if len(rep.Numeric) != 3 {
		t.Fatalf("expected 3 numeric summaries, got %d", len(rep.Numeric))
	}
	score := rep.Numeric[2]
	if score.Column != "Score" || score.Stats.Count != 10 || score.Outliers != 1 {
		t.Fatalf("unexpected score summary: %+v", score)
	}
	if len(rep.Correlations) != 3 {
		t.Fatalf("expected 3 correlation pairs, got %d", len(rep.Correlations))
	}
	if len(rep.Head) != 3 || rep.Head[0][0] != "A" || rep.Head[0][1] != "0.5" {
		t.Fatalf("unexpected head rows: %v", rep.Head)
	}
	if rep.Summary.Total != len(rep.Insights) {
		t.Fatalf("summary total mismatch: %d vs %d", rep.Summary.Total, len(rep.Insights))
	}
	if rep.Insights[0].Kind != insight.KindOverview {
		t.Fatalf("first insight should be the overview, got %s", rep.Insights[0].Kind)
	}

	md := rep.Markdown()
	for _, s := range []string{
		"[DATASET SUMMARY]",
		"File: lab.csv",
		"Rows: 10",
		"[SCHEMA]",
		"- Temp: numerical (non-null 9, missing 10.0%",
		"[STATISTICS]",
		"[INSIGHTS]",
		"Missing Data Detected",
		"[CORRELATIONS]",
		"[HEAD ROWS]",
		"| Group | Concentration | Temp | Score | Category | Note |",
	} {
		if !strings.Contains(md, s) {
			t.Fatalf("markdown missing %q:\n%s", s, md)
		}
	}
}

func TestRenderFormats(t *testing.T) {
	rep, err := Analyze(context.Background(), writeFixture(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	js, err := rep.Render("json")
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(js, &back); err != nil {
		t.Fatalf("json output invalid: %v", err)
	}
	if back["rows"].(float64) != 10 {
		t.Fatalf("json rows: %v", back["rows"])
	}
	if _, ok := back["correlations"]; ok {
		t.Fatalf("correlations should be omitted when disabled")
	}

	ym, err := rep.Render("yaml")
	if err != nil {
		t.Fatalf("render yaml: %v", err)
	}
	var ydoc map[string]any
	if err := yaml.Unmarshal(ym, &ydoc); err != nil {
		t.Fatalf("yaml output invalid: %v", err)
	}
	if ydoc["name"] != "lab.csv" {
		t.Fatalf("yaml name: %v", ydoc["name"])
	}

	if _, err := rep.Render("pdf"); err == nil || !strings.Contains(err.Error(), "unknown report format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

func TestAnalyzeEmptyFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(p, []byte("a,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Analyze(context.Background(), p, DefaultOptions()); err == nil {
		t.Fatalf("expected error for header-only file")
	}
}

func TestExtension(t *testing.T) {
	cases := map[string]string{"md": "md", "yaml": "yaml", "json": "json", "": "md"}
	for in, want := range cases {
		if got := Extension(in); got != want {
			t.Fatalf("Extension(%q)=%q want %q", in, got, want)
		}
	}
}
