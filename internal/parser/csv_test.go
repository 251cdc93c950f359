package parser_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
	"github.com/KaramelBytes/csvlens-cli/internal/parser"
)

func TestParse_HarvestLog(t *testing.T) {
	content := "date,plot,alpha_acids,moisture\n" +
		"2024-08-10,A1,12.5,74\n" +
		"\n" +
		"2024-08-12,A1,11.8,\n" +
		"2024-08-15,B3,10.2,68\n" +
		"2024-08-16,B3,10.9,70\n" +
		"08/20/2024,A1,12.1,73\n" +
		"2024-08-22,B3,9.7,66\n"
	ds, err := parser.Parse(context.Background(), "hop_harvest.csv", strings.NewReader(content), parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ds.Name != "hop_harvest.csv" {
		t.Fatalf("name = %q", ds.Name)
	}
	if ds.RowCount() != 6 {
		t.Fatalf("rows = %d, want 6 (empty line skipped)", ds.RowCount())
	}
	want := []string{"date", "plot", "alpha_acids", "moisture"}
	got := ds.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	types := map[string]dataset.SemanticType{
		"date":        dataset.Datetime,
		"plot":        dataset.Categorical,
		"alpha_acids": dataset.Numerical,
		"moisture":    dataset.Numerical,
	}
	for name, typ := range types {
		c, ok := ds.Column(name)
		if !ok {
			t.Fatalf("column %q missing", name)
		}
		if c.Type != typ {
			t.Fatalf("%s type = %s, want %s", name, c.Type, typ)
		}
		if c.NullCount+c.NonNullCount(ds.RowCount()) != ds.RowCount() {
			t.Fatalf("%s null accounting broken", name)
		}
	}
	moisture, _ := ds.Column("moisture")
	if moisture.NullCount != 1 {
		t.Fatalf("moisture nulls = %d, want 1", moisture.NullCount)
	}
	for i, r := range ds.Records {
		if len(r) != len(ds.Columns) {
			t.Fatalf("record %d has %d entries, want %d", i, len(r), len(ds.Columns))
		}
	}
}

func TestParse_RaggedRowFails(t *testing.T) {
	content := "a,b,c\n1,2,3\n4,5\n"
	ds, err := parser.Parse(context.Background(), "bad.csv", strings.NewReader(content), parser.Options{})
	if ds != nil {
		t.Fatalf("expected no dataset on failure")
	}
	var pe *dataset.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Line != 3 {
		t.Fatalf("line = %d, want 3", pe.Line)
	}
}

func TestParse_BadQuoteFails(t *testing.T) {
	content := "a,b\n\"x,1\n"
	_, err := parser.Parse(context.Background(), "q.csv", strings.NewReader(content), parser.Options{})
	var pe *dataset.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParse_Empty(t *testing.T) {
	for _, content := range []string{"", "a,b,c\n", "\n\n"} {
		ds, err := parser.Parse(context.Background(), "e.csv", strings.NewReader(content), parser.Options{})
		if !errors.Is(err, dataset.ErrEmptyInput) {
			t.Fatalf("content %q: err = %v, want ErrEmptyInput", content, err)
		}
		if ds != nil {
			t.Fatalf("content %q: expected nil dataset", content)
		}
	}
}

func TestParse_DelimiterSniffAndBOM(t *testing.T) {
	content := "\xEF\xBB\xBFname;score;note\nann;1,5;\"a;b\"\nbob;2;c\n"
	ds, err := parser.Parse(context.Background(), "s.csv", strings.NewReader(content), parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := strings.Join(ds.Names(), "|"); got != "name|score|note" {
		t.Fatalf("columns = %q", got)
	}
	if s, _ := ds.Records[0]["note"].Text(); s != "a;b" {
		t.Fatalf("quoted field = %q", s)
	}
	// "1,5" is not a decimal literal here
	if ds.Records[0]["score"].Kind() != dataset.KindText {
		t.Fatalf("score[0] kind = %v", ds.Records[0]["score"].Kind())
	}
}

func TestParse_DuplicateHeaders(t *testing.T) {
	content := "x,x,y,x\n1,2,3,4\n"
	ds, err := parser.Parse(context.Background(), "d.csv", strings.NewReader(content), parser.Options{Delimiter: ','})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := strings.Join(ds.Names(), ","); got != "x,x_1,y,x_2" {
		t.Fatalf("columns = %q", got)
	}
	if f, _ := ds.Records[0]["x_2"].Number(); f != 4 {
		t.Fatalf("x_2 = %v", f)
	}
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := parser.Parse(ctx, "c.csv", strings.NewReader("a\n1\n"), parser.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestParseFile_Registry(t *testing.T) {
	dir := t.TempDir()
	tsv := filepath.Join(dir, "m.tsv")
	if err := os.WriteFile(tsv, []byte("a\tb\n1\t2\n3\t4\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := parser.ParseFile(context.Background(), tsv, parser.Options{})
	if err != nil {
		t.Fatalf("parse tsv: %v", err)
	}
	if ds.Name != "m.tsv" || len(ds.Columns) != 2 || ds.RowCount() != 2 {
		t.Fatalf("unexpected dataset: %s %d cols %d rows", ds.Name, len(ds.Columns), ds.RowCount())
	}

	doc := filepath.Join(dir, "a.docx")
	if err := os.WriteFile(doc, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := parser.ParseFile(context.Background(), doc, parser.Options{}); !errors.Is(err, parser.ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	if parser.Supported(doc) || !parser.Supported("x.CSV") {
		t.Fatalf("Supported() mismatch")
	}
}
