package parser

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
)

// ctx is polled once per this many rows.
const ctxCheckRows = 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool { return hasExt(filename, ".csv", ".txt") }

func (csvLoader) Load(ctx context.Context, path string, opt Options) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Parse(ctx, filepath.Base(path), f, opt)
}

type tsvLoader struct{}

func (tsvLoader) CanLoad(filename string) bool { return hasExt(filename, ".tsv", ".tab") }

func (tsvLoader) Load(ctx context.Context, path string, opt Options) (*dataset.Dataset, error) {
	if opt.Delimiter == 0 {
		opt.Delimiter = '\t'
	}
	return csvLoader{}.Load(ctx, path, opt)
}

// Parse reads delimited text whose first row is the header. Every row must
// have exactly as many fields as the header; a malformed row fails the whole
// parse with a *dataset.ParseError. Input without data rows yields
// dataset.ErrEmptyInput.
func Parse(ctx context.Context, name string, r io.Reader, opt Options) (*dataset.Dataset, error) {
	br := bufio.NewReaderSize(r, 64<<10)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(br)
	}
	cr := csv.NewReader(br)
	cr.Comma = delim
	// 0 pins every record to the header's field count
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, dataset.ErrEmptyInput
		}
		return nil, toParseError(err)
	}
	header = append([]string(nil), header...)

	var rows [][]string
	for i := 0; ; i++ {
		if i%ctxCheckRows == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, toParseError(err)
		}
		rows = append(rows, rec)
	}
	return build(name, header, rows)
}

func toParseError(err error) error {
	var ce *csv.ParseError
	if errors.As(err, &ce) {
		return &dataset.ParseError{Line: ce.Line, Err: ce.Err}
	}
	return &dataset.ParseError{Err: err}
}

var delimiterCandidates = []rune{',', ';', '\t', '|'}

// sniffDelimiter picks the candidate occurring most often, outside quotes, in
// the first line. Ties go to the earlier candidate; none found means ','.
func sniffDelimiter(br *bufio.Reader) rune {
	buf, _ := br.Peek(4096)
	if i := bytes.IndexByte(buf, '\n'); i >= 0 {
		buf = buf[:i]
	}
	counts := make(map[rune]int, len(delimiterCandidates))
	inQuotes := false
	for _, c := range string(buf) {
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[c]++
		}
	}
	best, bestN := ',', 0
	for _, d := range delimiterCandidates {
		if counts[d] > bestN {
			best, bestN = d, counts[d]
		}
	}
	return best
}
