package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool { return hasExt(filename, ".xlsx") }

// Load reads the selected worksheet (the first one by default). Spreadsheets
// drop trailing blank cells, so short rows are padded; fully blank rows are
// skipped and a row wider than the header is malformed.
func (xlsxLoader) Load(ctx context.Context, path string, opt Options) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, dataset.ErrEmptyInput
	}
	sheet := sheets[0]
	if opt.Sheet != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
				opt.Sheet, filepath.Base(path), strings.Join(sheets, ", "))
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var header []string
	var data [][]string
	for i, row := range rows {
		if blank(row) {
			continue
		}
		if header == nil {
			header = row
			continue
		}
		if len(row) > len(header) {
			return nil, &dataset.ParseError{Line: i + 1, Err: fmt.Errorf("row has %d cells, header has %d", len(row), len(header))}
		}
		data = append(data, row)
	}
	if header == nil {
		return nil, dataset.ErrEmptyInput
	}
	name := filepath.Base(path)
	if opt.Sheet != "" {
		name = fmt.Sprintf("%s (sheet: %s)", name, sheet)
	}
	return build(name, header, data)
}

func blank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
