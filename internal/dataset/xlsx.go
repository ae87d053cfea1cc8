package dataset

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads a worksheet of an Excel workbook. An empty Sheet selects the first one.
type XLSXSource struct {
	Path  string
	Sheet string
}

func (s XLSXSource) Name() string { return "xlsx:" + s.Path }

func (s XLSXSource) Table(ctx context.Context) ([]string, [][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	// Raw values so number formats (thousands separators) do not leak into the cells.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return splitTable("xlsx", rows)
}
