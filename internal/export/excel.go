// Package export writes aggregation results into a report workbook.
package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"complaint-insights-go/internal/types"
)

// WriteWorkbook writes one sheet per dimension with the bucket names,
// counts and (in ratio mode) per-100 display values.
func WriteWorkbook(path string, results map[string]types.GroupedResult) error {
	f := excelize.NewFile()
	defer f.Close()

	dims := make([]string, 0, len(results))
	for d := range results {
		dims = append(dims, d)
	}
	sort.Strings(dims)

	for i, dim := range dims {
		sheet := sheetName(dim)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("new sheet %s: %w", sheet, err)
			}
		}
		if err := writeSheet(f, sheet, results[dim]); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, g types.GroupedResult) error {
	headers := []any{"Category", "Count", "Per 100"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for i, b := range g {
		row := i + 2
		values := []any{b.Name, b.Count, b.Display}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// sheetName fits a dimension name into Excel's 31-char sheet limit.
func sheetName(dim string) string {
	if len(dim) > 31 {
		return dim[:31]
	}
	return dim
}
