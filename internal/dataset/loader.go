// Package dataset loads complaint records from spreadsheet exports so
// the report tool can run against offline dumps of the complaints API.
package dataset

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"complaint-insights-go/internal/types"
)

// headerRules map spreadsheet header substrings to record field names.
// Order matters: the first match wins, so the more specific rules come
// first ("customer type" before "customer").
var headerRules = []struct {
	contains string
	field    string
}{
	{"customer type", "customer_type"},
	{"complaint type", "complaint_type"},
	{"nature", "nature_of_complaint"},
	{"customer", "customer_name"},
	{"unit", "unit_no"},
	{"market", "market"},
	{"region", "bill_to_region"},
	{"date", types.DateField},
	{"status", "status"},
	{"mode", "complaint_mode"},
	{"department", "department"},
}

// Load reads complaint records from the first sheet of an .xlsx export,
// detecting columns by header heuristics. Cells it cannot attribute to
// a known field are dropped; empty cells stay absent so the usual
// Unknown normalization applies downstream.
func Load(path string) ([]types.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	fields := make(map[int]string)
	for i, h := range rows[0] {
		l := strings.ToLower(strings.TrimSpace(h))
		for _, rule := range headerRules {
			if strings.Contains(l, rule.contains) {
				fields[i] = rule.field
				break
			}
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no recognizable columns in header %v", rows[0])
	}

	out := make([]types.Record, 0, len(rows)-1)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		rec := types.Record{}
		for col, field := range fields {
			if col < len(row) && strings.TrimSpace(row[col]) != "" {
				rec[field] = strings.TrimSpace(row[col])
			}
		}
		if len(rec) == 0 {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
