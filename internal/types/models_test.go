package types

import (
	"testing"
	"time"
)

func TestFieldNormalization(t *testing.T) {
	r := Record{
		"market":   "Export",
		"padded":   "  Domestic  ",
		"empty":    "",
		"blank":    "   ",
		"null":     nil,
		"intish":   3.0,
		"fraction": 2.5,
		"flag":     true,
		"nested":   []any{"x"},
	}
	tests := []struct {
		field string
		want  string
	}{
		{"market", "Export"},
		{"padded", "Domestic"},
		{"empty", Unknown},
		{"blank", Unknown},
		{"null", Unknown},
		{"missing", Unknown},
		{"intish", "3"},
		{"fraction", "2.5"},
		{"flag", "true"},
		{"nested", Unknown},
	}
	for _, tt := range tests {
		if got := r.Field(tt.field); got != tt.want {
			t.Errorf("Field(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestDateLayouts(t *testing.T) {
	valid := []string{
		"2023-04-15",
		"2023-04-15T10:30:00Z",
		"2023-04-15 10:30:00",
		"15-04-2023",
		"15/04/2023",
	}
	for _, raw := range valid {
		r := Record{DateField: raw}
		d, ok := r.Date()
		if !ok {
			t.Errorf("Date(%q): not parsed", raw)
			continue
		}
		if d.Year() != 2023 || d.Month() != time.April || d.Day() != 15 {
			t.Errorf("Date(%q) = %v, want 2023-04-15", raw, d)
		}
	}

	for _, raw := range []string{"", "soonish", "2023-13-45"} {
		r := Record{DateField: raw}
		if _, ok := r.Date(); ok {
			t.Errorf("Date(%q): parsed, want failure", raw)
		}
	}
	if _, ok := (Record{}).Date(); ok {
		t.Error("Date on missing field: parsed, want failure")
	}
}

func TestDimensionKey(t *testing.T) {
	tests := []struct {
		name string
		dim  Dimension
		rec  Record
		want string
	}{
		{"unit synthesized", DimUnit, Record{"unit_no": "1"}, "Unit 1"},
		{"unit numeric", DimUnit, Record{"unit_no": 2.0}, "Unit 2"},
		{"unit missing", DimUnit, Record{}, Unknown},
		{"month", DimMonth, Record{DateField: "2023-04-15"}, "Apr"},
		{"month bad date", DimMonth, Record{DateField: "nope"}, Unknown},
		{"year", DimYear, Record{DateField: "2023-04-15"}, "2023"},
		{"plain field", DimMarket, Record{"market": "Export"}, "Export"},
		{"plain missing", DimStatus, Record{}, Unknown},
	}
	for _, tt := range tests {
		if got := tt.dim.Key(tt.rec); got != tt.want {
			t.Errorf("%s: Key = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDispatchStatsBaseline(t *testing.T) {
	s := DispatchStats{
		Stats: map[string]map[string]float64{"unit": {"Unit 1": 1200}},
		Total: 5000,
	}
	if got := s.Baseline("unit", "Unit 1"); got != 1200 {
		t.Errorf("per-category baseline = %v, want 1200", got)
	}
	if got := s.Baseline("unit", "Unit 9"); got != 5000 {
		t.Errorf("missing category should fall back to total, got %v", got)
	}
	if got := s.Baseline("market", "Export"); got != 5000 {
		t.Errorf("missing dimension should fall back to total, got %v", got)
	}
}
