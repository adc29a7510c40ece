package dataset

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"Unit No", "Market", "Nature of Complaint", "Customer Name", "Query Received Date", "Status", "Ignored Column"},
		{"1", "Export", "Barre", "Acme", "2023-02-10", "Open", "x"},
		{"2", "", "Slub", "Globex", "2023-07-20", "Closed", "y"},
	}
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "dump.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	records, err := Load(writeFixture(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.Field("unit_no") != "1" || first.Field("market") != "Export" ||
		first.Field("nature_of_complaint") != "Barre" || first.Field("customer_name") != "Acme" ||
		first.Field("status") != "Open" {
		t.Errorf("first record: %v", first)
	}
	if d, ok := first.Date(); !ok || d.Year() != 2023 {
		t.Errorf("first record date: %v %v", d, ok)
	}
	// empty market cell stays absent and normalizes to Unknown
	if records[1].Field("market") != "Unknown" {
		t.Errorf("second record market = %q, want Unknown", records[1].Field("market"))
	}
	if _, ok := records[1]["ignored_column"]; ok {
		t.Error("unmapped column leaked into the record")
	}
}

func TestLoadRejectsEmptySheet(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty sheet, got nil")
	}
}
