package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/GregMSThompson/quality-dashboard/internal/errs"
	"github.com/GregMSThompson/quality-dashboard/internal/models"
)

func sampleTable() Table {
	return Table{
		Title:   "Deviation Trends",
		Columns: []string{"date", "critical", "major"},
		Rows: []models.Record{
			{"date": "2024-01-01", "critical": float64(2), "major": float64(5)},
			{"date": "2024-01-02", "critical": float64(1), "major": 3.5},
		},
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		title  string
		format Format
		want   string
	}{
		{"Deviation Trends", FormatCSV, "Deviation_Trends_2024-03-15.csv"},
		{"CAPA   Status\tOverview", FormatXLSX, "CAPA_Status_Overview_2024-03-15.xlsx"},
		{"Audit", FormatCSV, "Audit_2024-03-15.csv"},
	}
	for _, tt := range tests {
		if got := Filename(tt.title, now, tt.format); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"csv": FormatCSV, "xlsx": FormatXLSX, "excel": FormatXLSX} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}

	_, err := ParseFormat("pdf")
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestColumns_PreferredFirstThenSorted(t *testing.T) {
	rows := []models.Record{
		{"date": "2024-01-01", "minor": 1, "critical": 2},
		{"date": "2024-01-02", "major": 3, "notes": "x"},
	}
	got := Columns(rows, "date", "critical", "missing", "date")
	want := []string{"date", "critical", "major", "minor", "notes"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := CSV(&buf, sampleTable()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "date,critical,major\n2024-01-01,2,5\n2024-01-02,1,3.5\n"
	if buf.String() != want {
		t.Errorf("CSV output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCSV_MissingFieldIsEmpty(t *testing.T) {
	var buf bytes.Buffer
	tbl := Table{Columns: []string{"a", "b"}, Rows: []models.Record{{"a": "x, y"}}}
	if err := CSV(&buf, tbl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "\"x, y\",\n") {
		t.Errorf("expected quoted value and empty cell, got %q", buf.String())
	}
}

func TestXLSX(t *testing.T) {
	tbl := sampleTable()
	tbl.Rows = append(tbl.Rows, models.Record{"date": "=SUM(A1:A2)", "critical": int64(4), "major": 0})

	var buf bytes.Buffer
	if err := XLSX(&buf, tbl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != "Deviation Trends" {
		t.Fatalf("sheets = %v", sheets)
	}
	rows, err := f.GetRows("Deviation Trends")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	want := [][]string{
		{"date", "critical", "major"},
		{"2024-01-01", "2", "5"},
		{"2024-01-02", "1", "3.5"},
		{"=SUM(A1:A2)", "4", "0"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	formula, err := f.GetCellFormula("Deviation Trends", "A4")
	if err != nil {
		t.Fatalf("GetCellFormula: %v", err)
	}
	if formula != "" {
		t.Errorf("expected no formula, got %q", formula)
	}

	typ, err := f.GetCellType("Deviation Trends", "B2")
	if err != nil {
		t.Fatalf("GetCellType: %v", err)
	}
	if typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
		t.Errorf("expected numeric cell, got type %v", typ)
	}
}

func TestSheetName(t *testing.T) {
	tests := map[string]string{
		"":                                      "Data",
		"Audit/Findings [Q1]":                   "AuditFindings Q1",
		"A very long widget title that exceeds": "A very long widget title that e",
	}
	for in, want := range tests {
		if got := sheetName(in); got != want {
			t.Errorf("sheetName(%q) = %q, want %q", in, got, want)
		}
	}
}
