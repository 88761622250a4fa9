package importer

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/orbook/orbook/internal/platform/apperr"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestParseWorkbook(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Patient Name", "MRN", "Case Type", "Procedure", "Est Duration (min)", "Surgeon"},
		{"Ada Lovelace", "11110001", "Elective", "Knee arthroscopy", 60, "dr-smith"},
		{"Grace Hopper", "11110002", "", "Hip replacement", "not-a-number", ""},
	})

	rows, err := ParseWorkbook(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	want := Row{PatientName: "Ada Lovelace", MRN: "11110001", CaseTypeName: "Elective",
		Procedure: "Knee arthroscopy", EstDurationMin: 60, SurgeonID: "dr-smith"}
	if rows[0] != want {
		t.Errorf("rows[0] = %+v, want %+v", rows[0], want)
	}
	if rows[1].EstDurationMin != 0 {
		t.Errorf("unparseable duration should stay 0, got %d", rows[1].EstDurationMin)
	}
}

func TestParseWorkbookHeaderAliases(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"name", "medical_record_number", "duration-min"},
		{"Ada Lovelace", "11110001", "45"},
	})

	rows, err := ParseWorkbook(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].PatientName != "Ada Lovelace" || rows[0].MRN != "11110001" || rows[0].EstDurationMin != 45 {
		t.Errorf("rows[0] = %+v", rows[0])
	}
}

func TestParseWorkbookSkipsBlankLines(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Patient", "MRN"},
		{"Ada Lovelace", "11110001"},
		{"", ""},
		{"   ", ""},
		{"Grace Hopper", "11110002"},
	})

	rows, err := ParseWorkbook(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("len(rows) = %d, want 2", len(rows))
	}
}

func TestParseWorkbookRejectsGarbage(t *testing.T) {
	if _, err := ParseWorkbook(bytes.NewBufferString("not a zip archive")); apperr.KindOf(err) != apperr.KindInvalid {
		t.Errorf("garbage input: kind = %v, want invalid", apperr.KindOf(err))
	}

	noColumns := buildWorkbook(t, [][]interface{}{
		{"Foo", "Bar"},
		{"a", "b"},
	})
	if _, err := ParseWorkbook(noColumns); apperr.KindOf(err) != apperr.KindInvalid {
		t.Errorf("unrecognized header: kind = %v, want invalid", apperr.KindOf(err))
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Patient Name", "patientname"},
		{"  MRN ", "mrn"},
		{"est_duration_min", "estdurationmin"},
		{"Est Duration (min)", "estdurationmin"},
		{"duration-min", "durationmin"},
	}
	for _, tt := range tests {
		if got := normalizeHeader(tt.in); got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
