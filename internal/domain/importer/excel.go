package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/orbook/orbook/internal/platform/apperr"
)

// headerAliases maps normalized spreadsheet column headers to row fields.
var headerAliases = map[string]string{
	"patientname":         "patientName",
	"patient":             "patientName",
	"name":                "patientName",
	"mrn":                 "mrn",
	"medicalrecordnumber": "mrn",
	"casetype":            "caseTypeName",
	"casetypename":        "caseTypeName",
	"procedure":           "procedure",
	"estdurationmin":      "estDurationMin",
	"estduration":         "estDurationMin",
	"duration":            "estDurationMin",
	"durationmin":         "estDurationMin",
	"surgeonid":           "surgeonId",
	"surgeon":             "surgeonId",
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "", "_", "", "-", "", "(", "", ")", "").Replace(h)
	return h
}

// ParseWorkbook reads the first sheet of an xlsx workbook into rows. The
// first sheet row must be a header; unrecognized columns are ignored.
func ParseWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Invalid("could not open workbook: " + err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.Invalid("workbook has no sheets")
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, apperr.Invalid("workbook sheet is empty")
	}

	fieldByCol := make(map[int]string, len(cells[0]))
	for col, header := range cells[0] {
		if field, ok := headerAliases[normalizeHeader(header)]; ok {
			fieldByCol[col] = field
		}
	}
	if len(fieldByCol) == 0 {
		return nil, apperr.Invalid("workbook header has no recognized columns")
	}

	rows := make([]Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		var row Row
		empty := true
		for col, value := range line {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			empty = false
			switch fieldByCol[col] {
			case "patientName":
				row.PatientName = value
			case "mrn":
				row.MRN = value
			case "caseTypeName":
				row.CaseTypeName = value
			case "procedure":
				row.Procedure = value
			case "estDurationMin":
				if n, err := strconv.Atoi(value); err == nil {
					row.EstDurationMin = n
				}
			case "surgeonId":
				row.SurgeonID = value
			}
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
