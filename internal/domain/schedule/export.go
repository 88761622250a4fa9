package schedule

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/orbook/orbook/internal/platform/apperr"
)

// CaseInfo is the slice of a waiting-list item the export needs. The MRN is
// already masked by the backlog service.
type CaseInfo struct {
	PatientName string
	MaskedMRN   string
}

// BacklogReader resolves waiting-list item ids for exports. Wired in main to
// the backlog service so the schedule package never touches its table.
type BacklogReader interface {
	CaseInfo(ctx context.Context, itemID string) (CaseInfo, error)
}

// ExportRow is one flat line of the schedule export.
type ExportRow struct {
	EntryID     string `json:"entryId"`
	PatientName string `json:"patientName"`
	MaskedMRN   string `json:"maskedMrn"`
	RoomID      string `json:"roomId"`
	SurgeonID   string `json:"surgeonId"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Status      string `json:"status"`
}

// Export flattens the (optionally date-filtered) schedule, joining patient
// details from the backlog. Entries whose waiting-list item has been removed
// still export with blank patient fields.
func (s *Service) Export(ctx context.Context, date string, backlog BacklogReader) ([]ExportRow, error) {
	entries, err := s.List(ctx, ListParams{Date: date})
	if err != nil {
		return nil, err
	}
	rows := make([]ExportRow, 0, len(entries))
	for _, e := range entries {
		row := ExportRow{
			EntryID:   e.ID,
			RoomID:    e.RoomID,
			SurgeonID: e.SurgeonID,
			Date:      e.Date,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
			Status:    e.Status,
		}
		info, err := backlog.CaseInfo(ctx, e.WaitingListItemID)
		switch {
		case err == nil:
			row.PatientName = info.PatientName
			row.MaskedMRN = info.MaskedMRN
		case apperr.KindOf(err) == apperr.KindNotFound:
			// item removed after booking; keep the entry in the export
		default:
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var exportHeader = []string{"Entry", "Patient", "MRN", "Room", "Surgeon", "Date", "Start", "End", "Status"}

// WriteWorkbook renders export rows as a single-sheet xlsx workbook.
func WriteWorkbook(w io.Writer, rows []ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Schedule"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header cell %s: %w", cell, err)
		}
	}

	for i, row := range rows {
		values := []string{row.EntryID, row.PatientName, row.MaskedMRN, row.RoomID,
			row.SurgeonID, row.Date, row.StartTime, row.EndTime, row.Status}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
