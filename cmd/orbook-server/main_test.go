package main

import (
	"context"
	"testing"
	"time"

	"github.com/orbook/orbook/internal/domain/backlog"
	"github.com/orbook/orbook/internal/domain/importer"
	"github.com/orbook/orbook/internal/domain/schedule"
)

// Full lifecycle across the three services with the production adapters:
// bulk import feeds the backlog, the backlog item gets booked, confirmed,
// and cancelled, with the version counter advancing each step.
func TestImportBookConfirmCancelFlow(t *testing.T) {
	ctx := context.Background()

	backlogSvc := backlog.NewService(backlog.NewMemRepo())
	scheduleSvc := schedule.NewService(schedule.NewMemRepo())
	importSvc := importer.NewService(
		importer.NewMemBatchRepo(),
		importer.NewMemProfileRepo(),
		&backlogSink{svc: backlogSvc},
	)

	// Import one row.
	batch, err := importSvc.ImportRows(ctx, "wave1.xlsx", []importer.Row{
		{PatientName: "Alice", MRN: "123456"},
	}, "")
	if err != nil {
		t.Fatal(err)
	}
	if batch.CountsCreated != 1 || batch.CountsSkipped != 0 {
		t.Fatalf("counts = %d/%d, want 1/0", batch.CountsCreated, batch.CountsSkipped)
	}

	items, err := backlogSvc.List(ctx, backlog.ListParams{})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].MaskedMRN != "••••3456" {
		t.Errorf("MaskedMRN = %q, want ••••3456", items[0].MaskedMRN)
	}

	// Book a week out.
	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	entry, err := scheduleSvc.Create(ctx, schedule.CreateInput{
		WaitingListItemID: items[0].ID,
		RoomID:            "or-1",
		SurgeonID:         "s-1",
		Date:              date,
		StartTime:         "08:00",
		EndTime:           "09:00",
	})
	if err != nil {
		t.Fatal(err)
	}
	if entry.Status != schedule.StatusScheduled || entry.Version != 1 {
		t.Fatalf("entry = status %q version %d, want scheduled/1", entry.Status, entry.Version)
	}

	// The export joins back to the imported patient through the adapter.
	rows, err := scheduleSvc.Export(ctx, date, &backlogCases{svc: backlogSvc})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].PatientName != "Alice" || rows[0].MaskedMRN != "••••3456" {
		t.Errorf("export rows = %+v", rows)
	}

	// Confirm.
	confirmed := schedule.StatusConfirmed
	updated, err := scheduleSvc.Update(ctx, entry.ID, schedule.UpdatePatch{
		Version: &entry.Version,
		Status:  &confirmed,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != schedule.StatusConfirmed || updated.Version != 2 {
		t.Fatalf("after confirm: status %q version %d, want confirmed/2", updated.Status, updated.Version)
	}

	// Cancel.
	if err := scheduleSvc.Cancel(ctx, entry.ID); err != nil {
		t.Fatal(err)
	}
	entries, err := scheduleSvc.List(ctx, schedule.ListParams{Date: date})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Status != schedule.StatusCancelled || entries[0].Version != 3 {
		t.Errorf("after cancel: status %q version %d, want cancelled/3", entries[0].Status, entries[0].Version)
	}
}
