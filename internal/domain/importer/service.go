package importer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/orbook/orbook/internal/platform/apperr"
	"github.com/orbook/orbook/internal/platform/idgen"
)

// NewItem is the shape the importer hands to the backlog.
type NewItem struct {
	PatientName    string
	MRN            string
	CaseTypeID     string
	Procedure      string
	EstDurationMin int
	SurgeonID      string
}

// BacklogSink receives materialized waiting-list items. Wired in main to the
// backlog service; the importer never touches the waiting-list table itself.
type BacklogSink interface {
	CreateItem(ctx context.Context, item NewItem) error
}

// Service bulk-loads rows into the backlog and keeps the audit trail.
type Service struct {
	batches  BatchRepository
	profiles ProfileRepository
	sink     BacklogSink
	now      func() time.Time
}

func NewService(batches BatchRepository, profiles ProfileRepository, sink BacklogSink) *Service {
	return &Service{batches: batches, profiles: profiles, sink: sink, now: time.Now}
}

// ImportRows loads rows, deduplicating on (patientName, mrn) within this
// call only; pre-existing backlog items are not consulted. There is no
// update-on-import path, so CountsUpdated stays 0.
func (s *Service) ImportRows(ctx context.Context, fileName string, rows []Row, mappingProfileID string) (*ImportBatch, error) {
	if fileName == "" {
		return nil, apperr.Invalid("fileName is required")
	}
	if rows == nil {
		return nil, apperr.Invalid("rows are required")
	}

	batch := &ImportBatch{
		ID:               idgen.New("imp"),
		FileName:         fileName,
		ImportedAt:       s.now(),
		MappingProfileID: mappingProfileID,
		Errors:           []string{},
	}

	seen := make(map[string]bool, len(rows))
	for i, row := range rows {
		rowNum := i + 1
		if row.PatientName == "" || row.MRN == "" {
			batch.CountsSkipped++
			batch.Errors = append(batch.Errors, fmt.Sprintf("row %d: patientName and mrn are required", rowNum))
			continue
		}
		key := row.PatientName + "\x00" + row.MRN
		if seen[key] {
			batch.CountsSkipped++
			batch.Errors = append(batch.Errors, fmt.Sprintf("row %d: duplicate of an earlier row in this batch", rowNum))
			continue
		}
		seen[key] = true

		item := NewItem{
			PatientName:    row.PatientName,
			MRN:            row.MRN,
			CaseTypeID:     caseTypeFromName(row.CaseTypeName),
			Procedure:      row.Procedure,
			EstDurationMin: row.EstDurationMin,
			SurgeonID:      row.SurgeonID,
		}
		if item.EstDurationMin < 0 {
			item.EstDurationMin = 0
		}
		if err := s.sink.CreateItem(ctx, item); err != nil {
			batch.CountsSkipped++
			batch.Errors = append(batch.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		batch.CountsCreated++
	}

	if err := s.batches.Create(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

func (s *Service) GetBatch(ctx context.Context, id string) (*ImportBatch, error) {
	return s.batches.Get(ctx, id)
}

// ListBatches returns batches newest first.
func (s *Service) ListBatches(ctx context.Context) ([]*ImportBatch, error) {
	batches, err := s.batches.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(batches, func(i, j int) bool {
		if !batches[i].ImportedAt.Equal(batches[j].ImportedAt) {
			return batches[i].ImportedAt.After(batches[j].ImportedAt)
		}
		return batches[i].ID < batches[j].ID
	})
	return batches, nil
}

func (s *Service) CreateProfile(ctx context.Context, name string, columns map[string]string) (*MappingProfile, error) {
	if name == "" {
		return nil, apperr.Invalid("name is required")
	}
	if columns == nil {
		columns = map[string]string{}
	}
	p := &MappingProfile{ID: idgen.New("map"), Name: name, Columns: columns}
	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListProfiles(ctx context.Context) ([]*MappingProfile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}
