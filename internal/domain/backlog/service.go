package backlog

import (
	"context"
	"sort"
	"time"

	"github.com/orbook/orbook/internal/platform/apperr"
	"github.com/orbook/orbook/internal/platform/idgen"
)

// Service owns read/write access to the waiting list. Every item it hands
// out is a masked copy; callers never see a raw MRN.
type Service struct {
	items Repository
	now   func() time.Time
}

func NewService(items Repository) *Service {
	return &Service{items: items, now: time.Now}
}

// ListParams are conjunctive filters; zero values mean "no filter".
type ListParams struct {
	CaseTypeID string
	SurgeonID  string
	Search     string
}

func (s *Service) List(ctx context.Context, params ListParams) ([]*WaitingListItem, error) {
	all, err := s.items.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*WaitingListItem, 0, len(all))
	for _, w := range all {
		if params.CaseTypeID != "" && w.CaseTypeID != params.CaseTypeID {
			continue
		}
		if params.SurgeonID != "" && w.SurgeonID != params.SurgeonID {
			continue
		}
		if !matchesSearch(w, params.Search) {
			continue
		}
		out = append(out, w.masked())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Create is the single-item counterpart of the bulk importer.
func (s *Service) Create(ctx context.Context, in ItemInput) (*WaitingListItem, error) {
	if in.PatientName == "" {
		return nil, apperr.Invalid("patientName is required")
	}
	if in.MRN == "" {
		return nil, apperr.Invalid("mrn is required")
	}
	if !digitsOnly(in.MRN) {
		return nil, apperr.Invalid("mrn must contain digits only")
	}
	if in.EstDurationMin < 0 {
		return nil, apperr.Invalid("estDurationMin must not be negative")
	}
	caseType := in.CaseTypeID
	if caseType == "" {
		caseType = CaseTypeUnknown
	}
	w := &WaitingListItem{
		ID:             idgen.New("w"),
		PatientName:    in.PatientName,
		MRN:            in.MRN,
		CaseTypeID:     caseType,
		Procedure:      in.Procedure,
		EstDurationMin: in.EstDurationMin,
		SurgeonID:      in.SurgeonID,
		CreatedAt:      s.now(),
	}
	if err := s.items.Create(ctx, w); err != nil {
		return nil, err
	}
	return w.masked(), nil
}

func (s *Service) Get(ctx context.Context, id string) (*WaitingListItem, error) {
	w, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return w.masked(), nil
}

// Update applies patch semantics: only provided fields change. CreatedAt is
// immutable.
func (s *Service) Update(ctx context.Context, id string, patch ItemPatch) (*WaitingListItem, error) {
	w, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.PatientName != nil {
		if *patch.PatientName == "" {
			return nil, apperr.Invalid("patientName must not be empty")
		}
		w.PatientName = *patch.PatientName
	}
	if patch.MRN != nil {
		if !digitsOnly(*patch.MRN) {
			return nil, apperr.Invalid("mrn must contain digits only")
		}
		w.MRN = *patch.MRN
	}
	if patch.CaseTypeID != nil {
		w.CaseTypeID = *patch.CaseTypeID
	}
	if patch.Procedure != nil {
		w.Procedure = *patch.Procedure
	}
	if patch.EstDurationMin != nil {
		if *patch.EstDurationMin < 0 {
			return nil, apperr.Invalid("estDurationMin must not be negative")
		}
		w.EstDurationMin = *patch.EstDurationMin
	}
	if patch.SurgeonID != nil {
		w.SurgeonID = *patch.SurgeonID
	}
	if err := s.items.Update(ctx, w); err != nil {
		return nil, err
	}
	return w.masked(), nil
}

// SoftRemove drops the item from the active table, reporting whether it
// existed. No tombstone is kept here; archival is the UI layer's concern.
func (s *Service) SoftRemove(ctx context.Context, id string) (bool, error) {
	return s.items.Delete(ctx, id)
}
