package schedule

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/orbook/orbook/internal/platform/apperr"
	"github.com/orbook/orbook/internal/platform/idgen"
)

// Service owns the schedule-entry lifecycle. The double-booking invariant is
// a multi-record check-then-act, so every write path runs under mu; the
// repository's version gate additionally protects against writers in other
// processes when the store is durable.
type Service struct {
	mu      sync.Mutex
	entries Repository
	now     func() time.Time
}

func NewService(entries Repository) *Service {
	return &Service{entries: entries, now: time.Now}
}

// Create books a room/time slot for a waiting-list item. It behaves as an
// upsert keyed by the waiting-list item: an existing active booking is
// rescheduled in place, and stray duplicate active bookings for the same
// item are removed.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Entry, error) {
	if in.WaitingListItemID == "" {
		return nil, apperr.Invalid("waitingListItemId is required")
	}
	if in.RoomID == "" {
		return nil, apperr.Invalid("roomId is required")
	}
	if in.SurgeonID == "" {
		return nil, apperr.Invalid("surgeonId is required")
	}
	if in.Date == "" || in.StartTime == "" || in.EndTime == "" {
		return nil, apperr.Invalid("date, startTime and endTime are required")
	}
	if err := validateDate(in.Date); err != nil {
		return nil, err
	}
	if err := validateTimes(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}
	if in.Date <= s.now().Format(dateLayout) {
		return nil, apperr.Invalid("date must be in the future")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.entries.List(ctx)
	if err != nil {
		return nil, err
	}
	current, duplicates := partitionActive(all, in.WaitingListItemID)

	excludeID := ""
	if current != nil {
		excludeID = current.ID
	}
	if err := s.checkOverlap(all, in.Date, in.StartTime, in.EndTime, in.RoomID, in.SurgeonID, excludeID); err != nil {
		return nil, err
	}

	// Duplicate active entries are a data anomaly; clean them up on the way
	// through.
	for _, d := range duplicates {
		if _, err := s.entries.Delete(ctx, d.ID); err != nil {
			return nil, err
		}
	}

	if current != nil {
		prev := current.Version
		current.RoomID = in.RoomID
		current.SurgeonID = in.SurgeonID
		current.Date = in.Date
		current.StartTime = in.StartTime
		current.EndTime = in.EndTime
		current.Notes = in.Notes
		current.Status = StatusScheduled
		current.Version = prev + 1
		current.UpdatedAt = s.now()
		if err := s.entries.Update(ctx, current, prev); err != nil {
			return nil, err
		}
		return current, nil
	}

	e := &Entry{
		ID:                idgen.New("sch"),
		WaitingListItemID: in.WaitingListItemID,
		RoomID:            in.RoomID,
		SurgeonID:         in.SurgeonID,
		Date:              in.Date,
		StartTime:         in.StartTime,
		EndTime:           in.EndTime,
		Status:            StatusScheduled,
		Notes:             in.Notes,
		Version:           1,
		UpdatedAt:         s.now(),
	}
	if err := s.entries.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update merges the patch over the current entry under the optimistic
// version gate. A patch without a version falls back to the freshly-read
// current version (trusted internal callers only). Time changes re-run the
// room/surgeon overlap check.
func (s *Service) Update(ctx context.Context, id string, patch UpdatePatch) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entries.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Version != nil && *patch.Version != e.Version {
		return nil, apperr.Conflict("Version conflict")
	}

	prev := e.Version
	timesChanged := false
	if patch.StartTime != nil && *patch.StartTime != e.StartTime {
		e.StartTime = *patch.StartTime
		timesChanged = true
	}
	if patch.EndTime != nil && *patch.EndTime != e.EndTime {
		e.EndTime = *patch.EndTime
		timesChanged = true
	}
	if timesChanged {
		if err := validateTimes(e.StartTime, e.EndTime); err != nil {
			return nil, err
		}
		all, err := s.entries.List(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.checkOverlap(all, e.Date, e.StartTime, e.EndTime, e.RoomID, e.SurgeonID, e.ID); err != nil {
			return nil, err
		}
	}
	if patch.Status != nil {
		if !validStatus(*patch.Status) {
			return nil, apperr.Newf(apperr.KindInvalid, "invalid status %q", *patch.Status)
		}
		if !canTransition(e.Status, *patch.Status) {
			return nil, apperr.Newf(apperr.KindInvalid, "cannot transition from %q to %q", e.Status, *patch.Status)
		}
		e.Status = *patch.Status
	}
	if patch.Notes != nil {
		e.Notes = *patch.Notes
	}

	e.Version = prev + 1
	e.UpdatedAt = s.now()
	if err := s.entries.Update(ctx, e, prev); err != nil {
		return nil, err
	}
	return e, nil
}

// Cancel marks the entry cancelled. Missing ids are a no-op. Cancelling an
// already-cancelled entry still bumps the version but leaves the status
// untouched, so repeated calls stay observable.
func (s *Service) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.entries.Get(ctx, id)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}
	prev := e.Version
	e.Status = StatusCancelled
	e.Version = prev + 1
	e.UpdatedAt = s.now()
	return s.entries.Update(ctx, e, prev)
}

// ListParams filter List; a zero value returns everything.
type ListParams struct {
	Date string
}

func (s *Service) List(ctx context.Context, params ListParams) ([]*Entry, error) {
	all, err := s.entries.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Entry, 0, len(all))
	for _, e := range all {
		if params.Date != "" && e.Date != params.Date {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// checkOverlap rejects the requested interval when it collides with another
// active entry on the same date for the room, then for the surgeon.
// excludeID skips the entry being rescheduled.
func (s *Service) checkOverlap(all []*Entry, date, start, end, roomID, surgeonID, excludeID string) error {
	for _, e := range all {
		if e.ID == excludeID || e.Status == StatusCancelled || e.Date != date {
			continue
		}
		if e.RoomID == roomID && overlaps(start, end, e.StartTime, e.EndTime) {
			return apperr.Conflict("Room unavailable")
		}
	}
	for _, e := range all {
		if e.ID == excludeID || e.Status == StatusCancelled || e.Date != date {
			continue
		}
		if e.SurgeonID == surgeonID && overlaps(start, end, e.StartTime, e.EndTime) {
			return apperr.Conflict("Surgeon unavailable")
		}
	}
	return nil
}

// partitionActive splits the non-cancelled entries referencing itemID into
// the current active entry (oldest wins, deterministically) and any
// duplicates beyond it.
func partitionActive(all []*Entry, itemID string) (*Entry, []*Entry) {
	var actives []*Entry
	for _, e := range all {
		if e.WaitingListItemID == itemID && e.Status != StatusCancelled {
			actives = append(actives, e)
		}
	}
	if len(actives) == 0 {
		return nil, nil
	}
	sort.Slice(actives, func(i, j int) bool {
		if !actives[i].UpdatedAt.Equal(actives[j].UpdatedAt) {
			return actives[i].UpdatedAt.Before(actives[j].UpdatedAt)
		}
		return actives[i].ID < actives[j].ID
	})
	return actives[0], actives[1:]
}
