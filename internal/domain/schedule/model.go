package schedule

import (
	"time"

	"github.com/orbook/orbook/internal/platform/apperr"
)

// Status values of a schedule entry. Cancellation is terminal; the record
// persists for audit rather than being deleted.
const (
	StatusTentative = "tentative"
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusOperated  = "operated"
	StatusCancelled = "cancelled"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Entry is one room/time booking tied to a waiting-list item. Date is a
// calendar date (YYYY-MM-DD); start and end are same-day times (HH:MM), so
// lexicographic comparison is chronological.
type Entry struct {
	ID                string    `json:"id"`
	WaitingListItemID string    `json:"waitingListItemId"`
	RoomID            string    `json:"roomId"`
	SurgeonID         string    `json:"surgeonId"`
	Date              string    `json:"date"`
	StartTime         string    `json:"startTime"`
	EndTime           string    `json:"endTime"`
	Status            string    `json:"status"`
	Notes             string    `json:"notes,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
	Version           int       `json:"version"`
}

// CreateInput is the booking request shape.
type CreateInput struct {
	WaitingListItemID string `json:"waitingListItemId"`
	RoomID            string `json:"roomId"`
	SurgeonID         string `json:"surgeonId"`
	Date              string `json:"date"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Notes             string `json:"notes"`
}

// UpdatePatch carries partial updates. A nil Version opts out of the
// optimistic-concurrency gate (trusted internal callers only).
type UpdatePatch struct {
	Version   *int    `json:"version"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
}

// legalTransitions is the status legality matrix. Cancellation is reachable
// from every non-terminal state; nothing leaves cancelled.
var legalTransitions = map[string][]string{
	StatusTentative: {StatusScheduled, StatusConfirmed, StatusCancelled},
	StatusScheduled: {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusOperated, StatusCancelled},
	StatusOperated:  {StatusCancelled},
	StatusCancelled: {},
}

func validStatus(s string) bool {
	_, ok := legalTransitions[s]
	return ok
}

func canTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// overlaps applies the half-open interval test: [aStart,aEnd) and
// [bStart,bEnd) overlap iff aStart < bEnd && bStart < aEnd.
func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

func validateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return apperr.Invalid("date must be formatted YYYY-MM-DD")
	}
	return nil
}

func validateTimes(start, end string) error {
	if _, err := time.Parse(timeLayout, start); err != nil {
		return apperr.Invalid("startTime must be formatted HH:MM")
	}
	if _, err := time.Parse(timeLayout, end); err != nil {
		return apperr.Invalid("endTime must be formatted HH:MM")
	}
	if end <= start {
		return apperr.Invalid("endTime must be after startTime")
	}
	return nil
}
