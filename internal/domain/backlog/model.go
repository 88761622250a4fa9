package backlog

import (
	"strings"
	"time"
)

// Case type tags carried by waiting-list items. Unknown upstream values
// collapse to CaseTypeUnknown.
const (
	CaseTypeElective  = "case:elective"
	CaseTypeUrgent    = "case:urgent"
	CaseTypeEmergency = "case:emergency"
	CaseTypeUnknown   = "case:unknown"
)

// WaitingListItem is a patient's pending case. The raw MRN never leaves the
// service: outward reads carry MaskedMRN only.
type WaitingListItem struct {
	ID             string    `json:"id"`
	PatientName    string    `json:"patientName"`
	MRN            string    `json:"-"`
	MaskedMRN      string    `json:"maskedMrn"`
	CaseTypeID     string    `json:"caseTypeId"`
	Procedure      string    `json:"procedure"`
	EstDurationMin int       `json:"estDurationMin"`
	SurgeonID      string    `json:"surgeonId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ItemInput is the write shape for creating an item, whether through the
// single-item path or the bulk importer.
type ItemInput struct {
	PatientName    string `json:"patientName"`
	MRN            string `json:"mrn"`
	CaseTypeID     string `json:"caseTypeId"`
	Procedure      string `json:"procedure"`
	EstDurationMin int    `json:"estDurationMin"`
	SurgeonID      string `json:"surgeonId"`
}

// ItemPatch carries partial updates; nil fields are left untouched.
type ItemPatch struct {
	PatientName    *string `json:"patientName"`
	MRN            *string `json:"mrn"`
	CaseTypeID     *string `json:"caseTypeId"`
	Procedure      *string `json:"procedure"`
	EstDurationMin *int    `json:"estDurationMin"`
	SurgeonID      *string `json:"surgeonId"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *ItemPatch) IsEmpty() bool {
	return p.PatientName == nil && p.MRN == nil && p.CaseTypeID == nil &&
		p.Procedure == nil && p.EstDurationMin == nil && p.SurgeonID == nil
}

// MaskMRN reduces an MRN to its last four digits behind a fixed mask. An
// empty MRN masks to the empty string.
func MaskMRN(mrn string) string {
	if mrn == "" {
		return ""
	}
	last := mrn
	if len(mrn) > 4 {
		last = mrn[len(mrn)-4:]
	}
	return "••••" + last
}

// masked returns an outward-safe copy of the item.
func (w WaitingListItem) masked() *WaitingListItem {
	w.MaskedMRN = MaskMRN(w.MRN)
	return &w
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// matchesSearch checks term against the concatenation of name and
// procedure, so a term spanning the boundary still matches.
func matchesSearch(w *WaitingListItem, term string) bool {
	if term == "" {
		return true
	}
	haystack := strings.ToLower(w.PatientName + w.Procedure)
	return strings.Contains(haystack, strings.ToLower(term))
}
