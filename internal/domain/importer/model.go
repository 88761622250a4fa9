package importer

import (
	"strings"
	"time"
)

// ImportBatch is the immutable audit record of one bulk import call.
type ImportBatch struct {
	ID               string    `json:"id"`
	FileName         string    `json:"fileName"`
	ImportedAt       time.Time `json:"importedAt"`
	MappingProfileID string    `json:"mappingProfileId,omitempty"`
	CountsCreated    int       `json:"countsCreated"`
	CountsUpdated    int       `json:"countsUpdated"`
	CountsSkipped    int       `json:"countsSkipped"`
	Errors           []string  `json:"errors"`
}

// MappingProfile is a named column-mapping configuration. The scheduling
// core stores and lists profiles but never interprets them.
type MappingProfile struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Columns map[string]string `json:"columns"`
}

// Row is one inbound waiting-list row, already column-mapped.
type Row struct {
	PatientName    string `json:"patientName"`
	MRN            string `json:"mrn"`
	CaseTypeName   string `json:"caseTypeName"`
	Procedure      string `json:"procedure"`
	EstDurationMin int    `json:"estDurationMin"`
	SurgeonID      string `json:"surgeonId"`
}

// caseTypeFromName maps a spreadsheet case-type label to its tag. Absent or
// unrecognized labels become case:unknown.
func caseTypeFromName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "elective":
		return "case:elective"
	case "urgent":
		return "case:urgent"
	case "emergency":
		return "case:emergency"
	case "":
		return "case:unknown"
	}
	if strings.HasPrefix(name, "case:") {
		return name
	}
	return "case:unknown"
}
