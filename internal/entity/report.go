package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/crimecard/intake/constants"
)

// IncidentRecord is the durable result of one successful pipeline run.
// Records are append-only: created exactly once, never mutated.
//
// Exactly one audit variant is retained, matching InputMethod: RawText for
// paste, ManualData for manual, FileName+ExtractedText for upload. The
// analysis fields are embedded flat so the stored JSON matches the worker's
// top-level field names.
type IncidentRecord struct {
	ID          uuid.UUID             `json:"id"`
	InputMethod constants.InputMethod `json:"inputMethod"`
	Source      string                `json:"source"`

	RawText       string        `json:"rawText,omitempty"`
	ManualData    *ManualFields `json:"manualData,omitempty"`
	FileName      string        `json:"fileName,omitempty"`
	ExtractedText string        `json:"extractedText,omitempty"`

	AnalysisResult

	CreatedAt time.Time `json:"createdAt"`
}
