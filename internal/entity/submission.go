package entity

import "github.com/crimecard/intake/constants"

// ManualFields is the structured form variant of a submission. Only CrimeType
// is mandatory; the remaining fields may be blank.
type ManualFields struct {
	CrimeType   string `json:"crimeType"`
	Victim      string `json:"victim,omitempty"`
	Suspect     string `json:"suspect,omitempty"`
	Location    string `json:"location,omitempty"`
	Date        string `json:"date,omitempty"`
	Weapon      string `json:"weapon,omitempty"`
	Description string `json:"description,omitempty"`
}

// UploadedFile describes a document already saved to the upload directory.
// The pipeline run owns the file at Path until extraction completes or fails.
type UploadedFile struct {
	Path         string `json:"path"`
	OriginalName string `json:"original_name"`
	MIMEType     string `json:"mime_type"`
}

// Submission is one client-provided incident report, request-scoped. Exactly
// one payload variant is populated, selected by InputMethod.
type Submission struct {
	InputMethod  constants.InputMethod `json:"inputMethod"`
	Source       string                `json:"source"`
	PastedText   string                `json:"pastedText,omitempty"`
	UploadedFile *UploadedFile         `json:"uploadedFile,omitempty"`
	ManualFields *ManualFields         `json:"manualFields,omitempty"`
}
