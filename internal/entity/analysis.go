package entity

// Entities holds the named entities the worker recognized in the report text.
// List fields are always non-nil; absent lists decode to empty slices.
type Entities struct {
	Persons   []string          `json:"persons"`
	Locations []string          `json:"locations"`
	Dates     []string          `json:"dates"`
	Weapons   []string          `json:"weapons"`
	Actions   []string          `json:"actions"`
	Victims   []string          `json:"victims"`
	Suspects  []string          `json:"suspects"`
	Officers  []string          `json:"officers"`
	Ages      map[string]string `json:"ages"`
}

// Normalize replaces nil list fields with empty slices and a nil age map with
// an empty map, so downstream JSON always carries the full shape.
func (e *Entities) Normalize() {
	if e.Persons == nil {
		e.Persons = []string{}
	}
	if e.Locations == nil {
		e.Locations = []string{}
	}
	if e.Dates == nil {
		e.Dates = []string{}
	}
	if e.Weapons == nil {
		e.Weapons = []string{}
	}
	if e.Actions == nil {
		e.Actions = []string{}
	}
	if e.Victims == nil {
		e.Victims = []string{}
	}
	if e.Suspects == nil {
		e.Suspects = []string{}
	}
	if e.Officers == nil {
		e.Officers = []string{}
	}
	if e.Ages == nil {
		e.Ages = map[string]string{}
	}
}

// AnalysisResult is the structured output of one worker invocation.
type AnalysisResult struct {
	Summary        string   `json:"summary"`
	Headline       string   `json:"headline,omitempty"`
	Classification string   `json:"classification"`
	SeverityScore  float64  `json:"severityScore"`
	Confidence     *float64 `json:"confidence,omitempty"`
	Entities       Entities `json:"entities"`

	// Scalar promotions the worker may perform over its entity lists.
	PrimaryVictim   string `json:"primaryVictim,omitempty"`
	PrimarySuspect  string `json:"primarySuspect,omitempty"`
	AssignedOfficer string `json:"assignedOfficer,omitempty"`
	Weapon          string `json:"weapon,omitempty"`
	Location        string `json:"location,omitempty"`
	Date            string `json:"date,omitempty"`
}
