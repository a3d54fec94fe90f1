package api

// Details is the export-wide metadata block emitted in the document's
// definition section. All fields are optional free text.
type Details struct {
	Name         string `json:"name"`
	Version      string `json:"version,omitempty"`
	Abbrev       string `json:"abbrev,omitempty"`
	Summary      string `json:"summary,omitempty"`
	Description  string `json:"description,omitempty"`
	Requirements string `json:"requirements,omitempty"`
	Credits      string `json:"credits,omitempty"`
	Legal        string `json:"legal,omitempty"`
	Other        string `json:"other_notes,omitempty"`
}
