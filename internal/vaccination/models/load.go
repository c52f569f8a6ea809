package models

// Collection names a persisted entity collection.
type Collection string

const (
	CollectionCitizens     Collection = "citizens"
	CollectionCenters      Collection = "centers"
	CollectionAppointments Collection = "appointments"
)

// SkippedRecord describes a stored record that could not be parsed.
type SkippedRecord struct {
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

// LoadReport summarises a best-effort load of one collection.
type LoadReport struct {
	Collection Collection      `json:"collection"`
	Loaded     int             `json:"loaded"`
	Skipped    []SkippedRecord `json:"skipped,omitempty"`
}

// SkippedCount is the number of malformed records that were dropped.
func (r LoadReport) SkippedCount() int {
	return len(r.Skipped)
}
