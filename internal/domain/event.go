package domain

import "strings"

// Confidence is the extractor's self-reported certainty about a record.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// EventRecord is the structured event produced by extraction and repaired by
// validation. The JSON tags are the extraction service's response contract.
// Dates are ISO (YYYY-MM-DD) and times are 24-hour clock (HH:MM:SS); an empty
// string means the announcement did not state the value.
type EventRecord struct {
	Title       string `json:"title"`
	StartDate   string `json:"startDate"`
	StartTime   string `json:"startTime"`
	EndDate     string `json:"endDate"`
	EndTime     string `json:"endTime"`
	Location    string `json:"location"`
	Description string `json:"description"`
	AllDay      bool   `json:"allDay"`

	// StatedWeekday carries a weekday name the announcement asserted
	// alongside the date ("this Monday", "Tuesday the 9th"), so validation
	// can detect weekday/date mismatches. Empty when none was asserted.
	StatedWeekday string `json:"statedDayOfWeek,omitempty"`
	// YearStated is true only when the announcement spelled the year out.
	// Dates without a stated year may be rolled forward once they pass.
	YearStated bool `json:"yearStated,omitempty"`

	ValidationNotes string     `json:"validationNotes"`
	Confidence      Confidence `json:"confidence"`

	// DateCorrected is set by validation when it moved the start date off
	// what the extractor reported. Not part of the response contract.
	DateCorrected bool `json:"-"`
}

// AppendNote records a human-readable validation note, keeping earlier notes
// intact. A note already present is dropped, so re-validating a repaired
// record cannot grow it.
func (r *EventRecord) AppendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" || strings.Contains(r.ValidationNotes, note) {
		return
	}
	if r.ValidationNotes == "" {
		r.ValidationNotes = note
		return
	}
	r.ValidationNotes += " " + note
}

// PublishResult reports the outcome of one calendar store write. Failures are
// values, not errors: the pipeline always renders a channel reply from them.
type PublishResult struct {
	Success      bool   `json:"success"`
	EventID      string `json:"eventId,omitempty"`
	EventURL     string `json:"eventUrl,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Outcome is what the pipeline hands back to a channel handler. Exactly one
// of NeedsClarification or Publish is meaningful: a low-confidence record is
// never published, so Publish is nil when NeedsClarification is true.
type Outcome struct {
	Record             *EventRecord
	Publish            *PublishResult
	NeedsClarification bool
}
