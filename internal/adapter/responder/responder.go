// Package responder renders channel replies: the XML documents the telephony
// provider consumes and the human-readable confirmation, clarification and
// failure texts. Everything here is pure rendering; nothing talks to the
// network.
package responder

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/AIworks24/calendar-agent/internal/domain"
)

// MessageReply is the XML document the SMS provider turns into a reply text.
type MessageReply struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// VoicePrompt is the XML document the voice provider reads to a caller before
// recording and transcribing an announcement.
type VoicePrompt struct {
	XMLName xml.Name `xml:"Response"`
	Say     string   `xml:"Say"`
	Record  Record   `xml:"Record"`
}

// Record configures the recording leg of a voice call.
type Record struct {
	Transcribe         bool   `xml:"transcribe,attr"`
	TranscribeCallback string `xml:"transcribeCallback,attr"`
	MaxLength          int    `xml:"maxLength,attr"`
	PlayBeep           bool   `xml:"playBeep,attr"`
}

// DefaultVoicePrompt is read to callers before the beep.
const DefaultVoicePrompt = "Please describe your event after the beep, including the date, time and location. Hang up when you are done."

// ProcessingFailed is the generic reply for messages the pipeline could not
// process at all.
const ProcessingFailed = "Sorry, we couldn't process your message. Please try again later."

// NewVoicePrompt builds the prompt-and-record document for the first leg of a
// voice call. callback is the path the provider posts the transcription to.
func NewVoicePrompt(say, callback string) VoicePrompt {
	return VoicePrompt{
		Say: say,
		Record: Record{
			Transcribe:         true,
			TranscribeCallback: callback,
			MaxLength:          120,
			PlayBeep:           true,
		},
	}
}

// ForOutcome renders the reply text for a pipeline outcome.
func ForOutcome(out *domain.Outcome) string {
	if out.NeedsClarification {
		return Clarification(out.Record)
	}
	if out.Publish == nil || !out.Publish.Success {
		return PublishFailure(out.Publish)
	}
	return Confirmation(out.Record, out.Publish)
}

// Confirmation renders the reply for a published event: title, date, time,
// any validation notes and the public event link.
func Confirmation(record *domain.EventRecord, result *domain.PublishResult) string {
	var b strings.Builder
	b.WriteString("Event created: ")
	b.WriteString(record.Title)
	b.WriteString(" on ")
	b.WriteString(humanDate(record.StartDate))
	if !record.AllDay && record.StartTime != "" {
		b.WriteString(" at ")
		b.WriteString(humanClock(record.StartTime))
	}
	if loc := strings.TrimSpace(record.Location); loc != "" && loc != "TBD" {
		b.WriteString(", ")
		b.WriteString(loc)
	}
	b.WriteString(".")
	if record.ValidationNotes != "" {
		b.WriteString(" Note: ")
		b.WriteString(record.ValidationNotes)
	}
	if result.EventURL != "" {
		b.WriteString(" View: ")
		b.WriteString(result.EventURL)
	}
	return b.String()
}

// Clarification renders the reply for a low-confidence extraction, quoting
// the validation notes so the sender knows what was missing.
func Clarification(record *domain.EventRecord) string {
	notes := strings.TrimSpace(record.ValidationNotes)
	if notes == "" {
		notes = "The date, time or title could not be determined."
	}
	return "We couldn't create this event yet. " + notes + " Please resend the announcement with those details."
}

// PublishFailure renders the reply for a record the calendar store rejected.
func PublishFailure(result *domain.PublishResult) string {
	msg := ""
	if result != nil {
		msg = strings.TrimSuffix(strings.TrimSpace(result.ErrorMessage), ".")
	}
	if msg == "" {
		return "Sorry, we couldn't save your event. Please try again later."
	}
	return "Sorry, we couldn't save your event: " + msg + ". Please try again later."
}

func humanDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("Monday, January 2, 2006")
}

func humanClock(s string) string {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return s
	}
	return t.Format("3:04 PM")
}
