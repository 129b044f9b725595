package responder

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/AIworks24/calendar-agent/internal/domain"
)

func publishedRecord() *domain.EventRecord {
	return &domain.EventRecord{
		Title:      "GOP Meeting",
		StartDate:  "2025-12-08",
		StartTime:  "18:30:00",
		EndDate:    "2025-12-08",
		EndTime:    "20:00:00",
		Location:   "Community Center",
		Confidence: domain.ConfidenceHigh,
	}
}

func TestConfirmation(t *testing.T) {
	record := publishedRecord()
	record.ValidationNotes = "December 9, 2025 falls on a Tuesday, not a Monday; moved the date to Monday, December 8, 2025."
	result := &domain.PublishResult{Success: true, EventID: "4821", EventURL: "https://calendar.example.org/event/4821"}

	got := Confirmation(record, result)

	for _, want := range []string{
		"GOP Meeting",
		"Monday, December 8, 2025",
		"6:30 PM",
		"Community Center",
		"moved the date to Monday, December 8, 2025",
		"https://calendar.example.org/event/4821",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("confirmation %q missing %q", got, want)
		}
	}
}

func TestConfirmationAllDayOmitsTime(t *testing.T) {
	record := publishedRecord()
	record.AllDay = true
	record.StartTime = "00:00:00"

	got := Confirmation(record, &domain.PublishResult{Success: true})

	if strings.Contains(got, "12:00 AM") {
		t.Errorf("all-day confirmation mentions a time: %q", got)
	}
}

func TestConfirmationSkipsTBDLocation(t *testing.T) {
	record := publishedRecord()
	record.Location = "TBD"

	if got := Confirmation(record, &domain.PublishResult{Success: true}); strings.Contains(got, "TBD") {
		t.Errorf("confirmation mentions TBD: %q", got)
	}
}

func TestClarification(t *testing.T) {
	record := publishedRecord()
	record.ValidationNotes = "The event date is missing."

	got := Clarification(record)
	if !strings.Contains(got, "The event date is missing.") {
		t.Errorf("clarification %q does not quote the notes", got)
	}

	record.ValidationNotes = ""
	got = Clarification(record)
	if !strings.Contains(got, "could not be determined") {
		t.Errorf("clarification without notes: %q", got)
	}
}

func TestPublishFailure(t *testing.T) {
	got := PublishFailure(&domain.PublishResult{ErrorMessage: "venue could not be created."})
	if !strings.Contains(got, "venue could not be created") {
		t.Errorf("failure reply %q missing the store message", got)
	}
	if strings.Contains(got, "created.. ") {
		t.Errorf("failure reply has doubled punctuation: %q", got)
	}

	if got := PublishFailure(nil); !strings.Contains(got, "couldn't save your event") {
		t.Errorf("failure reply without a result: %q", got)
	}
}

func TestForOutcome(t *testing.T) {
	record := publishedRecord()

	tests := []struct {
		name    string
		outcome domain.Outcome
		want    string
	}{
		{
			name:    "clarification wins",
			outcome: domain.Outcome{Record: record, NeedsClarification: true},
			want:    "We couldn't create this event yet",
		},
		{
			name:    "publish failure",
			outcome: domain.Outcome{Record: record, Publish: &domain.PublishResult{Success: false, ErrorMessage: "nope"}},
			want:    "couldn't save your event",
		},
		{
			name:    "confirmation",
			outcome: domain.Outcome{Record: record, Publish: &domain.PublishResult{Success: true, EventURL: "https://x.example/1"}},
			want:    "Event created",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForOutcome(&tt.outcome); !strings.Contains(got, tt.want) {
				t.Errorf("ForOutcome() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestMessageReplyXML(t *testing.T) {
	out, err := xml.Marshal(MessageReply{Message: "Tom & Jerry"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(out)
	if got != "<Response><Message>Tom &amp; Jerry</Message></Response>" {
		t.Errorf("message reply xml: %q", got)
	}
}

func TestVoicePromptXML(t *testing.T) {
	out, err := xml.Marshal(NewVoicePrompt(DefaultVoicePrompt, "/webhook/voice/transcription"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(out)

	for _, want := range []string{
		"<Response>",
		"<Say>",
		`transcribe="true"`,
		`transcribeCallback="/webhook/voice/transcription"`,
		`playBeep="true"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("voice prompt xml %q missing %q", got, want)
		}
	}
}
