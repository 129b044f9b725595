package extractor

import (
	"fmt"
	"time"

	"github.com/AIworks24/calendar-agent/internal/domain"
)

const systemPrompt = `You extract structured event data from informal announcements. Reply with a single JSON object and nothing else, using exactly these fields:

"title": short event title
"startDate": event date in YYYY-MM-DD format
"startTime": 24-hour clock HH:MM:SS, or "" if the text states no time
"endDate": YYYY-MM-DD, or "" if not stated
"endTime": HH:MM:SS, or "" if not stated
"location": venue or place, or "TBD" if not stated
"description": one or two sentences summarizing the announcement
"allDay": true only for explicit all-day or multi-day events
"statedDayOfWeek": the weekday name the text asserts (for example "Monday"), or "" if none
"yearStated": true only if the text spells out the year
"validationNotes": anything you assumed or could not find, in plain language, or ""
"confidence": "high", "medium" or "low"

Resolve relative dates ("tomorrow", "next Tuesday") against the reference date. When no year is given, use the reference year, or the following year if that month and day have already passed. If the stated weekday does not match the date, keep the stated date and report the weekday in statedDayOfWeek; do not fix the mismatch yourself. If the title, date or other key details are missing, list them in validationNotes and use "low" confidence.`

func userPrompt(now time.Time, msg domain.RawMessage) string {
	return fmt.Sprintf("Reference date: %s\nChannel: %s\n\nAnnouncement:\n%s",
		now.Format("Monday, January 2, 2006, 3:04 PM MST"), msg.Channel, msg.Text)
}
