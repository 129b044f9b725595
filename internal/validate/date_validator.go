// Package validate repairs the date and time fields of extracted event
// candidates. Announcements routinely assert a weekday that contradicts the
// calendar date, omit the year, or omit times entirely; the rules here fix
// what can be fixed deterministically and record every change as a
// human-readable validation note on the record.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/AIworks24/calendar-agent/internal/domain"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05"

	eveningStart = "19:00:00"
	daytimeStart = "10:00:00"
	allDayStart  = "00:00:00"
	allDayEnd    = "23:59:59"
)

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// DateValidator applies the repair rules to extracted event candidates. It is
// pure: the same record and reference time always produce the same result,
// and validating an already-validated record changes nothing.
type DateValidator struct {
	eveningKeywords []string
}

// NewDateValidator returns a validator whose missing-time default switches to
// the evening when the event title or description contains one of the given
// keywords.
func NewDateValidator(eveningKeywords []string) *DateValidator {
	keywords := make([]string, 0, len(eveningKeywords))
	for _, k := range eveningKeywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			keywords = append(keywords, k)
		}
	}
	return &DateValidator{eveningKeywords: keywords}
}

// Validate repairs record in place. ref anchors "has this date passed" and
// year defaulting; only its calendar date matters. Explicitly stated values
// survive verbatim unless they contradict each other, and every change
// appends a note the channel reply can quote.
func (v *DateValidator) Validate(record *domain.EventRecord, ref time.Time) {
	record.StartTime = normalizeClock(record.StartTime)
	record.EndTime = normalizeClock(record.EndTime)
	refDay := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	if record.StartTime != "" && !validClock(record.StartTime) {
		record.AppendNote(fmt.Sprintf("Could not interpret the start time %q.", record.StartTime))
		record.Confidence = domain.ConfidenceLow
	}
	if record.EndTime != "" && !validClock(record.EndTime) {
		record.AppendNote(fmt.Sprintf("Could not interpret the end time %q.", record.EndTime))
		record.Confidence = domain.ConfidenceLow
	}

	start, ok := parseDay(record.StartDate)
	if !ok {
		if strings.TrimSpace(record.StartDate) == "" {
			record.AppendNote("The event date is missing.")
		} else {
			record.AppendNote(fmt.Sprintf("Could not interpret the start date %q.", record.StartDate))
		}
		record.Confidence = domain.ConfidenceLow
	} else {
		start = v.repairWeekday(record, start)
		start = v.rollPastDate(record, start, refDay)
	}

	if record.AllDay {
		v.pinAllDay(record)
	} else {
		v.defaultStartTime(record)
		v.defaultEnd(record, ok)
		v.repairEndOrder(record, start, ok)
	}

	if strings.TrimSpace(record.Title) == "" {
		record.AppendNote("The event title is missing.")
		record.Confidence = domain.ConfidenceLow
	}
	switch record.Confidence {
	case domain.ConfidenceHigh, domain.ConfidenceMedium, domain.ConfidenceLow:
	default:
		record.AppendNote(fmt.Sprintf("Unrecognized confidence %q; treating the extraction as low confidence.", record.Confidence))
		record.Confidence = domain.ConfidenceLow
	}
}

// repairWeekday moves the start date to the nearest date matching an asserted
// weekday. The weekday wins over the calendar date: "Monday, December 9" in a
// year where December 9 is a Tuesday becomes Monday, December 8.
func (v *DateValidator) repairWeekday(record *domain.EventRecord, start time.Time) time.Time {
	asserted, ok := weekdayFor(record.StatedWeekday)
	if !ok || start.Weekday() == asserted {
		return start
	}
	corrected := nearestWeekday(start, asserted)
	endTracked := record.EndDate != "" && record.EndDate == record.StartDate
	record.AppendNote(fmt.Sprintf("%s falls on a %s, not a %s; moved the date to %s.",
		start.Format("January 2, 2006"), start.Weekday(), asserted,
		corrected.Format("Monday, January 2, 2006")))
	record.StartDate = corrected.Format(dateLayout)
	record.DateCorrected = true
	if endTracked {
		record.EndDate = record.StartDate
	}
	return corrected
}

// rollPastDate moves a date with no stated year forward to its next
// occurrence once it has passed, keeping any asserted weekday aligned. Dates
// whose year was spelled out stay put even when they are in the past.
func (v *DateValidator) rollPastDate(record *domain.EventRecord, start, refDay time.Time) time.Time {
	if record.YearStated || !start.Before(refDay) {
		return start
	}
	rolled := time.Date(refDay.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	if rolled.Before(refDay) {
		rolled = rolled.AddDate(1, 0, 0)
	}
	if asserted, ok := weekdayFor(record.StatedWeekday); ok && rolled.Weekday() != asserted {
		rolled = nearestWeekday(rolled, asserted)
		if rolled.Before(refDay) {
			rolled = rolled.AddDate(0, 0, 7)
		}
	}
	endTracked := record.EndDate != "" && record.EndDate == record.StartDate
	record.AppendNote(fmt.Sprintf("%s had already passed; moved the event forward to %s.",
		start.Format("January 2, 2006"), rolled.Format("Monday, January 2, 2006")))
	record.StartDate = rolled.Format(dateLayout)
	record.DateCorrected = true
	if endTracked {
		record.EndDate = record.StartDate
	}
	return rolled
}

// defaultStartTime fills a missing start time: early evening when the event
// reads like an evening gathering, mid-morning otherwise.
func (v *DateValidator) defaultStartTime(record *domain.EventRecord) {
	if record.StartTime != "" {
		return
	}
	if v.isEvening(record) {
		record.StartTime = eveningStart
		record.AppendNote("No start time was stated; assumed 7:00 PM for an evening event.")
		return
	}
	record.StartTime = daytimeStart
	record.AppendNote("No start time was stated; assumed 10:00 AM.")
}

// defaultEnd fills missing end fields: same day as the start, one hour after
// the start time. An end time that crosses midnight pushes the end date to
// the next day.
func (v *DateValidator) defaultEnd(record *domain.EventRecord, startParsed bool) {
	if record.EndDate == "" && record.StartDate != "" && startParsed {
		record.EndDate = record.StartDate
		if record.EndTime != "" {
			record.AppendNote("Assumed the event ends the same day.")
		}
	}
	if record.EndTime != "" || !validClock(record.StartTime) {
		return
	}
	end, rolledOver := addHour(record.StartTime)
	record.EndTime = end
	if rolledOver && startParsed && record.EndDate == record.StartDate {
		if day, ok := parseDay(record.EndDate); ok {
			record.EndDate = day.AddDate(0, 0, 1).Format(dateLayout)
		}
	}
	record.AppendNote("No end time was stated; assumed a one-hour duration.")
}

// repairEndOrder enforces end-after-start on records where both ends are
// explicit. An end date before the start date collapses to the start date; a
// same-day end time at or before the start time moves to one hour after it.
func (v *DateValidator) repairEndOrder(record *domain.EventRecord, start time.Time, startParsed bool) {
	if !startParsed || record.EndDate == "" {
		return
	}
	end, ok := parseDay(record.EndDate)
	if !ok {
		record.AppendNote(fmt.Sprintf("Could not interpret the end date %q; assumed the event ends the same day.", record.EndDate))
		record.EndDate = record.StartDate
	} else if end.Before(start) {
		record.AppendNote(fmt.Sprintf("The end date %s was before the start date; corrected it to %s.",
			end.Format("January 2, 2006"), start.Format("January 2, 2006")))
		record.EndDate = record.StartDate
	}
	if record.EndDate != record.StartDate || !validClock(record.StartTime) || !validClock(record.EndTime) {
		return
	}
	if record.EndTime > record.StartTime {
		return
	}
	end2, rolledOver := addHour(record.StartTime)
	record.EndTime = end2
	if rolledOver {
		record.EndDate = start.AddDate(0, 0, 1).Format(dateLayout)
	}
	record.AppendNote(fmt.Sprintf("The end time was not after the start time; adjusted it to %s.", humanClock(end2)))
}

// pinAllDay sets all-day events to span whole days. The pinned times are
// placeholders for the calendar store, not statements about the schedule.
func (v *DateValidator) pinAllDay(record *domain.EventRecord) {
	changed := false
	if record.StartTime != allDayStart {
		record.StartTime = allDayStart
		changed = true
	}
	if record.EndTime != allDayEnd {
		record.EndTime = allDayEnd
		changed = true
	}
	if _, ok := parseDay(record.StartDate); ok && record.EndDate == "" {
		record.EndDate = record.StartDate
		changed = true
	}
	if start, ok := parseDay(record.StartDate); ok {
		if end, ok := parseDay(record.EndDate); ok && end.Before(start) {
			record.EndDate = record.StartDate
			changed = true
		}
	}
	if changed {
		record.AppendNote("All-day event; set the times to cover the whole day.")
	}
}

func (v *DateValidator) isEvening(record *domain.EventRecord) bool {
	text := strings.ToLower(record.Title + " " + record.Description)
	for _, k := range v.eveningKeywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// nearestWeekday returns the date closest to d that falls on target, at most
// three days away in either direction.
func nearestWeekday(d time.Time, target time.Weekday) time.Time {
	delta := (int(target) - int(d.Weekday()) + 7) % 7
	if delta > 3 {
		delta -= 7
	}
	return d.AddDate(0, 0, delta)
}

func weekdayFor(name string) (time.Weekday, bool) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return wd, ok
}

func parseDay(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	return t, err == nil
}

// normalizeClock pads HH:MM values to HH:MM:SS. Anything else passes through
// untouched.
func normalizeClock(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 5 && s[2] == ':' {
		return s + ":00"
	}
	return s
}

func validClock(s string) bool {
	_, err := time.Parse(clockLayout, s)
	return err == nil
}

// addHour returns the clock one hour after s and whether that crossed
// midnight. s must be a valid clock.
func addHour(s string) (string, bool) {
	t, _ := time.Parse(clockLayout, s)
	end := t.Add(time.Hour)
	return end.Format(clockLayout), end.Day() != t.Day()
}

func humanClock(s string) string {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return s
	}
	return t.Format("3:04 PM")
}
