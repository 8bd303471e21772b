package actions

import (
	"strings"
	"time"
)

// Event is the subset of an iCalendar VEVENT needed to add it to a
// calendar.
type Event struct {
	Title    string
	Start    time.Time
	End      time.Time
	AllDay   bool
	Location string
}

var eventLayouts = []struct {
	layout string
	allDay bool
}{
	{"20060102T150405Z", false},
	{"20060102T150405", false},
	{"20060102", true},
}

// ParseEvent reads the first VEVENT block in text. It fails when there is
// no block or DTSTART is missing or malformed; a bad DTEND is ignored.
// Floating times (no "Z") are read as UTC.
func ParseEvent(text string) (Event, bool) {
	upper := strings.ToUpper(text)
	begin := strings.Index(upper, "BEGIN:VEVENT")
	if begin < 0 {
		return Event{}, false
	}
	body := text[begin:]
	if end := strings.Index(strings.ToUpper(body), "END:VEVENT"); end >= 0 {
		body = body[:end]
	}

	var ev Event
	var haveStart bool
	for _, line := range unfold(body) {
		head, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(strings.ToUpper(head), ";")
		value = strings.TrimSpace(value)
		switch name {
		case "SUMMARY":
			ev.Title = icsUnescape(value)
		case "LOCATION":
			ev.Location = icsUnescape(value)
		case "DTSTART":
			ev.Start, ev.AllDay, haveStart = parseEventTime(value)
		case "DTEND":
			if t, _, ok := parseEventTime(value); ok {
				ev.End = t
			}
		}
	}
	if !haveStart {
		return Event{}, false
	}
	if ev.End.Before(ev.Start) {
		ev.End = time.Time{}
	}
	return ev, true
}

func parseEventTime(s string) (time.Time, bool, bool) {
	for _, l := range eventLayouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			return t, l.allDay, true
		}
	}
	return time.Time{}, false, false
}

func unfold(s string) []string {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if (strings.HasPrefix(l, " ") || strings.HasPrefix(l, "\t")) && len(lines) > 0 {
			lines[len(lines)-1] += l[1:]
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

var icsUnescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)

func icsUnescape(s string) string { return icsUnescaper.Replace(s) }

func (ev Event) action(raw string) Action {
	params := map[string]string{
		"title": ev.Title,
		"start": ev.formatTime(ev.Start),
	}
	if !ev.End.IsZero() {
		params["end"] = ev.formatTime(ev.End)
	}
	if ev.Location != "" {
		params["location"] = ev.Location
	}
	if ev.AllDay {
		params["all_day"] = "true"
	}
	return Action{Type: TypeAddEvent, Label: "Add to Calendar", Target: raw, Params: params}
}

func (ev Event) formatTime(t time.Time) string {
	if ev.AllDay {
		return t.Format(time.DateOnly)
	}
	return t.UTC().Format(time.RFC3339)
}
