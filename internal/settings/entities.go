package settings

import (
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/tartampluch/go-agewidget/internal/config"
	"github.com/tartampluch/go-agewidget/internal/engine"
)

// DecodePeople converts raw configuration items to people. Items that are not
// maps still yield a (nameless, dateless) person so they render as error rows.
func DecodePeople(raw []any) []engine.Person {
	people := make([]engine.Person, 0, len(raw))
	for _, item := range raw {
		m := fields(item)
		people = append(people, engine.Person{
			Name:       text(m["name"]),
			DOB:        text(m["dob"]),
			Mode:       text(m["mode"]),
			ShowYears:  flag(m["showyears"]),
			ShowMonths: flag(m["showmonths"]),
			ShowDays:   flag(m["showdays"]),
		})
	}
	return people
}

// DecodeEvents converts raw configuration items to events.
func DecodeEvents(raw []any) []engine.Event {
	events := make([]engine.Event, 0, len(raw))
	for _, item := range raw {
		m := fields(item)
		events = append(events, engine.Event{
			Name:      text(m["name"]),
			Date:      text(m["date"]),
			Text:      text(m["text"]),
			TodayText: text(m["todaytext"]),
			Emoji:     text(m["emoji"]),
		})
	}
	return events
}

// fields returns the item's keys lower-cased, the way viper stores them.
func fields(item any) map[string]any {
	m, err := cast.ToStringMapE(item)
	if err != nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

// text renders scalars as text. Dates decoded by YAML as timestamps are
// turned back into YYYY-MM-DD; numbers keep their digits and fail parsing.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(config.DateFormatISO)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// flag only accepts real booleans; anything else counts as "not set".
func flag(v any) *bool {
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}
