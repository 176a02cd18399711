package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-agewidget/internal/config"
	"github.com/tartampluch/go-agewidget/internal/locale"
)

// Feed builds an iCalendar of anniversaries for the configured entities.
type Feed struct {
	Clock Clock // Interface for time mocking.

	// ReminderTrigger is an ISO-8601 duration ("-P1D"); empty disables alarms.
	ReminderTrigger string
}

// Build returns the encoded calendar and the number of anniversaries today.
// Entities with an unusable date are skipped.
//
// The count follows the day the event is placed on, so a Feb 29 origin counts
// on Mar 1 of a common year. The board is stricter: IsAnniversary only matches
// the exact month and day, and that row is not highlighted on Mar 1.
func (f *Feed) Build(ctx context.Context, entities []Entity, opts Options) ([]byte, int, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Anniversaries follow the local calendar date; only the stamp is UTC.
	now := f.Clock.Now()
	today := DateOf(now)
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	loc := locale.Lookup(opts.Locale)
	stats := struct{ total, valid, today int }{}

	for _, e := range entities {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		if e == nil {
			continue
		}
		stats.total++

		origin, ok := ParseDate(e.DateText())
		if !ok {
			continue
		}
		stats.valid++

		name := e.DisplayName()
		if name == "" {
			name = loc.Unknown
		}

		input := fmt.Sprintf(config.FormatHashInput, name, origin.String(), config.UIDSalt)
		hash := sha256.Sum256([]byte(input))
		uidBase := fmt.Sprintf("%x", hash[:config.UIDHashLength])

		events, isToday := f.createEvents(e, name, origin, today, uidBase, opts, loc)
		if isToday {
			stats.today++
			slog.Info(config.MsgAnniversary,
				config.LogKeyComponent, config.CompFeed,
				config.LogKeyName, name,
				config.LogKeyDate, origin.String())
		}

		for _, ev := range events {
			ev.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, ev.Component)
		}
	}

	if len(cal.Children) == 0 {
		f.logSuccess(stats)
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	f.logSuccess(stats)
	return buf.Bytes(), stats.today, nil
}

func (f *Feed) logSuccess(stats struct{ total, valid, today int }) {
	slog.Info(config.MsgFeedSuccess,
		config.LogKeyComponent, config.CompFeed,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyRows, stats.total),
			slog.Int(config.LogKeyFound, stats.valid),
			slog.Int(config.LogKeyToday, stats.today),
		),
	)
}

// createEvents generates one all-day event per year around today's year,
// never before the origin year.
func (f *Feed) createEvents(e Entity, name string, origin, today CalendarDate, uidBase string, opts Options, loc locale.Entry) ([]*ical.Event, bool) {
	var events []*ical.Event
	isToday := false

	for y := today.Year - config.FeedYearsBefore; y <= today.Year+config.FeedYearsAfter; y++ {
		if y < origin.Year {
			continue
		}

		years := y - origin.Year
		// Same normalization as Calculate: Feb 29 falls on Mar 1 in common years.
		eventDate := origin.AddDate(years, 0)
		if eventDate == today {
			isToday = true
		}

		summary := feedSummary(e, name, years, opts, loc)

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(time.Date(eventDate.Year, eventDate.Month, eventDate.Day, 0, 0, 0, 0, time.UTC))
		event.Props.Set(dtStartProp)

		if f.ReminderTrigger != "" {
			addAlarm(event, f.ReminderTrigger, summary)
		}

		events = append(events, event)
	}
	return events, isToday
}

// feedSummary names the anniversary: "🎂 Alice turns 30 years".
func feedSummary(e Entity, name string, years int, opts Options, loc locale.Entry) string {
	emoji := opts.BirthdayEmoji
	if ev, ok := asEvent(e); ok {
		emoji = ev.Emoji
		if emoji == "" {
			emoji = config.DefaultEventEmoji
		}
		if ev.TodayText != "" {
			return FormatTemplate(ev.TodayText, map[string]string{
				config.TemplateKeyName:  name,
				config.TemplateKeyYears: strconv.Itoa(years),
				config.TemplateKeyEmoji: emoji,
			})
		}
	}

	if years == 0 {
		return joinWords(emoji, name)
	}
	return joinWords(emoji, name, loc.Turns, strconv.Itoa(years), loc.Label(locale.Year, years))
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
