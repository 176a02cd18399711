package engine

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/tartampluch/go-agewidget/internal/config"
	"github.com/tartampluch/go-agewidget/internal/locale"
)

// Render formats every entity for the given day. Entities with bad data
// become error rows; they never prevent the others from rendering.
// Equal inputs produce equal boards.
func Render(entities []Entity, today CalendarDate, opts Options, layout Layout) Board {
	loc := locale.Lookup(opts.Locale)
	board := Board{
		Date:      today.String(),
		Locale:    loc.Code,
		Separator: opts.Separator,
		Layout:    layout,
		Rows:      make([]Row, 0, len(entities)),
	}

	stats := struct{ errors, today int }{}
	for _, e := range entities {
		if e == nil {
			continue
		}
		row := FormatEntity(e, today, opts, loc)
		if row.IsError {
			stats.errors++
		}
		if row.IsAnniversaryToday {
			stats.today++
		}
		board.Rows = append(board.Rows, row)
	}

	if len(board.Rows) == 0 {
		board.Empty = loc.NoPeople
	}

	slog.Debug(config.MsgRenderDone,
		config.LogKeyComponent, config.CompFormat,
		config.LogKeyDate, board.Date,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyRows, len(board.Rows)),
			slog.Int(config.LogKeyErrors, stats.errors),
			slog.Int(config.LogKeyToday, stats.today),
		),
	)
	return board
}

// FormatEntity renders a single entity.
func FormatEntity(e Entity, today CalendarDate, opts Options, loc locale.Entry) Row {
	row := Row{Name: e.DisplayName(), Kind: e.Kind()}
	if row.Name == "" {
		row.Name = loc.Unknown
	}

	origin, err := ParseDateStrict(e.DateText())
	if err != nil {
		slog.Debug(config.MsgEntityInvalid,
			config.LogKeyComponent, config.CompFormat,
			config.LogKeyKind, row.Kind,
			config.LogKeyName, row.Name,
			config.LogKeyError, err,
		)
		row.IsError = true
		row.DisplayText = loc.InvalidDOB
		return row
	}

	age := Calculate(origin, today)
	row.Age = &age
	row.IsAnniversaryToday = IsAnniversary(origin, today)
	row.Highlight = row.IsAnniversaryToday && opts.HighlightBirthday

	if ev, ok := asEvent(e); ok {
		row.DisplayText = formatEvent(ev, row.Name, age, row.IsAnniversaryToday, loc)
	} else {
		row.DisplayText = formatPerson(asPerson(e), row.Name, age, row.IsAnniversaryToday, opts, loc)
	}
	return row
}

func formatPerson(p Person, name string, age Breakdown, anniversary bool, opts Options, loc locale.Entry) string {
	if anniversary && opts.ShowBirthdayMessage {
		return celebrate(opts.BirthdayEmoji, name, age.Years, loc)
	}

	parts := AgeParts(age, ResolveDisplay(p, opts), loc)
	if len(parts) == 0 {
		return loc.JustBorn
	}

	text := strings.Join(parts, loc.PartSeparator)
	if opts.ShowOldSuffix && loc.Old != "" {
		text += " " + loc.Old
	}
	return text
}

func formatEvent(ev Event, name string, age Breakdown, anniversary bool, loc locale.Entry) string {
	emoji := ev.Emoji
	if emoji == "" {
		emoji = config.DefaultEventEmoji
	}
	values := map[string]string{
		config.TemplateKeyName:  name,
		config.TemplateKeyYears: strconv.Itoa(age.Years),
		config.TemplateKeyEmoji: emoji,
	}

	if anniversary {
		if ev.TodayText != "" {
			return FormatTemplate(ev.TodayText, values)
		}
		return celebrate(emoji, name, age.Years, loc)
	}

	if ev.Text != "" {
		return FormatTemplate(ev.Text, values)
	}
	return joinWords(strconv.Itoa(age.Years), loc.Label(locale.Year, age.Years), loc.YearsSince)
}

// AgeParts lists the unit phrases ("3 years", "1 month") selected by display.
// A zero year count is only printed, under KeepZeroYears, when no other unit
// qualifies: a two-month-old baby reads "2 months, 10 days", a newborn "0 years".
// Printing "0 years, 2 months, 10 days" for the baby would also be a reading of
// KeepZeroYears; the shorter form matches the documented sample board.
func AgeParts(age Breakdown, display DisplayConfig, loc locale.Entry) []string {
	var parts []string

	if display.ShowYears && age.Years > 0 {
		parts = append(parts, unitPhrase(age.Years, locale.Year, loc))
	}
	if display.ShowMonths && age.Months > 0 {
		parts = append(parts, unitPhrase(age.Months, locale.Month, loc))
	}
	if display.ShowDays && age.Days > 0 {
		parts = append(parts, unitPhrase(age.Days, locale.Day, loc))
	}

	if len(parts) == 0 && display.ShowYears && display.KeepZeroYears && age.Years == 0 {
		parts = append(parts, unitPhrase(0, locale.Year, loc))
	}
	return parts
}

func unitPhrase(n int, u locale.Unit, loc locale.Entry) string {
	return strconv.Itoa(n) + " " + loc.Label(u, n)
}

// celebrate builds the "🎂 Alice turns 30 years today!" phrase.
func celebrate(emoji, name string, years int, loc locale.Entry) string {
	return joinWords(emoji, name, loc.Turns, strconv.Itoa(years), loc.Label(locale.Year, years), loc.Today)
}

// joinWords joins the non-empty words with single spaces.
func joinWords(words ...string) string {
	kept := words[:0]
	for _, w := range words {
		if w != "" {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
