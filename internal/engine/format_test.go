package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-agewidget/internal/config"
	"github.com/tartampluch/go-agewidget/internal/locale"
)

func optsWith(mutate func(*Options)) Options {
	o := DefaultOptions()
	if mutate != nil {
		mutate(&o)
	}
	return o
}

func TestFormatEntity_Person(t *testing.T) {
	tests := []struct {
		name   string
		person Person
		today  string
		opts   Options
		locale string
		want   string
	}{
		{
			name:   "Adult with suffix",
			person: Person{Name: "Alice", DOB: "1990-06-15"},
			today:  "2025-01-10",
			opts:   optsWith(nil),
			locale: "en",
			want:   "34 years, 6 months, 26 days old",
		},
		{
			name:   "Singular units",
			person: Person{Name: "Bo", DOB: "2023-02-14"},
			today:  "2024-03-15",
			opts:   optsWith(nil),
			locale: "en",
			want:   "1 year, 1 month, 1 day old",
		},
		{
			name:   "Baby skips zero years",
			person: Person{Name: "Kid", DOB: "2024-01-05", Mode: config.ModeBaby},
			today:  "2024-03-15",
			opts:   optsWith(func(o *Options) { o.ShowOldSuffix = false }),
			locale: "en",
			want:   "2 months, 10 days",
		},
		{
			name:   "Baby with suffix",
			person: Person{Name: "Kid", DOB: "2024-01-05", Mode: config.ModeBaby},
			today:  "2024-03-15",
			opts:   optsWith(nil),
			locale: "en",
			want:   "2 months, 10 days old",
		},
		{
			name:   "Malay has no suffix",
			person: Person{Name: "Kid", DOB: "2024-01-05", Mode: config.ModeBaby},
			today:  "2024-03-15",
			opts:   optsWith(nil),
			locale: "ms",
			want:   "2 bulan, 10 hari",
		},
		{
			name:   "Malay has no singular",
			person: Person{Name: "Bo", DOB: "2023-02-14"},
			today:  "2024-03-15",
			opts:   optsWith(nil),
			locale: "ms",
			want:   "1 tahun, 1 bulan, 1 hari",
		},
		{
			name:   "Newborn baby keeps zero years",
			person: Person{Name: "New", DOB: "2024-03-15", Mode: config.ModeBaby},
			today:  "2024-03-15",
			opts:   optsWith(func(o *Options) { o.ShowOldSuffix = false }),
			locale: "en",
			want:   "0 years",
		},
		{
			name:   "Newborn adult is just born",
			person: Person{Name: "New", DOB: "2024-03-15"},
			today:  "2024-03-15",
			opts:   optsWith(nil),
			locale: "en",
			want:   "just born",
		},
		{
			name:   "Child hides days",
			person: Person{Name: "Tim", DOB: "2019-12-03"},
			today:  "2025-03-15",
			opts:   optsWith(func(o *Options) { o.Mode = config.ModeChild }),
			locale: "en",
			want:   "5 years, 3 months old",
		},
		{
			name:   "Global override hides days",
			person: Person{Name: "Alice", DOB: "1990-06-15"},
			today:  "2025-01-10",
			opts:   optsWith(func(o *Options) { o.ShowDays = boolPtr(false) }),
			locale: "en",
			want:   "34 years, 6 months old",
		},
		{
			name:   "Person override wins",
			person: Person{Name: "Alice", DOB: "1990-06-15", ShowDays: boolPtr(true), ShowMonths: boolPtr(false)},
			today:  "2025-01-10",
			opts:   optsWith(func(o *Options) { o.ShowDays = boolPtr(false) }),
			locale: "en",
			want:   "34 years, 26 days old",
		},
		{
			name:   "Everything hidden",
			person: Person{Name: "Ghost", DOB: "1990-06-15", ShowYears: boolPtr(false), ShowMonths: boolPtr(false), ShowDays: boolPtr(false)},
			today:  "2025-01-10",
			opts:   optsWith(nil),
			locale: "en",
			want:   "just born",
		},
		{
			name:   "Birthday without message",
			person: Person{Name: "Alice", DOB: "1990-06-15"},
			today:  "2025-06-15",
			opts:   optsWith(nil),
			locale: "en",
			want:   "35 years old",
		},
		{
			name:   "Birthday message",
			person: Person{Name: "Alice", DOB: "1990-06-15"},
			today:  "2025-06-15",
			opts:   optsWith(func(o *Options) { o.ShowBirthdayMessage = true }),
			locale: "en",
			want:   "🎂 Alice turns 35 years today!",
		},
		{
			name:   "Birthday message, one year",
			person: Person{Name: "Bo", DOB: "2024-06-15"},
			today:  "2025-06-15",
			opts:   optsWith(func(o *Options) { o.ShowBirthdayMessage = true }),
			locale: "en",
			want:   "🎂 Bo turns 1 year today!",
		},
		{
			name:   "Birthday message in Malay",
			person: Person{Name: "Siti", DOB: "1990-06-15"},
			today:  "2025-06-15",
			opts:   optsWith(func(o *Options) { o.ShowBirthdayMessage = true; o.BirthdayEmoji = "🎈" }),
			locale: "ms",
			want:   "🎈 Siti genap 35 tahun hari ini!",
		},
		{
			name:   "Birthday message without emoji",
			person: Person{Name: "Alice", DOB: "1990-06-15"},
			today:  "2025-06-15",
			opts:   optsWith(func(o *Options) { o.ShowBirthdayMessage = true; o.BirthdayEmoji = "" }),
			locale: "en",
			want:   "Alice turns 35 years today!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Locale = tt.locale
			row := FormatEntity(tt.person, mustDate(t, tt.today), tt.opts, locale.Lookup(tt.locale))

			assert.False(t, row.IsError)
			assert.Equal(t, tt.want, row.DisplayText)
			assert.Equal(t, config.EntityKindPerson, row.Kind)
			require.NotNil(t, row.Age)
		})
	}
}

func TestFormatEntity_Highlight(t *testing.T) {
	today := mustDate(t, "2025-06-15")
	en := locale.Lookup("en")

	row := FormatEntity(Person{Name: "Alice", DOB: "1990-06-15"}, today, DefaultOptions(), en)
	assert.True(t, row.IsAnniversaryToday)
	assert.True(t, row.Highlight)

	off := optsWith(func(o *Options) { o.HighlightBirthday = false })
	row = FormatEntity(Person{Name: "Alice", DOB: "1990-06-15"}, today, off, en)
	assert.True(t, row.IsAnniversaryToday)
	assert.False(t, row.Highlight)

	row = FormatEntity(Person{Name: "Bob", DOB: "1990-06-16"}, today, DefaultOptions(), en)
	assert.False(t, row.IsAnniversaryToday)
	assert.False(t, row.Highlight)
}

func TestFormatEntity_InvalidDate(t *testing.T) {
	today := mustDate(t, "2025-06-15")

	for _, dob := range []string{"", "2024-02-30", "15/06/1990", "2024"} {
		t.Run(dob, func(t *testing.T) {
			row := FormatEntity(Person{Name: "Broken", DOB: dob}, today, DefaultOptions(), locale.Lookup("en"))
			assert.True(t, row.IsError)
			assert.Equal(t, "Invalid DOB", row.DisplayText)
			assert.Equal(t, "Broken", row.Name)
			assert.Nil(t, row.Age)
			assert.False(t, row.Highlight)
		})
	}

	row := FormatEntity(Event{Name: "Bad", Date: "nope"}, today, DefaultOptions(), locale.Lookup("ms"))
	assert.True(t, row.IsError)
	assert.Equal(t, "Tarikh lahir tidak sah", row.DisplayText)
}

func TestFormatEntity_MissingName(t *testing.T) {
	row := FormatEntity(Person{DOB: "1990-06-15"}, mustDate(t, "2025-01-10"), DefaultOptions(), locale.Lookup("en"))
	assert.Equal(t, "Unknown", row.Name)
	assert.False(t, row.IsError)
}

func TestFormatEntity_Event(t *testing.T) {
	en := locale.Lookup("en")
	anniversary := mustDate(t, "2025-09-01")
	other := mustDate(t, "2025-10-01")

	tests := []struct {
		name  string
		event Event
		today CalendarDate
		want  string
	}{
		{"Default today text", Event{Name: "Wedding", Date: "2010-09-01"}, anniversary, "🎉 Wedding turns 15 years today!"},
		{"Custom emoji", Event{Name: "Wedding", Date: "2010-09-01", Emoji: "💍"}, anniversary, "💍 Wedding turns 15 years today!"},
		{
			"Custom today template",
			Event{Name: "Wedding", Date: "2010-09-01", Emoji: "💍", TodayText: "{emoji} {name}: {years} years together {foo}"},
			anniversary,
			"💍 Wedding: 15 years together {foo}",
		},
		{"Default text", Event{Name: "Wedding", Date: "2010-09-01"}, other, "15 years since"},
		{"One year", Event{Name: "Shop", Date: "2024-10-01"}, mustDate(t, "2025-11-01"), "1 year since"},
		{"Custom text", Event{Name: "Wedding", Date: "2010-09-01", Text: "{years} years married"}, other, "15 years married"},
		{"Text is not used today", Event{Name: "Wedding", Date: "2010-09-01", Text: "{years} years married"}, anniversary, "🎉 Wedding turns 15 years today!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := FormatEntity(tt.event, tt.today, DefaultOptions(), en)
			assert.False(t, row.IsError)
			assert.Equal(t, config.EntityKindEvent, row.Kind)
			assert.Equal(t, tt.want, row.DisplayText)
		})
	}
}

func TestFormatEntity_PointerEntities(t *testing.T) {
	today := mustDate(t, "2025-09-01")
	en := locale.Lookup("en")

	row := FormatEntity(&Event{Name: "Wedding", Date: "2010-09-01"}, today, DefaultOptions(), en)
	assert.Equal(t, "🎉 Wedding turns 15 years today!", row.DisplayText)

	row = FormatEntity(&Person{Name: "Kid", DOB: "2025-06-21", Mode: config.ModeBaby}, today, DefaultOptions(), en)
	assert.Equal(t, "2 months, 11 days old", row.DisplayText)
}

func TestAgeParts(t *testing.T) {
	en := locale.Lookup("en")
	all := DisplayConfig{ShowYears: true, ShowMonths: true, ShowDays: true}

	assert.Equal(t, []string{"3 years", "1 month"}, AgeParts(Breakdown{3, 1, 0}, all, en))
	assert.Empty(t, AgeParts(Breakdown{}, all, en))

	all.KeepZeroYears = true
	assert.Equal(t, []string{"0 years"}, AgeParts(Breakdown{}, all, en))
	assert.Equal(t, []string{"4 days"}, AgeParts(Breakdown{0, 0, 4}, all, en))
}

func TestRender(t *testing.T) {
	today := mustDate(t, "2025-06-15")
	layout := Layout{Title: "Family", ShowTitle: true, TextAlign: config.DefaultTextAlign}
	entities := []Entity{
		Person{Name: "Alice", DOB: "1990-06-15"},
		nil,
		Person{Name: "Broken", DOB: "1990-02-30"},
		Event{Name: "Wedding", Date: "2010-09-01"},
	}

	board := Render(entities, today, DefaultOptions(), layout)

	assert.Equal(t, "2025-06-15", board.Date)
	assert.Equal(t, "en", board.Locale)
	assert.Equal(t, config.DefaultSeparator, board.Separator)
	assert.Equal(t, layout, board.Layout)
	assert.Empty(t, board.Empty)
	require.Len(t, board.Rows, 3)

	assert.Equal(t, "Alice", board.Rows[0].Name)
	assert.True(t, board.Rows[0].Highlight)
	assert.True(t, board.Rows[1].IsError)
	assert.Equal(t, "14 years since", board.Rows[2].DisplayText)

	assert.Equal(t, board, Render(entities, today, DefaultOptions(), layout), "Render must be deterministic")
}

func TestRender_Empty(t *testing.T) {
	board := Render(nil, mustDate(t, "2025-06-15"), DefaultOptions(), Layout{})
	assert.Empty(t, board.Rows)
	assert.NotNil(t, board.Rows)
	assert.Equal(t, "No people configured", board.Empty)

	opts := optsWith(func(o *Options) { o.Locale = "ms-MY" })
	board = Render([]Entity{}, mustDate(t, "2025-06-15"), opts, Layout{})
	assert.Equal(t, "ms", board.Locale)
	assert.Equal(t, "Tiada orang dikonfigurasi", board.Empty)
}

func TestRender_UnknownLocaleFallsBack(t *testing.T) {
	opts := optsWith(func(o *Options) { o.Locale = "xx" })
	board := Render([]Entity{Person{Name: "A", DOB: "2000-01-01"}}, mustDate(t, "2025-01-01"), opts, Layout{})
	assert.Equal(t, "en", board.Locale)
	assert.Equal(t, "25 years old", board.Rows[0].DisplayText)
}
