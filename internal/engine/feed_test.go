package engine_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-agewidget/internal/config"
	"github.com/tartampluch/go-agewidget/internal/engine"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func newFeed(at time.Time) *engine.Feed {
	return &engine.Feed{Clock: MockClock{CurrentTime: at}}
}

func TestFeedBuild_Success(t *testing.T) {
	// Set "Now" to Alice's birthday
	feed := newFeed(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	people := []engine.Entity{engine.Person{Name: "Alice", DOB: "2000-01-01"}}

	data, count, err := feed.Build(context.Background(), people, engine.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, count, "Should identify one anniversary today")

	ics := string(data)
	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR"), "Should start with VCALENDAR")
	assert.Equal(t, 3, strings.Count(ics, "BEGIN:VEVENT"), "One event per year around today")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20240101")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20250101")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20260101")
	assert.Contains(t, ics, "SUMMARY:🎂 Alice turns 25 years")
	assert.Contains(t, ics, "X-WR-CALNAME:"+config.ICalCalName)
	assert.NotContains(t, ics, "BEGIN:VALARM", "No reminder configured")
}

func TestFeedBuild_LeapYear(t *testing.T) {
	// 2025 is NOT a leap year. Feb 29 -> March 1.
	feed := newFeed(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	people := []engine.Entity{engine.Person{Name: "Leap Baby", DOB: "2000-02-29"}}

	data, count, err := feed.Build(context.Background(), people, engine.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, count, "Leap birthday should be celebrated on March 1st in non-leap years")
	assert.False(t, engine.IsAnniversary(engine.CalendarDate{Year: 2000, Month: time.February, Day: 29},
		engine.CalendarDate{Year: 2025, Month: time.March, Day: 1}), "The board stays strict on the same day")

	ics := string(data)
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20240229")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20250301")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20260301")
}

func TestFeedBuild_NeverBeforeOrigin(t *testing.T) {
	feed := newFeed(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	people := []engine.Entity{engine.Person{Name: "Baby", DOB: "2025-05-01"}}

	data, count, err := feed.Build(context.Background(), people, engine.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	ics := string(data)
	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"))
	assert.NotContains(t, ics, "20240501")
	assert.Contains(t, ics, "SUMMARY:🎂 Baby\r\n", "Birth year has no age")
	assert.Contains(t, ics, "SUMMARY:🎂 Baby turns 1 year\r\n")
}

func TestFeedBuild_EmptyReturnsStub(t *testing.T) {
	feed := newFeed(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	entities := []engine.Entity{
		engine.Person{Name: "Future", DOB: "2030-01-01"},
		engine.Person{Name: "Broken", DOB: "not-a-date"},
		nil,
	}

	data, count, err := feed.Build(context.Background(), entities, engine.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, config.StubVCalendar, string(data))

	data, _, err = feed.Build(context.Background(), nil, engine.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data))
}

func TestFeedBuild_Reminder(t *testing.T) {
	feed := newFeed(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	feed.ReminderTrigger = "-P1D"

	data, _, err := feed.Build(context.Background(), []engine.Entity{engine.Person{Name: "Alice", DOB: "1990-06-15"}}, engine.DefaultOptions())
	require.NoError(t, err)

	ics := string(data)
	assert.Equal(t, 3, strings.Count(ics, "BEGIN:VALARM"))
	assert.Contains(t, ics, "TRIGGER:-P1D")
	assert.Contains(t, ics, "ACTION:DISPLAY")
	assert.Contains(t, ics, "DESCRIPTION:🎂 Alice turns 35 years")
}

func TestFeedBuild_Events(t *testing.T) {
	feed := newFeed(time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC))
	entities := []engine.Entity{
		engine.Event{Name: "Wedding", Date: "2010-09-01", Emoji: "💍", TodayText: "{emoji} {name} {years}"},
		engine.Event{Name: "Shop", Date: "2015-02-10"},
	}

	data, count, err := feed.Build(context.Background(), entities, engine.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	ics := string(data)
	assert.Contains(t, ics, "SUMMARY:💍 Wedding 15")
	assert.Contains(t, ics, "SUMMARY:🎉 Shop turns 10 years")
}

func TestFeedBuild_LocaleAndUnknownName(t *testing.T) {
	feed := newFeed(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	opts := engine.DefaultOptions()
	opts.Locale = "ms"

	data, _, err := feed.Build(context.Background(), []engine.Entity{engine.Person{DOB: "2000-01-01"}}, opts)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:🎂 Tidak diketahui genap 25 tahun")
}

func TestFeedBuild_StableUIDs(t *testing.T) {
	people := []engine.Entity{engine.Person{Name: "Alice", DOB: "2000-01-01"}}

	first, _, err := newFeed(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)).Build(context.Background(), people, engine.DefaultOptions())
	require.NoError(t, err)
	second, _, err := newFeed(time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)).Build(context.Background(), people, engine.DefaultOptions())
	require.NoError(t, err)

	uids := func(ics string) []string {
		var out []string
		for _, line := range strings.Split(ics, "\r\n") {
			if strings.HasPrefix(line, "UID:") {
				out = append(out, line)
			}
		}
		return out
	}
	assert.Len(t, uids(string(first)), 3)
	assert.Equal(t, uids(string(first)), uids(string(second)))
}

func TestFeedBuild_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newFeed(time.Now()).Build(ctx, []engine.Entity{engine.Person{Name: "A", DOB: "2000-01-01"}}, engine.DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}
