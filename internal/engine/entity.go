package engine

import "github.com/tartampluch/go-agewidget/internal/config"

// Entity is something whose age is displayed: a Person or an Event.
type Entity interface {
	// DisplayName is the configured name, possibly empty.
	DisplayName() string
	// DateText is the unparsed origin date.
	DateText() string
	// Kind is config.EntityKindPerson or config.EntityKindEvent.
	Kind() string
}

// Person is a configured person. Nil display switches are "not set".
type Person struct {
	Name       string
	DOB        string
	Mode       string
	ShowYears  *bool
	ShowMonths *bool
	ShowDays   *bool
}

func (p Person) DisplayName() string { return p.Name }
func (p Person) DateText() string    { return p.DOB }
func (p Person) Kind() string        { return config.EntityKindPerson }

// Event is a configured event (wedding, founding date...).
// Text and TodayText are optional templates with {name}, {years} and {emoji}.
type Event struct {
	Name      string
	Date      string
	Text      string
	TodayText string
	Emoji     string
}

func (e Event) DisplayName() string { return e.Name }
func (e Event) DateText() string    { return e.Date }
func (e Event) Kind() string        { return config.EntityKindEvent }

// Options are the global display switches.
type Options struct {
	Mode       string
	ShowYears  *bool
	ShowMonths *bool
	ShowDays   *bool

	HighlightBirthday   bool
	ShowBirthdayMessage bool
	BirthdayEmoji       string
	ShowOldSuffix       bool
	Separator           string // Between the name and the text; used by renderers.
	Locale              string
}

// DefaultOptions mirrors the widget defaults.
func DefaultOptions() Options {
	return Options{
		Mode:              config.DefaultMode,
		HighlightBirthday: true,
		BirthdayEmoji:     config.DefaultBirthdayEmoji,
		ShowOldSuffix:     true,
		Separator:         config.DefaultSeparator,
		Locale:            config.DefaultLocale,
	}
}

// Row is the rendered state of one entity.
type Row struct {
	Name               string     `json:"name"`
	Kind               string     `json:"kind"`
	IsError            bool       `json:"isError"`
	IsAnniversaryToday bool       `json:"isAnniversaryToday"`
	Highlight          bool       `json:"highlight"`
	DisplayText        string     `json:"displayText"`
	Age                *Breakdown `json:"age,omitempty"`
}

// Layout carries presentation hints for renderers. The engine does not use them.
type Layout struct {
	Title     string `json:"title,omitempty"`
	ShowTitle bool   `json:"showTitle"`
	Inline    bool   `json:"inline"`
	TextAlign string `json:"textAlign,omitempty"`
}

// Board is a full render of all configured entities for one day.
type Board struct {
	Date      string `json:"date"`
	Locale    string `json:"locale"`
	Separator string `json:"separator"`
	Layout    Layout `json:"layout"`
	Rows      []Row  `json:"rows"`

	// Empty is the placeholder text when nothing is configured.
	Empty string `json:"empty,omitempty"`
}

func asEvent(e Entity) (Event, bool) {
	switch ev := e.(type) {
	case Event:
		return ev, true
	case *Event:
		return *ev, true
	default:
		return Event{}, false
	}
}

// asPerson treats any non-event entity as a person with default switches.
func asPerson(e Entity) Person {
	switch p := e.(type) {
	case Person:
		return p
	case *Person:
		return *p
	default:
		return Person{Name: e.DisplayName(), DOB: e.DateText()}
	}
}
