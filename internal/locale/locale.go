// Package locale holds the fixed phrase tables used to render ages.
//
// The tables are stored as go-i18n message files embedded in the binary and
// are flattened into immutable Entry values once, at package initialization.
// Nothing in this package changes after process start.
package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-agewidget/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Unit identifies one of the age units.
type Unit int

const (
	Year Unit = iota
	Month
	Day
	unitCount
)

// Forms holds the singular and plural label of a unit.
// One may be empty for locales without a singular form.
type Forms struct {
	One   string
	Other string
}

// Entry is one row of the locale table.
type Entry struct {
	Code          string
	Old           string // Optional suffix appended after the age ("old"); empty when the locale has none.
	NoPeople      string
	InvalidDOB    string
	Unknown       string
	JustBorn      string
	Turns         string
	Today         string
	YearsSince    string
	PartSeparator string

	// Pluralize selects Forms.One for a count of exactly 1. When false the
	// Other label is used regardless of the count.
	Pluralize bool

	units [unitCount]Forms
}

// Units returns the labels of a unit.
func (e Entry) Units(u Unit) Forms {
	if u < 0 || u >= unitCount {
		return Forms{}
	}
	return e.units[u]
}

// Label returns the label to print next to n units of u.
func (e Entry) Label(u Unit, n int) string {
	forms := e.Units(u)
	if e.Pluralize && n == 1 {
		return forms.One
	}
	return forms.Other
}

// builtin describes a locale shipped with the binary.
type builtin struct {
	code      string
	tag       language.Tag
	pluralize bool
}

var builtins = []builtin{
	{code: "en", tag: language.English, pluralize: true},
	{code: "ms", tag: language.Malay, pluralize: false},
}

var unitKeys = [unitCount]string{
	Year:  config.TKeyUnitYear,
	Month: config.TKeyUnitMonth,
	Day:   config.TKeyUnitDay,
}

var registry = mustLoad(localeFS)

// Lookup returns the entry for a locale code such as "en", "ms" or "ms-MY".
// Unknown or malformed codes fall back to the default locale.
func Lookup(code string) Entry {
	if e, ok := registry[baseCode(code)]; ok {
		return e
	}
	return registry[config.DefaultLocale]
}

// Has reports whether code resolves to a built-in locale without falling back.
func Has(code string) bool {
	_, ok := registry[baseCode(code)]
	return ok
}

// Codes lists the built-in locale codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// baseCode reduces a BCP 47 code to its language subtag.
func baseCode(code string) string {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

func mustLoad(fsys fs.FS) map[string]Entry {
	entries, err := load(fsys)
	if err != nil {
		panic(err)
	}
	return entries
}

// load reads every built-in message file into a bundle and flattens it.
func load(fsys fs.FS) (map[string]Entry, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, b := range builtins {
		path := fmt.Sprintf(config.LocaleFileFormat, b.code)
		if _, err := bundle.LoadMessageFileFS(fsys, path); err != nil {
			return nil, fmt.Errorf("%s %s: %w", config.ErrLocaleLoad, path, err)
		}
	}

	entries := make(map[string]Entry, len(builtins))
	for _, b := range builtins {
		entries[b.code] = flatten(bundle, b)
	}
	return entries, nil
}

func flatten(bundle *i18n.Bundle, b builtin) Entry {
	loc := i18n.NewLocalizer(bundle, b.tag.String())
	phrase := func(id string) string {
		return localize(loc, b.tag, id, nil)
	}

	e := Entry{
		Code:          b.code,
		Old:           phrase(config.TKeyOld),
		NoPeople:      phrase(config.TKeyNoPeople),
		InvalidDOB:    phrase(config.TKeyInvalidDOB),
		Unknown:       phrase(config.TKeyUnknown),
		JustBorn:      phrase(config.TKeyJustBorn),
		Turns:         phrase(config.TKeyTurns),
		Today:         phrase(config.TKeyToday),
		YearsSince:    phrase(config.TKeyYearsSince),
		PartSeparator: phrase(config.TKeyPartSeparator),
		Pluralize:     b.pluralize,
	}
	for u, id := range unitKeys {
		e.units[u] = Forms{
			One:   localize(loc, b.tag, id, 1),
			Other: localize(loc, b.tag, id, 2),
		}
	}
	if !b.pluralize {
		e.units = dropSingular(e.units)
	}
	return e
}

// localize resolves a message for exactly the wanted language. A message
// the bundle could only serve from the fallback language counts as absent.
func localize(loc *i18n.Localizer, want language.Tag, id string, count interface{}) string {
	msg, tag, err := loc.LocalizeWithTag(&i18n.LocalizeConfig{
		MessageID:   id,
		PluralCount: count,
	})
	if err != nil {
		return ""
	}
	got, _ := tag.Base()
	wanted, _ := want.Base()
	if got != wanted {
		return ""
	}
	return msg
}

func dropSingular(units [unitCount]Forms) [unitCount]Forms {
	for i := range units {
		units[i].One = ""
	}
	return units
}
