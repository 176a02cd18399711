package engine

import "github.com/tartampluch/go-agewidget/internal/config"

// DisplayConfig selects which units of a Breakdown are printed.
type DisplayConfig struct {
	ShowYears  bool
	ShowMonths bool
	ShowDays   bool

	// KeepZeroYears prints "0 years" for a newborn instead of dropping the unit.
	KeepZeroYears bool
}

var presets = map[string]DisplayConfig{
	config.ModeChild: {ShowYears: true, ShowMonths: true, ShowDays: false, KeepZeroYears: false},
	config.ModeBaby:  {ShowYears: true, ShowMonths: true, ShowDays: true, KeepZeroYears: true},
	config.ModeAdult: {ShowYears: true, ShowMonths: true, ShowDays: true, KeepZeroYears: false},
}

// PresetFor returns the display preset of a mode. Unknown modes use the adult preset.
func PresetFor(mode string) DisplayConfig {
	if p, ok := presets[mode]; ok {
		return p
	}
	return presets[config.DefaultMode]
}

// ResolveBool picks the entity value when set, else the global value when set,
// else the preset value.
func ResolveBool(entity, global *bool, preset bool) bool {
	if entity != nil {
		return *entity
	}
	if global != nil {
		return *global
	}
	return preset
}

// ResolveDisplay computes the display configuration of a person from its own
// overrides, the global overrides and the preset of the effective mode.
func ResolveDisplay(p Person, opts Options) DisplayConfig {
	mode := p.Mode
	if mode == "" {
		mode = opts.Mode
	}
	preset := PresetFor(mode)

	return DisplayConfig{
		ShowYears:     ResolveBool(p.ShowYears, opts.ShowYears, preset.ShowYears),
		ShowMonths:    ResolveBool(p.ShowMonths, opts.ShowMonths, preset.ShowMonths),
		ShowDays:      ResolveBool(p.ShowDays, opts.ShowDays, preset.ShowDays),
		KeepZeroYears: preset.KeepZeroYears,
	}
}
