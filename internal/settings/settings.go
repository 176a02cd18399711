// Package settings loads the widget configuration from a file, the
// environment and an optional .env file, and converts it to engine types.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tartampluch/go-agewidget/internal/config"
	"github.com/tartampluch/go-agewidget/internal/engine"
)

// File is the decoded configuration file. People and Events stay raw so that
// one malformed entity never rejects the whole file.
type File struct {
	People []any `mapstructure:"people"`
	Events []any `mapstructure:"events"`

	// Display switches stay raw: only real booleans count, as for entities.
	Mode       string `mapstructure:"mode"`
	ShowYears  any    `mapstructure:"showYears"`
	ShowMonths any    `mapstructure:"showMonths"`
	ShowDays   any    `mapstructure:"showDays"`

	Title               string        `mapstructure:"title"`
	ShowTitle           bool          `mapstructure:"showTitle"`
	Separator           string        `mapstructure:"separator"`
	ShowOldSuffix       bool          `mapstructure:"showOldSuffix"`
	Locale              string        `mapstructure:"locale" validate:"required"`
	UpdateInterval      time.Duration `mapstructure:"updateInterval" validate:"min=0"`
	UpdateAtMidnight    bool          `mapstructure:"updateAtMidnight"`
	HighlightBirthday   bool          `mapstructure:"highlightBirthday"`
	ShowBirthdayMessage bool          `mapstructure:"showBirthdayMessage"`
	BirthdayEmoji       string        `mapstructure:"birthdayEmoji"`
	Inline              bool          `mapstructure:"inline"`
	TextAlign           string        `mapstructure:"textAlign" validate:"oneof=left center right"`
	Reminder            string        `mapstructure:"reminder" validate:"omitempty,startswith=-P|startswith=P"`

	Server   ServerFile   `mapstructure:"server"`
	Contacts ContactsFile `mapstructure:"contacts"`
}

// ServerFile configures the HTTP publisher.
type ServerFile struct {
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`
}

// ContactsFile configures the optional vCard import. An empty mode disables it.
type ContactsFile struct {
	Mode     string `mapstructure:"mode" validate:"omitempty,oneof=local web"`
	Path     string `mapstructure:"path"`
	URL      string `mapstructure:"url" validate:"omitempty,url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// Settings is the configuration converted to engine types.
type Settings struct {
	Options  engine.Options
	Layout   engine.Layout
	People   []engine.Person
	Events   []engine.Event
	Contacts engine.ContactsSource

	UpdateInterval   time.Duration
	UpdateAtMidnight bool
	Reminder         string
	ServerAddr       string
}

// ContactsEnabled reports whether people are also imported from vCards.
func (s Settings) ContactsEnabled() bool {
	return s.Contacts.Mode != ""
}

// Entities lists people first, then events, in configuration order.
func (s Settings) Entities() []engine.Entity {
	out := make([]engine.Entity, 0, len(s.People)+len(s.Events))
	for _, p := range s.People {
		out = append(out, p)
	}
	for _, e := range s.Events {
		out = append(out, e)
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateContacts, ContactsFile{})
	return v
}

// validateContacts requires the location matching the selected mode.
func validateContacts(sl validator.StructLevel) {
	c := sl.Current().Interface().(ContactsFile)
	switch c.Mode {
	case config.ContactsModeLocal:
		if c.Path == "" {
			sl.ReportError(c.Path, "Path", "Path", "required_if", "Mode local")
		}
	case config.ContactsModeWeb:
		if c.URL == "" {
			sl.ReportError(c.URL, "URL", "URL", "required_if", "Mode web")
		}
	}
}

// Loader reads the configuration through viper.
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader prepares a loader. An empty path searches for "agewidget.*" in
// the working directory and the user config dir.
func NewLoader(path string) *Loader {
	if err := godotenv.Load(config.DotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn(config.MsgDotEnvSkipped, config.LogKeyComponent, config.CompSettings, config.LogKeyError, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about. The display
	// switches are read from the environment in decode.
	_ = v.BindEnv(config.KeyContactsPassword)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(config.BinaryName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(dir + string(os.PathSeparator) + config.BinaryName)
		}
	}
	return &Loader{v: v, path: path}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(config.KeyPeople, []any{})
	v.SetDefault(config.KeyEvents, []any{})
	v.SetDefault(config.KeyMode, config.DefaultMode)
	v.SetDefault(config.KeyTitle, config.DefaultTitle)
	v.SetDefault(config.KeyShowTitle, true)
	v.SetDefault(config.KeySeparator, config.DefaultSeparator)
	v.SetDefault(config.KeyShowOldSuffix, true)
	v.SetDefault(config.KeyLocale, config.DefaultLocale)
	v.SetDefault(config.KeyUpdateInterval, config.DefaultUpdateInterval)
	v.SetDefault(config.KeyUpdateAtMidnight, true)
	v.SetDefault(config.KeyHighlightBirthday, true)
	v.SetDefault(config.KeyShowBirthdayMessage, false)
	v.SetDefault(config.KeyBirthdayEmoji, config.DefaultBirthdayEmoji)
	v.SetDefault(config.KeyInline, false)
	v.SetDefault(config.KeyTextAlign, config.DefaultTextAlign)
	v.SetDefault(config.KeyReminder, "")
	v.SetDefault(config.KeyServerAddr, config.DefaultServerAddr)
	v.SetDefault(config.KeyContactsMode, "")
	v.SetDefault(config.KeyContactsPath, "")
	v.SetDefault(config.KeyContactsURL, "")
	v.SetDefault(config.KeyContactsUser, "")
}

// Load reads, decodes and validates the configuration.
// A missing configuration file is not an error: defaults apply.
func (l *Loader) Load() (Settings, error) {
	log := slog.With(config.LogKeyComponent, config.CompSettings)

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("%s: %w", config.ErrConfigRead, err)
		}
		log.Info(config.MsgConfigMissing)
	} else {
		log.Info(config.MsgConfigLoaded, config.LogKeyFile, l.v.ConfigFileUsed())
	}

	return l.decode()
}

// Set overrides a key, as a command-line flag would.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// ConfigFile returns the file in use, empty when running on defaults.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) decode() (Settings, error) {
	var f File
	if err := l.v.Unmarshal(&f, viper.DecodeHook(decodeHook())); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", config.ErrConfigDecode, err)
	}
	envFlag(config.KeyShowYears, &f.ShowYears)
	envFlag(config.KeyShowMonths, &f.ShowMonths)
	envFlag(config.KeyShowDays, &f.ShowDays)
	if err := validate.Struct(f); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", config.ErrConfigInvalid, formatValidationError(err))
	}
	return f.Settings(), nil
}

// envFlag replaces a display switch with its environment value. Environment
// values are always text, so they are parsed; one that is not a boolean
// leaves the switch unset.
func envFlag(key string, dst *any) {
	raw, ok := os.LookupEnv(config.EnvPrefix + "_" + strings.ToUpper(key))
	if !ok {
		return
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		*dst = b
		return
	}
	*dst = nil
}

// Settings converts the decoded file to engine types.
func (f File) Settings() Settings {
	return Settings{
		Options: engine.Options{
			Mode:                f.Mode,
			ShowYears:           flag(f.ShowYears),
			ShowMonths:          flag(f.ShowMonths),
			ShowDays:            flag(f.ShowDays),
			HighlightBirthday:   f.HighlightBirthday,
			ShowBirthdayMessage: f.ShowBirthdayMessage,
			BirthdayEmoji:       f.BirthdayEmoji,
			ShowOldSuffix:       f.ShowOldSuffix,
			Separator:           f.Separator,
			Locale:              f.Locale,
		},
		Layout: engine.Layout{
			Title:     f.Title,
			ShowTitle: f.ShowTitle,
			Inline:    f.Inline,
			TextAlign: f.TextAlign,
		},
		People: DecodePeople(f.People),
		Events: DecodeEvents(f.Events),
		Contacts: engine.ContactsSource{
			Mode:      f.Contacts.Mode,
			LocalPath: f.Contacts.Path,
			WebURL:    f.Contacts.URL,
			WebUser:   f.Contacts.User,
			WebPass:   f.Contacts.Password,
		},
		UpdateInterval:   f.UpdateInterval,
		UpdateAtMidnight: f.UpdateAtMidnight,
		Reminder:         f.Reminder,
		ServerAddr:       f.Server.Addr,
	}
}

// decodeHook accepts durations as Go strings ("30m") or as bare numbers of
// milliseconds.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		millisecondsHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func millisecondsHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Duration(0)) || from == to {
		return data, nil
	}
	switch n := data.(type) {
	case int:
		return time.Duration(n) * time.Millisecond, nil
	case int64:
		return time.Duration(n) * time.Millisecond, nil
	case uint64:
		return time.Duration(n) * time.Millisecond, nil
	case float64:
		return time.Duration(n * float64(time.Millisecond)), nil
	case string:
		if ms, err := strconv.ParseInt(n, 10, 64); err == nil {
			return time.Duration(ms) * time.Millisecond, nil
		}
		return data, nil
	default:
		return data, nil
	}
}

// formatValidationError flattens validator errors into one readable message.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port", field)
	default:
		return fmt.Sprintf("%s is invalid (%v)", field, e.Value())
	}
}
