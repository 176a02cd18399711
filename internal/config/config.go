package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used for remote contacts.
var UserAgent = "Go-AgeWidget/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Go Age Widget"
	AppID          = "com.github.tartampluch.go-agewidget"
	BinaryName     = "agewidget"
	KeyringService = "com.github.tartampluch.go-agewidget"
	LogFileName    = "app.log"
	EnvPrefix      = "AGEWIDGET"
	DotEnvFile     = ".env"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagConfig   = "config"
	FlagDebug    = "debug"
	FlagToday    = "today"
	FlagJSON     = "json"
	FlagAddr     = "addr"
	FlagLocale   = "locale"
	FlagDescConf = "Path to the configuration file (yaml, json or toml)"
	FlagDescDbg  = "Enable debug logging to stdout"
	FlagDescDay  = "Render as of this date (YYYY-MM-DD) instead of the local date"
	FlagDescJSON = "Print the board as JSON"
	FlagDescAddr = "Listen address, overrides server.addr"
	FlagDescLoc  = "Locale code, overrides the configured locale"

	CmdRender   = "render"
	CmdWatch    = "watch"
	CmdServe    = "serve"
	CmdLocales  = "locales"
	CmdVersion  = "version"
	CmdPassword = "password"

	CmdShortRoot    = "Calendar age board for people and events"
	CmdShortRender  = "Render the board once and exit"
	CmdShortWatch   = "Re-render the board on interval, midnight and config change"
	CmdShortServe   = "Publish the board and an anniversary calendar over HTTP"
	CmdShortLocales = "List the built-in locales"
	CmdShortVersion  = "Print the version number"
	CmdShortPassword = "Store the remote contacts password (read from stdin) in the system keyring"
	CmdUsePassword   = " [user]"

	MsgVersionOutput = "%s version %s (%s, built %s, %s/%s)\n"

	// Text renderer
	InlineRowSeparator = "   "
	HighlightMarker    = "* "
	FormatLocaleLine   = "%s\t%s\n"
)

// -----------------------------------------------------------------------------
// Configuration Keys (viper)
// -----------------------------------------------------------------------------

const (
	KeyPeople              = "people"
	KeyEvents              = "events"
	KeyMode                = "mode"
	KeyShowYears           = "showYears"
	KeyShowMonths          = "showMonths"
	KeyShowDays            = "showDays"
	KeyTitle               = "title"
	KeyShowTitle           = "showTitle"
	KeySeparator           = "separator"
	KeyShowOldSuffix       = "showOldSuffix"
	KeyLocale              = "locale"
	KeyUpdateInterval      = "updateInterval"
	KeyUpdateAtMidnight    = "updateAtMidnight"
	KeyHighlightBirthday   = "highlightBirthday"
	KeyShowBirthdayMessage = "showBirthdayMessage"
	KeyBirthdayEmoji       = "birthdayEmoji"
	KeyInline              = "inline"
	KeyTextAlign           = "textAlign"
	KeyReminder            = "reminder"
	KeyServerAddr          = "server.addr"
	KeyContactsMode        = "contacts.mode"
	KeyContactsPath        = "contacts.path"
	KeyContactsURL         = "contacts.url"
	KeyContactsUser        = "contacts.user"
	KeyContactsPassword    = "contacts.password"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	ModeAdult = "adult"
	ModeChild = "child"
	ModeBaby  = "baby"

	DefaultMode             = ModeAdult
	DefaultTitle            = "Age Widget"
	DefaultSeparator        = " — "
	DefaultLocale           = "en"
	DefaultBirthdayEmoji    = "🎂"
	DefaultEventEmoji       = "🎉"
	DefaultTextAlign        = "left"
	DefaultUpdateInterval   = 1 * time.Hour
	DefaultServerAddr       = "127.0.0.1:18081"
	MidnightRolloverDelay   = 5 * time.Second
	DisabledInterval        = 0
	UIDSalt                 = "go-agewidget-v1-"
	FeedYearsBefore         = 1
	FeedYearsAfter          = 1
	ContactsModeLocal       = "local"
	ContactsModeWeb         = "web"
	EntityKindPerson        = "person"
	EntityKindEvent         = "event"
	TemplatePlaceholderOpen = '{'
	TemplatePlaceholderEnd  = '}'
	TemplateKeyName         = "name"
	TemplateKeyYears        = "years"
	TemplateKeyEmoji        = "emoji"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Age Widget//Engine//EN"
	ICalCalName   = "Anniversaries"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "goagewidget"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 1 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// DateFormatISO is the only layout accepted for configured dates.
	DateFormatISO = "2006-01-02"

	// Layouts accepted for vCard BDAY fields.
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteBoard          = "/ages.json"
	RouteCalendar       = "/calendar.ics"
	RouteMetrics        = "/metrics"
	MetricsNamespace    = "agewidget"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrDateFormat       = "invalid date format, expected YYYY-MM-DD"
	ErrDateImpossible   = "date does not exist in the calendar"
	ErrDateParse        = "unable to parse date"
	ErrLocalPathEmpty   = "configuration error: contacts path is empty"
	ErrWebURLEmpty      = "configuration error: contacts URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported contacts mode"
	ErrConfigRead       = "failed to read configuration"
	ErrConfigDecode     = "failed to decode configuration"
	ErrConfigInvalid    = "invalid configuration"
	ErrContactsLoad     = "failed to load contacts"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrBoardEncode      = "failed to encode board"
	ErrServerAddr       = "server address is required"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTodayFlag        = "invalid --today value"
	ErrRenderFailed     = "render failed"
	ErrPasswordNotFound = "contacts password not found"
	ErrPasswordUser     = "no contacts user given or configured"
	ErrPasswordEmpty    = "empty password on stdin"
	ErrPasswordRead     = "failed to read password"
	ErrPasswordStore    = "failed to store password in keyring"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Board initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgRenderStarted  = "Render started"
	MsgRenderDone     = "Board rendered"
	MsgEntityInvalid  = "Entity has an invalid date"
	MsgAnniversary    = "Anniversary today"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgWorkerTick     = "Periodic refresh"
	MsgWorkerMidnight = "Calendar day rollover"
	MsgWorkerReload   = "Configuration changed"
	MsgConfigLoaded   = "Configuration loaded"
	MsgConfigMissing  = "No configuration file found, using defaults"
	MsgConfigWatch    = "Watching configuration file"
	MsgConfigReject   = "Ignoring invalid configuration change"
	MsgDotEnvSkipped  = "No .env file loaded"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping unusable BDAY value"
	MsgContactsLoaded = "Contacts imported"
	MsgFeedSuccess    = "Calendar generation successful"
	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped gracefully"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Publication cache updated"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgPassStored     = "Contacts password stored in keyring"
	MsgLocaleUnknown  = "Unknown locale, falling back to English"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyAddr      = "addr"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyNext      = "next"
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyRows      = "rows"
	LogKeyErrors    = "errors"
	LogKeyToday     = "anniversaries_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyPath      = "path"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyKind      = "kind"
	LogKeyDate      = "date"
	LogKeyDuration  = "duration_ms"
	LogKeyTrigger   = "trigger"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompFormat   = "format"
	CompFeed     = "feed"
	CompContacts = "contacts"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompWorker   = "worker"
	CompSettings = "settings"
	CompMain     = "main"
)

// -----------------------------------------------------------------------------
// Worker Triggers
// -----------------------------------------------------------------------------

const (
	TriggerStartup  = "startup"
	TriggerInterval = "interval"
	TriggerMidnight = "midnight"
	TriggerReload   = "reload"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyOld           = "old"
	TKeyNoPeople      = "no_people"
	TKeyInvalidDOB    = "invalid_dob"
	TKeyUnknown       = "unknown"
	TKeyJustBorn      = "just_born"
	TKeyTurns         = "turns"
	TKeyToday         = "today"
	TKeyYearsSince    = "years_since"
	TKeyPartSeparator = "part_separator"
	TKeyUnitYear      = "unit_year"  // Plural: one/other
	TKeyUnitMonth     = "unit_month" // Plural: one/other
	TKeyUnitDay       = "unit_day"   // Plural: one/other

	LocaleFileFormat = "locales/active.%s.json"
)
