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

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Anniversary/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Anniversary"
	AppID             = "com.github.tartampluch.go-anniversary"
	AppDirName        = "go-anniversary"
	KeyringService    = "com.github.tartampluch.go-anniversary"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	EnvPrefix         = "GO_ANNIVERSARY"
	ConfigFileName    = "config"
	ConfigFileType    = "yaml"
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
	// Used for logs and the store files.
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
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	MsgVersionOutput = "%s version %s (commit %s, built %s) %s/%s\n"

	FlagName     = "name"
	FlagDate     = "date"
	FlagCalendar = "calendar"
	FlagIcon     = "icon"
	FlagRepeats  = "repeats"
	FlagOutput   = "output"
	FlagURL      = "url"
	FlagUser     = "user"
	FlagFile     = "file"
	FlagConfig   = "config"
	FlagPort     = "port"
)

// -----------------------------------------------------------------------------
// Settings Keys (viper)
// -----------------------------------------------------------------------------

const (
	SetDataDir          = "data_dir"
	SetStoreDriver      = "store.driver"
	SetStoreKey         = "store.key"
	SetLanguage         = "language"
	SetConverter        = "converter"
	SetRecheckInterval  = "recheck_interval"
	SetServerPort       = "server.port"
	SetReminderEnabled  = "reminder.enabled"
	SetReminderValue    = "reminder.value"
	SetReminderUnit     = "reminder.unit"
	SetReminderDir      = "reminder.direction"
	SetCardDAVURL       = "carddav.url"
	SetCardDAVUser      = "carddav.user"
	SetLogLevel         = "logging.level"
	SetLogFormat        = "logging.format"
	SupportedLangPrefix = "active."
)

// SupportedLanguages defines the list of available display languages (ISO 639-1).
var SupportedLanguages = []string{"zh", "en"}

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	StoreDriverSQLite = "sqlite"
	StoreDriverFile   = "file"
	StoreKey          = "anniversaries"
	StoreDBFile       = "anniversaries.db"

	ConverterAnchored = "anchored"
	ConverterTable    = "table"

	DefaultStoreDriver     = StoreDriverSQLite
	DefaultLanguage        = "zh"
	DefaultConverter       = ConverterAnchored
	DefaultRecheckInterval = 24 * time.Hour
	DefaultPort            = "18081"
	DefaultReminderValue   = 1
	DefaultIcon            = "💖"
	DefaultLogLevel        = "info"

	// YearWindow bounds the years accepted on add/edit around the current year.
	YearWindow = 100

	// LunarMaxDay is the upper bound of a lunar day; lunar months never exceed 30 days.
	LunarMaxDay = 30
	MaxMonth    = 12

	UIDDomain = "goanniversary"
)

// AnniversaryIcons is the palette offered when creating a record.
var AnniversaryIcons = []string{"💖", "🎂", "🎉", "💍", "🎓", "🏆", "🌟", "🎈", "🌹", "💝"}

// Icons given to records imported from vCard properties.
const (
	IconBirthday    = "🎂"
	IconAnniversary = "💍"
)

// Anchor of the linear lunar-to-solar approximation:
// lunar 2026-10-09 falls on solar 2026-11-18.
const (
	AnchorLunarYear  = 2026
	AnchorLunarMonth = 10
	AnchorLunarDay   = 9
	AnchorSolarYear  = 2026
	AnchorSolarMonth = time.November
	AnchorSolarDay   = 18

	// LunarMonthDays is the fixed month length used by the linear model.
	LunarMonthDays = 30

	// LunarYearSpan is the expansion (previous, current, next) for repeating lunar events.
	LunarYearSpan = 1
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Anniversary//Engine//EN"
	ICalCalName   = "Anniversaries"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRRule       = "RRULE"
	PropCategories  = "CATEGORIES"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY        = "BDAY"
	VCardAnniversary = "ANNIVERSARY"
	VCardFN          = "FN"
	VCardN           = "N"

	DefaultICalRefresh = 24 * time.Hour

	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// DateLayout is the persisted layout of Anniversary.Date.
	DateLayout = "2006-01-02"

	// Date layouts used for parsing vCard BDAY / ANNIVERSARY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	FormatDate    = "%04d-%02d-%02d"
	FormatUID     = "%s-%d@%s"
	FormatUIDOnce = "%s@%s"

	MinPort = 1
	MaxPort = 65535

	ExtJSON = ".json"
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
	RouteRoot           = "/"
	RouteCalendar       = "/anniversaries.ics"
	RouteListing        = "/anniversaries.json"
	AddrSeparator       = ":"

	// WatchDebounce collapses bursts of file events into one reload.
	WatchDebounce = 100 * time.Millisecond
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
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyOffsetFuture  = "offset_future"  // Requires Days
	TKeyOffsetToday   = "offset_today"   //
	TKeyOffsetPast    = "offset_past"    // Requires Days
	TKeyOffsetUnknown = "offset_unknown" //
	TKeyDateUnknown   = "date_unknown"
	TKeyFormatDate    = "format_date_solar" // Go layout for solar dates
	TKeyBadgeSolar    = "badge_solar"
	TKeyBadgeLunar    = "badge_lunar"
	TKeyBadgeRepeats  = "badge_repeats"
	TKeyListEmpty     = "list_empty"
	TKeyListEmptyHint = "list_empty_hint"
	TKeyEvtSummary    = "event_summary" // Requires Name
	TKeyMsgAdded      = "msg_added"     // Requires Name
	TKeyMsgUpdated    = "msg_updated"   // Requires Name
	TKeyMsgDeleted    = "msg_deleted"   // Requires ID
	TKeyMsgResolved   = "msg_resolved"  // Requires Count
	TKeyMsgImported   = "msg_imported"  // Requires Count
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app directory"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrLocNotInit       = "localizer not initialized"
	ErrSettingsRead     = "failed to read settings file"
	ErrSettingsDecode   = "failed to decode settings"
	ErrStoreDriver      = "configuration error: unsupported store driver"
	ErrConverter        = "configuration error: unsupported converter"
	ErrLanguage         = "configuration error: unsupported language"
	ErrInterval         = "configuration error: recheck interval must be positive"
	ErrStoreOpen        = "failed to open store"
	ErrStoreRead        = "failed to read from store"
	ErrStoreWrite       = "failed to write to store"
	ErrStoreDecode      = "failed to decode stored anniversaries"
	ErrStoreEncode      = "failed to encode anniversaries"
	ErrStoreMigrate     = "failed to migrate store schema"
	ErrWatcher          = "failed to watch store file"
	ErrLunarTable       = "lunar table lookup failed"
	ErrSchedulerStart   = "failed to arm recheck task"
	ErrNameEmpty        = "name must not be empty"
	ErrMonthRange       = "month must be between 1 and 12"
	ErrDayRange         = "day is out of range for the month"
	ErrYearRange        = "year is outside the accepted window"
	ErrCalendarType     = "calendar type must be solar or lunar"
	ErrRecordNotFound   = "anniversary not found"
	ErrImportSource     = "import requires a file or a URL"
	ErrKeyringLookup    = "password retrieval failed (might be empty)"
	ErrRenderOutput     = "failed to write output"
	ErrFetchRequest     = "failed to create request"
	ErrFetchNetwork     = "network error during fetch"
	ErrFetchStatus      = "server returned unexpected status"
	ErrImportOpen       = "failed to open address book"
	ErrListingEncode    = "failed to encode listing"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary     = "%s"
	FallbackName        = "Unknown"

	MsgAppStop         = "Application stopped gracefully"
	MsgAppStarting     = "Starting application"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Calendar cache updated"
	MsgListingUpdated  = "Listing cache updated"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping invalid date format"
	MsgImportFinished  = "vCard import finished"
	MsgGenSuccess      = "Calendar generation successful"
	MsgPassStarted     = "Resolution pass started"
	MsgPassAdvanced    = "Anniversary advanced to next occurrence"
	MsgPassSaved       = "Resolution pass persisted changes"
	MsgPassNoop        = "Resolution pass found nothing to advance"
	MsgStoreEmpty      = "No anniversaries stored yet"
	MsgStoreOpened     = "Store opened"
	MsgLegacyRecord    = "Decoded record written with legacy keys"
	MsgConvFallback    = "Lunar conversion failed, using raw date as solar"
	MsgTableFallback   = "Lunar table lookup failed, comparing raw date as solar"
	MsgRecheckArmed    = "Recheck task armed"
	MsgRecheckDisarmed = "Recheck task disarmed"
	MsgRecheckFailed   = "Recheck pass failed"
	MsgWatchReload     = "Store file changed, reloading"
	MsgWatchError      = "Store watcher error"
	MsgRecordAdded     = "Anniversary added"
	MsgRecordUpdated   = "Anniversary updated"
	MsgRecordDeleted   = "Anniversary deleted"
	MsgKeyringMiss     = "Password retrieval failed (might be empty)"
	MsgSettingsDefault = "No settings file found, using defaults"
	MsgFetchStarted    = "Address book downloading"
	MsgFetchBadStatus  = "Server returned error status"
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
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyDriver    = "driver"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeyID        = "id"
	LogKeyName      = "name"
	LogKeyDate      = "date"
	LogKeyCount     = "count"
	LogKeyTotal     = "total"
	LogKeyAdvanced  = "advanced"
	LogKeyImported  = "imported"
	LogKeySkipped   = "skipped"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
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
	CompEngine   = "engine"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompStore    = "store"
	CompService  = "service"
	CompRecheck  = "recheck"
	CompWatcher  = "watcher"
	CompMain     = "main"
	CompI18n     = "i18n"
	CompSettings = "settings"
)
