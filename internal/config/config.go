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

// UserAgent identifies the HTTP client used for contact card imports.
var UserAgent = "Go-AgeFlow/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName       = "Go AgeFlow"
	AppID         = "com.github.tartampluch.go-ageflow"
	WidgetName    = "Go AgeFlow Widget"
	LogFileName   = "app.log"
	WidgetLogFile = "widget.log"

	// GroupID names the storage namespace shared by the app and the widget.
	GroupID = "group.com.github.tartampluch.go-ageflow"

	// SharedDBFile is the SQLite file created inside the group directory.
	SharedDBFile = "shared.db"

	LocalhostBindAddr = "127.0.0.1"
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
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagStore        = "store"
	FlagOnce         = "once"
	FlagPort         = "port"
	FlagNoTray       = "no-tray"
	FlagFamily       = "family"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescStore    = "Shared store backend (sqlite, keyring, preferences, memory)"
	FlagDescOnce     = "Print a single timeline as JSON and exit"
	FlagDescPort     = "Local HTTP port for the timeline endpoint (empty disables it)"
	FlagDescNoTray   = "Do not install the system tray label"
	FlagDescFamily   = "Widget family used for text output (inline, rectangular)"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Shared Storage Keys & Backends
// -----------------------------------------------------------------------------

const (
	// KeyBirthDate holds the user's birth instant.
	KeyBirthDate = "userBirthDate"
	// KeyDarkMode holds the display preference.
	KeyDarkMode = "isDarkMode"

	BackendSQLite      = "sqlite"
	BackendKeyring     = "keyring"
	BackendPreferences = "preferences"
	BackendMemory      = "memory"

	DefaultBackend = BackendSQLite

	// StoredDateLayout is lossless so a read returns exactly what was written.
	StoredDateLayout = time.RFC3339Nano

	StoredTrue  = "true"
	StoredFalse = "false"

	// SQLiteBusyTimeout bounds how long a writer waits on the other process.
	SQLiteBusyTimeout = 5 * time.Second

	// WatchDebounce coalesces the burst of events produced by one SQLite commit.
	WatchDebounce = 50 * time.Millisecond
)

// SupportedBackends lists the values accepted by --store.
var SupportedBackends = []string{BackendSQLite, BackendKeyring, BackendPreferences, BackendMemory}

// -----------------------------------------------------------------------------
// Age Computation & Formatting
// -----------------------------------------------------------------------------

const (
	// DaysPerYear is the mean tropical year. It must not be replaced by 365.25.
	DaysPerYear = 365.2422

	// SecondsPerDay is the length of a civil day in seconds.
	SecondsPerDay = 86400

	// SecondsPerYear is the divisor applied to elapsed seconds.
	SecondsPerYear = SecondsPerDay * DaysPerYear

	FormatAgePrimary = "%.8f"
	FormatAgeWidget  = "%.5f"

	// Both surfaces show the full-width sentinel when no birth date is set.
	AgeSentinelPrimary = "0.00000000"
	AgeSentinelWidget  = AgeSentinelPrimary

	// AgePlaceholderWidget is shown in widget galleries before real data exists.
	AgePlaceholderWidget = "27.00000000"
)

// -----------------------------------------------------------------------------
// Refresh Cadences
// -----------------------------------------------------------------------------

const (
	// InteractiveInterval drives the main view (~100Hz).
	InteractiveInterval = 10 * time.Millisecond

	// GradientInterval drives the cosmetic background animation.
	GradientInterval = 20 * time.Second

	// WidgetEntries is the number of entries in one timeline.
	WidgetEntries = 5

	// WidgetTick separates consecutive timeline entries.
	WidgetTick = 15 * time.Second

	// WidgetRefreshDelay is the next-refresh hint relative to generation time.
	WidgetRefreshDelay = 60 * time.Second
)

// -----------------------------------------------------------------------------
// Widget Families
// -----------------------------------------------------------------------------

const (
	FamilyInline      = "inline"
	FamilyRectangular = "rectangular"
	DefaultFamily     = FamilyInline

	FormatInline      = "%s years"
	FormatRectangular = "%s\nyears"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	MainWindowWidth     = 420
	MainWindowHeight    = 520
	SettingsWindowWidth = 460
	AgeTextSize         = 40
	CaptionTextSize     = 16
	GradientAngle       = 45

	// Preference Keys (interactive process only)
	PrefLanguage = "language"
	PrefLastRun  = "last_run_version"

	DefaultLanguage = "en"

	DateFormatDisplay = "2006-01-02"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle        = "win_title"
	TKeyWinSettings     = "win_settings_title"
	TKeyLblYourAge      = "lbl_your_age"
	TKeyLblYears        = "lbl_years"
	TKeyLblWelcome      = "lbl_welcome"
	TKeyLblWelcomeHelp  = "lbl_welcome_help"
	TKeyLblBirthDate    = "lbl_birth_date"
	TKeyLblTheme        = "lbl_theme"
	TKeyLblDarkMode     = "lbl_dark_mode"
	TKeyLblLanguage     = "lbl_language"
	TKeyLblImport       = "lbl_import"
	TKeyHelpImport      = "help_import"
	TKeyBtnDone         = "btn_done"
	TKeyBtnSettings     = "btn_settings"
	TKeyBtnImport       = "btn_import"
	TKeyBtnBrowse       = "btn_browse"
	TKeyLblFooter       = "lbl_footer"
	TKeyMenuOpen        = "menu_open"
	TKeyErrFutureDate   = "err_future_date"
	TKeyErrSaveFailed   = "err_save_failed"
	TKeyErrImportFailed = "err_import_failed"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go AgeFlow//Engine//EN"
	ICalCalName   = "Birthday"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalDomain    = "goageflow"
	ICalEventUID  = "birthday-%d@%s"
	ICalSummary   = "Birthday (%d)"
	ICalBirthSumm = "Birthday (birth)"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropRefresh    = "REFRESH-INTERVAL"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	VCardBDAY = "BDAY"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"

	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	DefaultWidgetPort   = "18181"
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "5"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 1024 * 1024 // 1MB, a contact card is small
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteTimeline       = "/timeline"
	RouteAge            = "/age"
	RouteCalendar       = "/birthday.ics"
	AddrSeparator       = ":"
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

	MimeJSON            = "application/json; charset=utf-8"
	MimeText            = "text/plain; charset=utf-8"
	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrStoreOpen        = "failed to open shared store"
	ErrStoreRead        = "failed to read shared store"
	ErrStoreWrite       = "failed to write shared store"
	ErrStoreClosed      = "shared store is not configured"
	ErrStorePath        = "storage path is required"
	ErrSQLiteOpen       = "failed to open sqlite database"
	ErrSQLitePragma     = "failed to configure sqlite database"
	ErrSQLiteSchema     = "failed to create sqlite schema"
	ErrNoPreferences    = "preferences backend requires a Fyne app"
	ErrFetchRequest     = "failed to create request"
	ErrFetchNetwork     = "network error during fetch"
	ErrFetchStatus      = "server returned unexpected status"
	ErrStoredValue      = "malformed stored value"
	ErrUnknownBackend   = "configuration error: unknown store backend"
	ErrGroupDir         = "could not determine shared group dir"
	ErrWatch            = "failed to watch shared store"
	ErrBirthFuture      = "birth date is in the future"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrVCardNoBirthday  = "no birthday found in contact card"
	ErrImportFailed     = "contact card import failed"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrJSONEncode       = "failed to encode timeline"
	ErrDateParse        = "unable to parse date"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrEnvParse         = "parse env"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Timeline initializing, please try again shortly."
	HTTPMsgNoBirthDate  = "Birth date not set."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackTrayLabel = "Go AgeFlow"

	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, shutting down UI"
	MsgStoreOpened     = "Shared store opened"
	MsgBirthDateSaved  = "Birth date saved"
	MsgBirthDateLoaded = "Birth date loaded"
	MsgBirthDateUnset  = "No birth date stored, entering onboarding"
	MsgDarkModeSaved   = "Display preference saved"
	MsgReloadRequested = "Widget timeline reload requested"
	MsgRefresherStart  = "Age refresher started"
	MsgRefresherStop   = "Age refresher stopped"
	MsgTimelineBuilt   = "Timeline generated"
	MsgTimelineUnset   = "Timeline generated without birth date"
	MsgHostStart       = "Widget host started"
	MsgHostStop        = "Widget host stopping due to context cancellation"
	MsgHostReload      = "Widget host reloading timeline"
	MsgStoreChanged    = "Shared store changed"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Timeline cache updated"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgImported        = "Birth date imported from contact card"
	MsgSkippedDate     = "Skipping invalid date format"
	MsgGenSuccess      = "Calendar generation successful"
	MsgThemeApplied    = "Theme variant applied"
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
	LogKeyBackend   = "backend"
	LogKeyPath      = "path"
	LogKeyInterval  = "interval"
	LogKeyValue     = "value"
	LogKeyDOB       = "date_of_birth"
	LogKeyDark      = "dark_mode"
	LogKeyEntries   = "entries"
	LogKeyRefresh   = "refresh_after"
	LogKeyState     = "state"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyOp        = "op"

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
	CompUI        = "ui"
	CompUISet     = "ui_settings"
	CompEngine    = "engine"
	CompRefresher = "refresher"
	CompStore     = "store"
	CompWatcher   = "watcher"
	CompWidget    = "widget"
	CompServer    = "server"
	CompFetcher   = "fetcher"
	CompMain      = "main"
	CompI18n      = "i18n"
)
