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

// UserAgent identifies the HTTP client used for remote imports.
var UserAgent = "Go-Phonebook/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Phonebook"
	AppID             = "com.github.tartampluch.go-phonebook"
	AppCommand        = "go-phonebook"
	KeyringService    = "com.github.tartampluch.go-phonebook"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	DataFileName      = "contacts.vcf"
	SettingsFileName  = "config.yaml"
	TempFilePattern   = ".contacts-*.tmp"

	// FormatServeURL builds the announced calendar address from host and port.
	FormatServeURL = "http://%s:%s/"
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
	// Used for the contact store, the settings file and logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1

	// MaxInputLineSize caps one line read by the interactive session.
	MaxInputLineSize = 1024 * 1024
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagLang         = "lang"
	FlagData         = "data"
	FlagConfig       = "config"
	FlagServe        = "serve"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stderr"
	FlagDescLang     = "Interface language (en, uk)"
	FlagDescData     = "Path to the vCard file holding the phonebook"
	FlagDescConfig   = "Path to the YAML settings file"
	FlagDescServe    = "Serve the birthday calendar on this localhost port"

	FlagWriteSettings     = "write-settings"
	FlagDescWriteSettings = "Save the effective settings to the settings file and exit"
	FormatSettingsWritten = "Settings written to %s\n"

	CmdShort         = "Interactive phonebook with birthday reminders"
	CmdLong          = "Stores names, phone numbers, emails and birthdays.\nType \"help\" at the prompt to list the commands."
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Settings & Environment
// -----------------------------------------------------------------------------

const (
	EnvLanguage = "PHONEBOOK_LANG"
	EnvDataFile = "PHONEBOOK_DATA"
	EnvPort     = "PHONEBOOK_PORT"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "uk"}

// -----------------------------------------------------------------------------
// Command Surface
// -----------------------------------------------------------------------------

const (
	CmdAddContact     = "add contact"
	CmdUpdateNumber   = "update number"
	CmdAppendNumber   = "append number"
	CmdDeleteNumber   = "delete number"
	CmdAddEmail       = "add email"
	CmdUpdateEmail    = "update email"
	CmdAppendEmail    = "append email"
	CmdDeleteEmail    = "delete email"
	CmdAddBirthday    = "add birthday"
	CmdDeleteContact  = "delete contact"
	CmdShowAll        = "show all"
	CmdShowNearBD     = "show near bd"
	CmdFind           = "find"
	CmdSearch         = "search"
	CmdClearPhonebook = "clear phonebook"
	CmdExportCalendar = "export calendar"
	CmdImportContacts = "import contacts"
	CmdHelp           = "help"
	CmdHello          = "hello"
	CmdHi             = "hi"
	CmdClear          = "clear"
	CmdCls            = "cls"
	CmdExit           = "exit"
	CmdQuit           = "quit"
	CmdQ              = "q"

	AnswerYes = "y"

	// ClearScreenSeq moves the cursor home and erases the display.
	ClearScreenSeq = "\033[H\033[2J"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyPrompt           = "prompt"
	TKeyContactAdded     = "contact_added"
	TKeyNumberAppended   = "number_appended"
	TKeyNumberUpdated    = "number_updated"
	TKeyNumberDeleted    = "number_deleted"
	TKeyContactDeleted   = "contact_deleted"
	TKeyEmptyPhonebook   = "empty_phonebook"
	TKeyEnterToProceed   = "enter_to_proceed"
	TKeyPhonebook        = "phonebook"
	TKeyHowMuchRecs      = "how_much_recs"
	TKeyWrongRecsCount   = "wrong_recs_count"
	TKeyShowContact      = "show_all_contact"
	TKeyShowNumbers      = "show_all_numbers"
	TKeyShowBirthday     = "show_all_bd"
	TKeyShowEmails       = "show_all_emails"
	TKeyNotSpecified     = "not_specified"
	TKeyEndOfPhonebook   = "end_of_phonebook"
	TKeyContactSearch    = "contact_search"
	TKeySearchInput      = "search_input"
	TKeyFoundInRecord    = "found_in_record"
	TKeyNotFound         = "not_found"
	TKeySearchResult     = "search_result"
	TKeyEmailAdded       = "email_added"
	TKeyEmailAppended    = "email_appended"
	TKeyEmailUpdated     = "email_updated"
	TKeyEmailDeleted     = "email_deleted"
	TKeyBirthdayAdded    = "bd_added"
	TKeySearchForBD      = "search_for_bd"
	TKeyBDSearchResult   = "bd_search_result"
	TKeyBDSearchDone     = "bd_search_done"
	TKeyClearPhonebook   = "clear_phonebook"
	TKeyPhonebookCleared = "phonebook_cleared"
	TKeyNotCleared       = "phonebook_not_cleared"
	TKeyGoodbye          = "goodbye"
	TKeyHelp             = "help"
	TKeyGreeting         = "greeting"
	TKeyWelcome          = "welcome"
	TKeyCommandUnknown   = "command_is_unknown"
	TKeyCalendarExported = "calendar_exported"
	TKeyContactsImported = "contacts_imported"
	TKeyCalendarServed   = "calendar_served"
	TKeyEvtSummary       = "event_summary"     // Requires Name
	TKeyEvtSummaryAge    = "event_summary_age" // Requires Name, Age

	// Error Keys
	TKeyErrInvalidName      = "err_wrong_name"
	TKeyErrInvalidPhone     = "err_wrong_phone_number_format"
	TKeyErrInvalidEmail     = "err_wrong_email_format"
	TKeyErrInvalidBirthday  = "err_birthday_incorrect"
	TKeyErrNotEnoughArgs    = "err_not_enough_arguments"
	TKeyErrNotANumber       = "err_not_a_number"
	TKeyErrContactNotFound  = "err_contact_not_found"
	TKeyErrNameExists       = "err_name_already_exists"
	TKeyErrPhoneExists      = "err_phone_already_exists"
	TKeyErrEmailExists      = "err_email_already_exists"
	TKeyErrPhoneNotFound    = "err_phone_not_found"
	TKeyErrEmailNotFound    = "err_email_not_found"
	TKeyErrOperationFailed  = "err_operation_failed"
	TKeyErrUnknownErrorKind = "err_unknown"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultLanguage  = "en"
	DefaultPageSize  = 0 // 0 asks interactively
	DefaultReminder  = "-P1D"
	DisabledPort     = ""
	BirthdayLayout   = "02.01.2006"
	UnknownAgeMarker = -1
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Phonebook//Birthdays//EN"
	ICalCalName   = "Phonebook Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gophonebook"

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

	DefaultICalRefresh = 1 * time.Hour

	// vCard Fields
	VCardVersion      = "4.0"
	VCardBirthdayText = "X-PHONEBOOK-BIRTHDAY"

	FormatUID = "%s-%d@%s"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Date layouts accepted in vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// DefaultLeapYear is used for vCard dates without a year (--MM-DD).
	DefaultLeapYear = 2000

	MinPort = 1
	MaxPort = 65535
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
	MaxHTTPResponseSize = 32 * 1024 * 1024 // 32MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
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
	HeaderAccept          = "Accept"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeVCard           = "text/vcard"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrPortNumber      = "server port must be a number"
	ErrPortRange       = "server port must be between 1 and 65535"
	ErrLanguage        = "unsupported language"
	ErrPageSize        = "page size must not be negative"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrFetchStatus     = "server returned unexpected status"
	ErrFetchNetwork    = "network error during fetch"
	ErrFetchRequest    = "failed to create request"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrVCardEncode     = "failed to encode vCard data"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrConfigDir       = "could not determine user config dir"
	ErrCreateDir       = "could not create app directory"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrSettingsRead    = "failed to read settings"
	ErrSettingsParse   = "failed to parse settings"
	ErrStoreLoad       = "failed to load phonebook"
	ErrCardRejected    = "vCard cannot be kept without losing data"
	ErrFetchTooLarge   = "remote address book exceeds the size limit"
	ErrStoreSave       = "failed to save phonebook"
	ErrStoreOpen       = "failed to open phonebook file"
	ErrStoreWrite      = "failed to write phonebook file"
	ErrStoreRename     = "failed to replace phonebook file"
	ErrCalendarWrite   = "failed to write calendar file"
	ErrImportSource    = "failed to open import source"
	ErrInputRead       = "failed to read input"
	ErrFetcherMissing  = "internal error: remote address book is not initialized"
	ErrSourceEmpty     = "import source is empty"
	ErrCatalogNotReady = "message catalog not initialized"
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
	FallbackSummary    = "Birthday: %s"
	FallbackSummaryAge = "Birthday: %s (%d)"

	MsgAppStop        = "Application stopped gracefully"
	MsgAppStarting    = "Starting application"
	MsgSessionStart   = "Session started"
	MsgSessionEnd     = "Session ended"
	MsgCommand        = "Command dispatched"
	MsgCommandFailed  = "Command rejected"
	MsgCommandUnknown = "Unknown command"
	MsgStoreLoaded    = "Phonebook loaded"
	MsgStoreSaved     = "Phonebook saved"
	MsgStoreMissing   = "Phonebook file not found, starting empty"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedField   = "Skipping invalid vCard field"
	MsgSkippedDup     = "Skipping duplicate contact"
	MsgImportDone     = "Contacts imported"
	MsgCalendarBuilt  = "Calendar generation successful"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgServerFailed   = "Calendar server stopped with an error"
	MsgCacheUpdated   = "Calendar cache updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgSettingsLoaded = "Settings loaded"
	MsgSettingsSaved  = "Settings saved"
	MsgCatalogReady   = "Message catalog ready"
	MsgFetchStart     = "Initiating vCard download"
	MsgFetchDone      = "Remote address book decoded"
	MsgFetchStatus    = "Server returned error status"
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
	LogKeyUser      = "user"
	LogKeyCommand   = "command"
	LogKeyArgs      = "args"
	LogKeyKind      = "kind"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyTotal     = "total_cards"
	LogKeySkipped   = "skipped"
	LogKeyName      = "name"
	LogKeySizeBytes = "size_bytes"
	LogKeyLength    = "content_length"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"

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
	CompUI       = "ui"
	CompEngine   = "engine"
	CompStorage  = "storage"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompMain     = "main"
	CompI18n     = "i18n"
	CompSettings = "settings"
)
