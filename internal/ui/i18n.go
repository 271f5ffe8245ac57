package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/phonebook"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog turns message keys and positional arguments into user text.
type Catalog interface {
	Render(key string, args ...any) string
	RenderError(kind phonebook.Kind, args ...any) string
}

// errorKeys maps each domain failure to its message.
var errorKeys = map[phonebook.Kind]string{
	phonebook.KindInvalidName:        config.TKeyErrInvalidName,
	phonebook.KindInvalidPhone:       config.TKeyErrInvalidPhone,
	phonebook.KindInvalidEmail:       config.TKeyErrInvalidEmail,
	phonebook.KindInvalidBirthday:    config.TKeyErrInvalidBirthday,
	phonebook.KindNotEnoughArguments: config.TKeyErrNotEnoughArgs,
	phonebook.KindNotANumber:         config.TKeyErrNotANumber,
	phonebook.KindContactNotFound:    config.TKeyErrContactNotFound,
	phonebook.KindNameExists:         config.TKeyErrNameExists,
	phonebook.KindPhoneExists:        config.TKeyErrPhoneExists,
	phonebook.KindEmailExists:        config.TKeyErrEmailExists,
	phonebook.KindPhoneNotFound:      config.TKeyErrPhoneNotFound,
	phonebook.KindEmailNotFound:      config.TKeyErrEmailNotFound,
}

// I18nCatalog renders messages from the embedded locale files.
type I18nCatalog struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	languages []string
	lang      string
}

// NewI18nCatalog loads every embedded locale and selects lang.
func NewI18nCatalog(lang string) (*I18nCatalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	c := &I18nCatalog{bundle: bundle}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			return nil, fmt.Errorf("%s %s: %w", config.ErrLocaleLoad, name, err)
		}
		c.languages = append(c.languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	if err := c.SetLanguage(lang); err != nil {
		return nil, err
	}
	return c, nil
}

// Languages lists the locale codes found in the embedded files.
func (c *I18nCatalog) Languages() []string {
	return slices.Clone(c.languages)
}

// Language returns the active locale code.
func (c *I18nCatalog) Language() string { return c.lang }

// SetLanguage switches the localizer. An empty lang selects the default.
func (c *I18nCatalog) SetLanguage(lang string) error {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	if !slices.Contains(c.languages, lang) {
		return fmt.Errorf("%s: %q", config.ErrLanguage, lang)
	}
	c.lang = lang
	c.localizer = i18n.NewLocalizer(c.bundle, lang)
	return nil
}

// Render translates key. Positional args are available to templates as
// {{.Arg0}}, {{.Arg1}} and so on. A missing key renders as the key itself.
func (c *I18nCatalog) Render(key string, args ...any) string {
	if c == nil || c.localizer == nil {
		return key
	}
	msg, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: templateData(args),
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// RenderError translates the message bound to kind.
func (c *I18nCatalog) RenderError(kind phonebook.Kind, args ...any) string {
	key, ok := errorKeys[kind]
	if !ok {
		key = config.TKeyErrUnknownErrorKind
	}
	return c.Render(key, args...)
}

// SummaryFormatter builds localized calendar event titles.
func (c *I18nCatalog) SummaryFormatter() func(name string, age int) string {
	return func(name string, age int) string {
		if age <= 0 {
			return c.Render(config.TKeyEvtSummary, name)
		}
		return c.Render(config.TKeyEvtSummaryAge, name, age)
	}
}

func templateData(args []any) map[string]string {
	if len(args) == 0 {
		return nil
	}
	data := make(map[string]string, len(args))
	for i, a := range args {
		data["Arg"+strconv.Itoa(i)] = fmt.Sprint(a)
	}
	return data
}
