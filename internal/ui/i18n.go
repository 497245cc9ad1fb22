// Package ui turns ranked anniversaries into localized text for the
// terminal, the JSON listing and the calendar feed.
package ui

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-anniversary/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Presenter holds the active localizer.
type Presenter struct {
	Lang               string
	SupportedLanguages []string

	bundle    *i18n.Bundle
	localizer *i18n.Localizer
}

// NewPresenter loads every embedded locale and selects lang, falling back
// to config.DefaultLanguage when lang is empty or not a valid tag.
func NewPresenter(lang string) *Presenter {
	bundle := i18n.NewBundle(language.Chinese)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	p := &Presenter{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, config.SupportedLangPrefix) || !strings.HasSuffix(name, config.ExtJSON) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, config.SupportedLangPrefix), config.ExtJSON)
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		p.SupportedLanguages = append(p.SupportedLanguages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	p.SetLanguage(lang)
	return p
}

// SetLanguage switches the active language.
func (p *Presenter) SetLanguage(lang string) {
	if _, err := language.Parse(lang); err != nil || lang == "" {
		lang = config.DefaultLanguage
	}
	p.Lang = lang
	p.localizer = i18n.NewLocalizer(p.bundle, lang)
}

// Msg translates a key without template data. Unknown keys are returned as is.
func (p *Presenter) Msg(key string) string {
	return p.localize(&i18n.LocalizeConfig{MessageID: key})
}

// MsgCount translates a pluralized key; data is also exposed to the template.
func (p *Presenter) MsgCount(key string, count int, data map[string]any) string {
	return p.localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
		PluralCount:  count,
	})
}

// MsgData translates a key with template data.
func (p *Presenter) MsgData(key string, data map[string]any) string {
	return p.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
}

func (p *Presenter) localize(cfg *i18n.LocalizeConfig) string {
	if p.localizer == nil {
		slog.Debug(config.ErrLocNotInit,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, cfg.MessageID)
		return cfg.MessageID
	}
	msg, err := p.localizer.Localize(cfg)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, cfg.MessageID,
			config.LogKeyError, err,
		)
		return cfg.MessageID
	}
	return msg
}
