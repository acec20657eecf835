package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

type Translator struct {
	bundle      *goi18n.Bundle
	defaultLang string
}

// New builds a translator with the embedded locale files loaded.
func New(defaultLang string) (*Translator, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("parse default language %q: %w", defaultLang, err)
	}

	bundle := goi18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := fs.Glob(locales, "locales/*.json")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		data, err := locales.ReadFile(f)
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
	}

	return &Translator{bundle: bundle, defaultLang: defaultLang}, nil
}

// Load adds an extra message file from disk, e.g. shop specific wording.
func (t *Translator) Load(path string) error {
	_, err := t.bundle.LoadMessageFile(path)
	return err
}

// T localizes id into lang. Missing messages fall back to the default language and then to the id itself.
func (t *Translator) T(lang, id string, data map[string]interface{}) string {
	loc := goi18n.NewLocalizer(t.bundle, lang, t.defaultLang)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return id
	}
	return msg
}
