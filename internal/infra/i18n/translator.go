package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales
var LocalesFS embed.FS

// DefaultLang is served when the caller asks for nothing we have.
const DefaultLang = "es"

type Translator struct {
	lang         string
	translations map[string]string
}

// NewTranslator loads locales/<langCode>.yaml from fsys.
func NewTranslator(fsys fs.FS, langCode string) (*Translator, error) {
	filePath := path.Join("locales", fmt.Sprintf("%s.yaml", langCode))
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation file %s: %w", filePath, err)
	}
	t, err := newTranslatorFromBytes(data)
	if err != nil {
		return nil, err
	}
	t.lang = langCode
	return t, nil
}

func newTranslatorFromBytes(data []byte) (*Translator, error) {
	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("failed to parse translation file: %w", err)
	}
	return &Translator{translations: translations}, nil
}

func (t *Translator) Lang() string { return t.lang }

// T returns the key itself when it has no translation.
func (t *Translator) T(key string, args ...interface{}) string {
	format, ok := t.translations[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

// Bundle holds one Translator per supported language.
type Bundle struct {
	byLang map[string]*Translator
	def    *Translator
}

// NewBundle loads every language in langs; the first one is the fallback.
func NewBundle(fsys fs.FS, langs ...string) (*Bundle, error) {
	if len(langs) == 0 {
		langs = []string{DefaultLang}
	}
	b := &Bundle{byLang: make(map[string]*Translator, len(langs))}
	for _, l := range langs {
		t, err := NewTranslator(fsys, l)
		if err != nil {
			return nil, err
		}
		b.byLang[l] = t
		if b.def == nil {
			b.def = t
		}
	}
	return b, nil
}

// For picks a translator from an Accept-Language header, ignoring q-weights
// and region subtags ("en-US;q=0.8" matches "en").
func (b *Bundle) For(acceptLanguage string) *Translator {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		tag = strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if t, ok := b.byLang[tag]; ok {
			return t
		}
	}
	return b.def
}
