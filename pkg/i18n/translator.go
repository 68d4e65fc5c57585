package i18n

import (
	"embed"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

type Locale string

const (
	English Locale = "en"
	Spanish Locale = "es"

	DefaultLocale = English
)

// Supported lists every locale with a bundled catalogue.
var Supported = []Locale{English, Spanish}

// supportedMatcher indexes match Supported.
var supportedMatcher = language.NewMatcher([]language.Tag{language.English, language.Spanish})

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

func ParseLocale(s string) (Locale, bool) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	return l, l.Valid()
}

func (l Locale) Valid() bool {
	for _, s := range Supported {
		if l == s {
			return true
		}
	}
	return false
}

// LanguageName is the English name of the language, used inside model prompts.
func (l Locale) LanguageName() string {
	if l == Spanish {
		return "Spanish"
	}
	return "English"
}

type Translator struct {
	catalogues map[Locale]map[string]any
	fallback   Locale
}

// NewTranslator loads the catalogues embedded in the binary.
func NewTranslator(fallback Locale) (*Translator, error) {
	sources := make(map[Locale][]byte, len(Supported))
	for _, l := range Supported {
		raw, err := localeFS.ReadFile(fmt.Sprintf("locales/%s.yaml", l))
		if err != nil {
			return nil, fmt.Errorf("read %s catalogue: %w", l, err)
		}
		sources[l] = raw
	}
	return NewTranslatorFromYAML(fallback, sources)
}

func NewTranslatorFromYAML(fallback Locale, sources map[Locale][]byte) (*Translator, error) {
	if !fallback.Valid() {
		return nil, fmt.Errorf("unsupported fallback locale %q", fallback)
	}

	t := &Translator{
		catalogues: make(map[Locale]map[string]any, len(sources)),
		fallback:   fallback,
	}
	for l, raw := range sources {
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("parse %s catalogue: %w", l, err)
		}
		t.catalogues[l] = tree
	}
	if _, ok := t.catalogues[fallback]; !ok {
		return nil, fmt.Errorf("missing catalogue for fallback locale %q", fallback)
	}
	return t, nil
}

// Lookup resolves a dotted key to a string in the given locale.
func (t *Translator) Lookup(locale Locale, key string) (string, bool) {
	s, ok := t.node(locale, key).(string)
	return s, ok
}

// T returns the translated string with {{param}} placeholders filled in.
// A missing key renders as the key itself.
func (t *Translator) T(locale Locale, key string, params map[string]any) string {
	s, ok := t.Lookup(locale, key)
	if !ok {
		return key
	}
	if len(params) == 0 {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(m string) string {
		name := placeholderPattern.FindStringSubmatch(m)[1]
		if v, ok := params[name]; ok {
			return fmt.Sprint(v)
		}
		return m
	})
}

// List returns a sequence of strings stored under key, or nil when the key
// does not hold a list.
func (t *Translator) List(locale Locale, key string) []string {
	items, ok := t.node(locale, key).([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (t *Translator) Fallback() Locale {
	return t.fallback
}

func (t *Translator) node(locale Locale, key string) any {
	tree, ok := t.catalogues[locale]
	if !ok {
		tree = t.catalogues[t.fallback]
	}

	var cur any = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		if cur, ok = m[part]; !ok {
			return nil
		}
	}
	return cur
}

// Resolve picks the active locale: a valid persisted preference wins, then
// the best supported language from an Accept-Language header, then fallback.
func Resolve(persisted, acceptLanguage string, fallback Locale) Locale {
	if l, ok := ParseLocale(persisted); ok {
		return l
	}

	// A malformed header can still yield usable tags; q=0 entries are dropped.
	desired, _, _ := language.ParseAcceptLanguage(acceptLanguage)
	if len(desired) == 0 {
		return fallback
	}
	_, idx, conf := supportedMatcher.Match(desired...)
	if conf == language.No {
		return fallback
	}
	return Supported[idx]
}
