package render

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultLang is used when no language is requested.
const DefaultLang = "en"

// ErrMissingTranslation is returned when a key has no message for a language.
var ErrMissingTranslation = errors.New("render: missing translation")

// Translator resolves message keys for a language.
type Translator interface {
	Translate(lang, key string, args ...any) (string, error)
}

// Catalog is an in-memory Translator keyed by language then message key.
// Messages may contain fmt verbs consumed by args.
type Catalog map[string]map[string]string

// Translate implements Translator. Region suffixes fall back to the base
// language ("ru-RU" uses "ru").
func (c Catalog) Translate(lang, key string, args ...any) (string, error) {
	for _, candidate := range langCandidates(lang) {
		messages, ok := c[candidate]
		if !ok {
			continue
		}
		msg, ok := messages[key]
		if !ok || strings.TrimSpace(msg) == "" {
			continue
		}
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...), nil
		}
		return msg, nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, lang, key)
}

// Languages returns the languages present in the catalog.
func (c Catalog) Languages() []string {
	out := make([]string, 0, len(c))
	for lang := range c {
		out = append(out, lang)
	}
	return out
}

// Has reports whether the catalog has messages for lang.
func (c Catalog) Has(lang string) bool {
	_, ok := c[strings.ToLower(strings.TrimSpace(lang))]
	return ok
}

// Messages resolves every key for lang, falling back to DefaultLang and then
// to the key itself.
func Messages(t Translator, lang string, keys ...string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		out[key] = translate(t, lang, key)
	}
	return out
}

func translate(t Translator, lang, key string) string {
	if t == nil {
		return key
	}
	if msg, err := t.Translate(lang, key); err == nil {
		return msg
	}
	if msg, err := t.Translate(DefaultLang, key); err == nil {
		return msg
	}
	return key
}

func langCandidates(lang string) []string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return []string{DefaultLang}
	}
	out := []string{lang}
	if base, _, ok := strings.Cut(strings.ReplaceAll(lang, "_", "-"), "-"); ok && base != "" {
		out = append(out, base)
	}
	return out
}
