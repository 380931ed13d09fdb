package event

import (
	"fmt"
	"strings"
)

// Language is one of the supported UI languages.
type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
	Kurdish Language = "ku"
)

// Languages lists every supported language in display order.
var Languages = []Language{English, Arabic, Kurdish}

// ParseLanguage maps a user supplied code to a Language. Empty means English.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "", English:
		return English, nil
	case Arabic:
		return Arabic, nil
	case Kurdish:
		return Kurdish, nil
	}
	return "", fmt.Errorf("event: unsupported language %q (expected en, ar or ku)", s)
}

// RTL reports whether text in the language reads right to left.
func (l Language) RTL() bool {
	return l == Arabic || l == Kurdish
}

func (l Language) String() string {
	return string(l)
}

// Localized is a string available in several languages.
type Localized map[Language]string

// Get returns the text for lang, falling back to English when it is missing.
func (l Localized) Get(lang Language) string {
	if v := l[lang]; v != "" {
		return v
	}
	return l[English]
}

// Complete reports whether every supported language has text.
func (l Localized) Complete() bool {
	for _, lang := range Languages {
		if strings.TrimSpace(l[lang]) == "" {
			return false
		}
	}
	return true
}

// Missing lists the languages without text.
func (l Localized) Missing() []Language {
	var out []Language
	for _, lang := range Languages {
		if strings.TrimSpace(l[lang]) == "" {
			out = append(out, lang)
		}
	}
	return out
}

func (l Localized) Clone() Localized {
	if l == nil {
		return nil
	}
	out := make(Localized, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// Text builds an English-only Localized value.
func Text(en string) Localized {
	return Localized{English: en}
}
