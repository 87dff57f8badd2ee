package domain

import "sort"

// Language describes a quiz target language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

var supportedLanguages = map[string]Language{
	"ru": {Code: "ru", Name: "Русский", Flag: "🇷🇺"},
	"en": {Code: "en", Name: "English", Flag: "🇬🇧"},
	"ko": {Code: "ko", Name: "한국어", Flag: "🇰🇷"},
	"pt": {Code: "pt", Name: "Português", Flag: "🇵🇹"},
	"es": {Code: "es", Name: "Español", Flag: "🇪🇸"},
	"de": {Code: "de", Name: "Deutsch", Flag: "🇩🇪"},
}

// LookupLanguage returns the language for a code.
func LookupLanguage(code string) (Language, bool) {
	lang, ok := supportedLanguages[code]
	return lang, ok
}

// SupportedLanguages lists languages ordered by code.
func SupportedLanguages() []Language {
	out := make([]Language, 0, len(supportedLanguages))
	for _, lang := range supportedLanguages {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
