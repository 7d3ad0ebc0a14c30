package translation

import (
	"sort"
	"strings"

	"transbridge/internal/language"
)

type LanguageOption struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Native string `json:"native,omitempty"`
}

var languageLabels = map[string]LanguageOption{
	"ar": {Code: "ar", Label: "Arabic", Native: "العربية"},
	"de": {Code: "de", Label: "German", Native: "Deutsch"},
	"en": {Code: "en", Label: "English", Native: "English"},
	"es": {Code: "es", Label: "Spanish", Native: "Español"},
	"fr": {Code: "fr", Label: "French", Native: "Français"},
	"id": {Code: "id", Label: "Indonesian", Native: "Bahasa Indonesia"},
	"it": {Code: "it", Label: "Italian", Native: "Italiano"},
	"ja": {Code: "ja", Label: "Japanese", Native: "日本語"},
	"ko": {Code: "ko", Label: "Korean", Native: "한국어"},
	"pl": {Code: "pl", Label: "Polish", Native: "Polski"},
	"pt": {Code: "pt", Label: "Portuguese", Native: "Português"},
	"ru": {Code: "ru", Label: "Russian", Native: "Русский"},
	"th": {Code: "th", Label: "Thai", Native: "ไทย"},
	"tr": {Code: "tr", Label: "Turkish", Native: "Türkçe"},
	"uk": {Code: "uk", Label: "Ukrainian", Native: "Українська"},
	"vi": {Code: "vi", Label: "Vietnamese", Native: "Tiếng Việt"},
	"zh": {Code: "zh", Label: "Chinese", Native: "中文"},
}

func SupportedLanguageCodes() []string {
	codes := make([]string, 0, len(languageLabels))
	for code := range languageLabels {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LanguageOptions merges the built-in label table with every language the
// registered providers claim to support.
func LanguageOptions(registry *Registry) []LanguageOption {
	supported := map[string]struct{}{}
	for code := range languageLabels {
		supported[code] = struct{}{}
	}

	if registry != nil {
		for _, provider := range registry.providers {
			for _, code := range provider.SupportedLanguages() {
				normalized := language.NormalizeCode(code)
				if normalized == "" {
					continue
				}
				supported[normalized] = struct{}{}
			}
		}
	}

	codes := make([]string, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	options := make([]LanguageOption, 0, len(codes))
	for _, code := range codes {
		if option, ok := languageLabels[code]; ok {
			options = append(options, option)
			continue
		}
		options = append(options, LanguageOption{
			Code:  code,
			Label: strings.ToUpper(code),
		})
	}

	return options
}
