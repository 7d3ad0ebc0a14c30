// Package language normalizes the case-insensitive language tags accepted by
// translation requests.
package language

import "strings"

// NormalizeTag lowercases a language tag and canonicalizes separators to "-".
// Blank tags or tags with non-alphabetic subtags normalize to the empty
// string.
func NormalizeTag(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}

	parts := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(parts) == 0 {
		return ""
	}
	for _, part := range parts {
		if !isAlphaLower(part) {
			return ""
		}
	}
	return strings.Join(parts, "-")
}

// NormalizeCode returns the primary language subtag (for example, "en" from
// "en-US").
func NormalizeCode(raw string) string {
	tag := NormalizeTag(raw)
	if tag == "" {
		return ""
	}
	if dash := strings.IndexByte(tag, '-'); dash >= 0 {
		return tag[:dash]
	}
	return tag
}

func isAlphaLower(value string) bool {
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
