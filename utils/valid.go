// utils/validation.go
package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var scriptRegex = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)

// SanitizeInput trims free text and strips control characters and script
// tags.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	return scriptRegex.ReplaceAllString(input, "")
}

// SanitizeStringArray sanitizes each element and drops the ones left empty.
func SanitizeStringArray(inputs []string) []string {
	out := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if s := SanitizeInput(input); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SanitizeOptional applies SanitizeInput through a patch pointer.
func SanitizeOptional(input *string) *string {
	if input == nil {
		return nil
	}
	s := SanitizeInput(*input)
	return &s
}
