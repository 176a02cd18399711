package engine

import (
	"strings"

	"github.com/tartampluch/go-agewidget/internal/config"
)

// FormatTemplate replaces {identifier} placeholders with values.
// Unknown placeholders, empty braces and unterminated braces are copied
// through literally.
func FormatTemplate(tmpl string, values map[string]string) string {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); {
		if tmpl[i] != config.TemplatePlaceholderOpen {
			b.WriteByte(tmpl[i])
			i++
			continue
		}

		end := scanIdentifier(tmpl, i+1)
		if end == i+1 || end >= len(tmpl) || tmpl[end] != config.TemplatePlaceholderEnd {
			b.WriteByte(tmpl[i])
			i++
			continue
		}

		key := tmpl[i+1 : end]
		if v, ok := values[key]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(tmpl[i : end+1])
		}
		i = end + 1
	}
	return b.String()
}

// scanIdentifier returns the index of the first non-identifier byte at or after start.
func scanIdentifier(s string, start int) int {
	i := start
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	return i
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
