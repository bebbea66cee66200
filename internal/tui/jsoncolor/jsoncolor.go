// Package jsoncolor pretty-prints JSON with theme-aware syntax coloring.
package jsoncolor

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/colonyops/pulse/internal/core/styles"
)

// Colorize indents and colorizes JSON bytes using the active theme.
// Invalid JSON is returned as-is without coloring.
func Colorize(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}

	var out strings.Builder
	raw := buf.String()

	i := 0
	for i < len(raw) {
		switch ch := raw[i]; {
		case ch == '"':
			end := stringEnd(raw, i)
			str := raw[i : end+1]

			// Keys are strings followed by a colon.
			rest := strings.TrimLeft(raw[end+1:], " \t")
			if len(rest) > 0 && rest[0] == ':' {
				out.WriteString(styles.TextPrimaryStyle.Render(str))
			} else {
				out.WriteString(styles.TextSuccessStyle.Render(str))
			}
			i = end + 1

		case ch == ':':
			out.WriteString(styles.TextMutedStyle.Render(":"))
			i++

		case ch >= '0' && ch <= '9' || ch == '-':
			end := i + 1
			for end < len(raw) && strings.ContainsRune("0123456789.eE+-", rune(raw[end])) {
				end++
			}
			out.WriteString(styles.TextWarningStyle.Render(raw[i:end]))
			i = end

		case strings.HasPrefix(raw[i:], "true"):
			out.WriteString(styles.TextSecondaryStyle.Render("true"))
			i += len("true")

		case strings.HasPrefix(raw[i:], "false"):
			out.WriteString(styles.TextSecondaryStyle.Render("false"))
			i += len("false")

		case strings.HasPrefix(raw[i:], "null"):
			out.WriteString(styles.TextErrorStyle.Render("null"))
			i += len("null")

		case ch == '{' || ch == '}' || ch == '[' || ch == ']':
			out.WriteString(styles.TextForegroundStyle.Render(string(ch)))
			i++

		default:
			out.WriteByte(ch)
			i++
		}
	}

	return out.String()
}

// stringEnd returns the index of the closing quote for the JSON string
// opening at pos, honoring backslash escapes.
func stringEnd(s string, pos int) int {
	for i := pos + 1; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == '"' {
			return i
		}
	}
	return len(s) - 1
}
