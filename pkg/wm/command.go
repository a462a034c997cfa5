package wm

import (
	"fmt"
	"strings"
)

const markCommandPrefix = "mark --replace "

// MarkCommand returns the command that gives a window the label, replacing
// any label it already has.
func MarkCommand(label string) string {
	return markCommandPrefix + Quote(label)
}

// ParseMarkCommand returns the label set by a command built with
// [MarkCommand].
func ParseMarkCommand(cmd string) (string, bool) {
	arg, ok := strings.CutPrefix(cmd, markCommandPrefix)
	if !ok {
		return "", false
	}

	return unquote(arg)
}

// Quote returns s as a double-quoted command argument.
func Quote(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}

		b.WriteRune(r)
	}
	b.WriteByte('"')

	return b.String()
}

func unquote(s string) (string, bool) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", false
	}

	var (
		b       strings.Builder
		escaped bool
	)
	for _, r := range s[1 : len(s)-1] {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			return "", false
		default:
			b.WriteRune(r)
		}
	}
	if escaped {
		return "", false
	}

	return b.String(), true
}

// Criteria returns cmd prefixed with criteria selecting the window.
func Criteria(id WindowID, cmd string) string {
	return fmt.Sprintf("[con_id=%d] %s", id, cmd)
}
