// Package casing converts identifier names between casing styles.
package casing

import (
	"fmt"
	"strings"
	"unicode"
)

// Style is one identifier casing convention.
type Style string

const (
	// Camel is lowerCamelCase.
	Camel Style = "camel"
	// Pascal is UpperCamelCase.
	Pascal Style = "pascal"
	// Snake is lower_snake_case.
	Snake Style = "snake"
	// Scream is SCREAMING_SNAKE_CASE.
	Scream Style = "screaming-snake"
)

// ParseStyle validates a style name from configuration.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case Camel, Pascal, Snake, Scream:
		return Style(s), nil
	}
	return "", fmt.Errorf("unknown casing style %q (want camel, pascal, snake, or screaming-snake)", s)
}

// Apply converts name to the style. Apply is idempotent: applying a style
// to its own output returns the output unchanged. Leading and trailing
// underscores are preserved, since GML authors use them as visibility
// markers.
func (s Style) Apply(name string) string {
	lead, core, trail := trimUnderscores(name)
	words := split(core)
	if len(words) == 0 {
		return name
	}

	var joined string
	switch s {
	case Snake:
		joined = join(words, strings.ToLower, "_")
	case Scream:
		joined = join(words, strings.ToUpper, "_")
	case Pascal:
		joined = join(words, title, "")
	case Camel:
		first := strings.ToLower(words[0])
		if len(words) == 1 {
			joined = first
		} else {
			joined = first + join(words[1:], title, "")
		}
	default:
		return name
	}
	return lead + joined + trail
}

// Matches reports whether name is already in the style.
func (s Style) Matches(name string) bool {
	return s.Apply(name) == name
}

func trimUnderscores(name string) (lead, core, trail string) {
	start := 0
	for start < len(name) && name[start] == '_' {
		start++
	}
	end := len(name)
	for end > start && name[end-1] == '_' {
		end--
	}
	return name[:start], name[start:end], name[end:]
}

// split breaks an identifier into words at separators, lower-to-upper
// transitions, acronym boundaries (HTTPServer -> HTTP, Server), and
// digit-to-letter transitions. Digits stay attached to the word before
// them, so player2 is one word.
func split(name string) []string {
	var words []string
	runes := []rune(name)
	start := 0

	flush := func(end int) {
		if end > start {
			words = append(words, string(runes[start:end]))
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '_' || r == '-' {
			flush(i)
			start = i + 1
			continue
		}
		if i == start {
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush(i)
		case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			// Last capital of an acronym starts the next word.
			flush(i)
		case unicode.IsLetter(r) && unicode.IsDigit(prev):
			flush(i)
		}
	}
	flush(len(runes))
	return words
}

func join(words []string, conv func(string) string, sep string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = conv(w)
	}
	return strings.Join(parts, sep)
}

func title(w string) string {
	if w == "" {
		return w
	}
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
