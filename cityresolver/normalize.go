package cityresolver

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var messageReplacer = strings.NewReplacer(".", "", "-", " ")

// NormalizeMessage prepares raw text for the alias scan: it lowercases the text,
// drops periods and turns hyphens into spaces so "С.-Петербург" and "спб." land on
// searchable words.
func NormalizeMessage(text string) string {
	return messageReplacer.Replace(lower(text))
}

// lower applies Russian lowercasing rules. A Caser keeps state, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Russian).String(s)
}

// NormalizeText applies NFKC, trims whitespace and drops control characters.
// Hand-edited catalog files go through it before validation.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.TrimSpace(normed)
	// Collapse internal control characters except newlines.
	normed = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return normed
}
