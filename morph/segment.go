// Package morph is a small rule and dictionary based analyzer for Russian text:
// segmentation with byte offsets, lemmatization, nominative forms of place names
// and location detection.
//
// All functions are safe for concurrent use; an Analyzer is read-only after New.
package morph

import (
	"unicode"
	"unicode/utf8"
)

// Kind classifies a token.
type Kind int

const (
	KindWord Kind = iota
	KindNumber
	KindPunct
)

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindNumber:
		return "number"
	case KindPunct:
		return "punct"
	default:
		return "unknown"
	}
}

// Token is a segment of the source text. text[t.Start:t.End] == t.Text always holds.
type Token struct {
	Start int
	End   int
	Text  string
	Kind  Kind
}

// Segment splits text into words, numbers and single punctuation marks.
// Hyphens and apostrophes stay inside a word when letters follow them, so
// "Ростов-на-Дону" is one token.
func Segment(text string) []Token {
	var tokens []Token
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isWordChar(r):
			start := i
			hasLetter := false
			for i < len(text) {
				r, size = utf8.DecodeRuneInString(text[i:])
				if isWordChar(r) {
					if unicode.IsLetter(r) {
						hasLetter = true
					}
					i += size
					continue
				}
				if isJoiner(r) && i+size < len(text) {
					next, _ := utf8.DecodeRuneInString(text[i+size:])
					if unicode.IsLetter(next) {
						i += size
						continue
					}
				}
				break
			}
			kind := KindNumber
			if hasLetter {
				kind = KindWord
			}
			tokens = append(tokens, Token{Start: start, End: i, Text: text[start:i], Kind: kind})
		default:
			tokens = append(tokens, Token{Start: i, End: i + size, Text: text[i : i+size], Kind: KindPunct})
			i += size
		}
	}
	return tokens
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isJoiner(r rune) bool {
	switch r {
	case '-', '\'', '’', '‑':
		return true
	}
	return false
}

// IsCapitalized reports whether a word starts with an upper-case letter.
func IsCapitalized(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}
