package morph

import (
	"strings"
	"unicode/utf8"

	"github.com/kljensen/snowball"
)

// Span marks a location mention by byte offsets.
type Span struct {
	Start int
	End   int
}

// Analyzer lemmatizes words and finds place names. Place names listed in the
// lexicon are recognised in any grammatical case through their stems.
type Analyzer struct {
	// stem key -> lexicon form, e.g. "нижн новгород" -> "Нижний Новгород"
	lexicon    map[string]string
	exceptions map[string]string
	triggers   map[string]struct{}
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLexicon registers place names. The first name wins when two share a stem key.
func WithLexicon(names []string) Option {
	return func(a *Analyzer) {
		for _, name := range names {
			key := stemKey(name)
			if key == "" {
				continue
			}
			if _, ok := a.lexicon[key]; !ok {
				a.lexicon[key] = name
			}
		}
	}
}

// WithExceptions adds irregular word forms and their lemmas.
func WithExceptions(forms map[string]string) Option {
	return func(a *Analyzer) {
		for form, lemma := range forms {
			a.exceptions[lower(form)] = lower(lemma)
		}
	}
}

// New builds an analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		lexicon:    make(map[string]string),
		exceptions: make(map[string]string, len(defaultExceptions)),
		triggers:   make(map[string]struct{}, len(locativeTriggers)),
	}
	for form, lemma := range defaultExceptions {
		a.exceptions[form] = lemma
	}
	for _, w := range locativeTriggers {
		a.triggers[w] = struct{}{}
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Stem returns the snowball stem of a lowercase word.
func Stem(word string) string {
	stemmed, err := snowball.Stem(word, "russian", true)
	if err != nil {
		return word
	}
	return stemmed
}

// stemKey stems every part of a possibly multi-word, hyphenated name.
func stemKey(name string) string {
	parts := strings.FieldsFunc(lower(name), func(r rune) bool {
		return r == ' ' || isJoiner(r)
	})
	for i, p := range parts {
		parts[i] = Stem(p)
	}
	return strings.Join(parts, " ")
}

// LookupPlace returns the lexicon form for a name in any case.
func (a *Analyzer) LookupPlace(name string) (string, bool) {
	form, ok := a.lexicon[stemKey(name)]
	return form, ok
}

// Lemmatize returns the lowercase dictionary form of word.
func (a *Analyzer) Lemmatize(word string) string {
	w := lower(strings.TrimSpace(word))
	if w == "" {
		return ""
	}
	if lemma, ok := a.exceptions[w]; ok {
		return lemma
	}
	if !hasLetter(w) {
		return w
	}
	if form, ok := a.LookupPlace(w); ok {
		return lower(form)
	}
	return lemmatizeByRules(w)
}

// Nominative returns the nominative form of a place name given as words.
// Known names come back in their lexicon spelling; otherwise each word is
// inflected back by suffix rules keeping its capitalization.
func (a *Analyzer) Nominative(words []string) string {
	if len(words) == 0 {
		return ""
	}
	if form, ok := a.LookupPlace(strings.Join(words, " ")); ok {
		return form
	}
	out := make([]string, len(words))
	for i, w := range words {
		if form, ok := a.LookupPlace(w); ok {
			out[i] = form
			continue
		}
		modifier := i < len(words)-1
		out[i] = nominativeByRules(w, modifier)
	}
	return strings.Join(out, " ")
}

// Locations finds place-name mentions: runs of capitalized words that follow a
// locative preposition or marker, or that the lexicon knows.
func (a *Analyzer) Locations(tokens []Token) []Span {
	var spans []Span
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !a.candidate(tok) {
			continue
		}
		j := i + 1
		for j < len(tokens) && a.candidate(tokens[j]) {
			j++
		}
		run := tokens[i:j]
		if a.afterTrigger(tokens, i) || a.knownRun(run) {
			spans = append(spans, Span{Start: run[0].Start, End: run[len(run)-1].End})
		}
		i = j - 1
	}
	return spans
}

// Tags guesses coarse morphological tags for a token.
func (a *Analyzer) Tags(tok Token) map[string]string {
	tags := map[string]string{"kind": tok.Kind.String()}
	switch {
	case tok.Kind == KindPunct:
		tags["pos"] = "PUNCT"
	case tok.Kind == KindNumber:
		tags["pos"] = "NUM"
	case a.isTrigger(tok.Text):
		tags["pos"] = "ADP"
	case IsCapitalized(tok.Text):
		tags["pos"] = "PROPN"
	case isAdjective(lower(tok.Text)):
		tags["pos"] = "ADJ"
	default:
		tags["pos"] = "NOUN"
	}
	return tags
}

func (a *Analyzer) candidate(tok Token) bool {
	return tok.Kind == KindWord && IsCapitalized(tok.Text) && !a.isTrigger(tok.Text)
}

func (a *Analyzer) isTrigger(word string) bool {
	_, ok := a.triggers[lower(word)]
	return ok
}

// afterTrigger checks the word before position i, skipping the period of "г.".
func (a *Analyzer) afterTrigger(tokens []Token, i int) bool {
	k := i - 1
	if k >= 0 && tokens[k].Text == "." {
		k--
	}
	return k >= 0 && tokens[k].Kind == KindWord && a.isTrigger(tokens[k].Text)
}

func (a *Analyzer) knownRun(run []Token) bool {
	words := make([]string, len(run))
	for i, t := range run {
		words[i] = t.Text
		if _, ok := a.LookupPlace(t.Text); ok && utf8.RuneCountInString(t.Text) > 2 {
			return true
		}
	}
	_, ok := a.LookupPlace(strings.Join(words, " "))
	return ok
}
