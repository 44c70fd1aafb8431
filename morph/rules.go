package morph

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// locativeTriggers precede place names: prepositions of direction and location,
// and the "город"/"г." markers.
var locativeTriggers = []string{
	"в", "во", "из", "изо", "до", "под", "подо", "к", "ко", "около", "возле",
	"через", "по", "город", "городе", "города", "городу", "г",
}

// defaultExceptions maps colloquial or irregular forms to their lemma.
var defaultExceptions = map[string]string{
	"питере":  "питер",
	"питера":  "питер",
	"питеру":  "питер",
	"питером": "питер",
	"мск":     "мск",
	"спб":     "спб",
	"екб":     "екб",
	"нск":     "нск",
}

type suffixRule struct {
	ending string
	lemma  string
}

// Adjective endings in the masculine nominative. Longer endings first.
var adjectiveRules = []suffixRule{
	{"ыми", "ый"}, {"ими", "ий"},
	{"ого", "ый"}, {"его", "ий"},
	{"ому", "ый"}, {"ему", "ий"},
	{"ая", "ый"}, {"яя", "ий"},
	{"ую", "ый"}, {"юю", "ий"},
	{"ое", "ый"}, {"ее", "ий"},
	{"ые", "ый"}, {"ие", "ий"},
	{"ых", "ый"}, {"их", "ий"},
}

var nounRules = []suffixRule{
	{"ами", ""}, {"ями", "ь"},
	{"ах", ""}, {"ях", "ь"},
	{"ов", ""}, {"ев", "ь"},
	{"ом", ""}, {"ем", "ь"},
	{"ой", "а"}, {"ью", "ь"},
	{"ам", ""}, {"ям", "ь"},
}

// Modifiers in place names (Нижнем Новгороде, Великом Новгороде).
var modifierRules = []suffixRule{
	{"ого", "ый"}, {"его", "ий"},
	{"ому", "ый"}, {"ему", "ий"},
	{"ыми", "ые"}, {"ими", "ие"},
	{"ом", "ый"}, {"ем", "ий"},
	{"ую", "ая"}, {"юю", "яя"},
	{"ых", "ые"}, {"их", "ие"},
}

// Head nouns of place names in oblique cases.
var placeRules = []suffixRule{
	{"ах", "ы"}, {"ях", "и"},
	{"ью", "ь"},
	{"ом", ""}, {"ем", "ь"},
	{"ой", "а"},
	{"е", ""}, {"у", ""},
	{"ы", "а"}, {"и", "ь"},
}

func lower(s string) string {
	return cases.Lower(language.Russian).String(s)
}

func lemmatizeByRules(word string) string {
	if utf8.RuneCountInString(word) < 4 {
		return word
	}
	if lemma, ok := applyRules(word, adjectiveRules); ok {
		return fixVelar(lemma)
	}
	if lemma, ok := applyRules(word, nounRules); ok {
		return lemma
	}
	return word
}

// nominativeByRules inflects one word of a place name back to the nominative.
// The original capitalization of the stem is kept.
func nominativeByRules(word string, modifier bool) string {
	lw := lower(word)
	if utf8.RuneCountInString(lw) < 4 {
		return word
	}
	rules := placeRules
	if modifier {
		rules = append(modifierRules[:len(modifierRules):len(modifierRules)], placeRules...)
	}
	for _, rule := range rules {
		if !strings.HasSuffix(lw, rule.ending) {
			continue
		}
		stemRunes := utf8.RuneCountInString(lw) - utf8.RuneCountInString(rule.ending)
		if stemRunes < 3 {
			continue
		}
		stem := string([]rune(word)[:stemRunes])
		return fixVelar(stem + rule.lemma)
	}
	return word
}

func applyRules(word string, rules []suffixRule) (string, bool) {
	for _, rule := range rules {
		if !strings.HasSuffix(word, rule.ending) {
			continue
		}
		stem := strings.TrimSuffix(word, rule.ending)
		if utf8.RuneCountInString(stem) >= 3 {
			return stem + rule.lemma, true
		}
	}
	return "", false
}

// fixVelar applies the spelling rule that turns "ый" into "ий" after г, к, х and sibilants.
func fixVelar(word string) string {
	if !strings.HasSuffix(word, "ый") {
		return word
	}
	stem := strings.TrimSuffix(word, "ый")
	last, _ := utf8.DecodeLastRuneInString(stem)
	switch unicode.ToLower(last) {
	case 'г', 'к', 'х', 'ж', 'ш', 'ч', 'щ':
		return stem + "ий"
	}
	return word
}

func isAdjective(word string) bool {
	for _, rule := range adjectiveRules {
		if strings.HasSuffix(word, rule.ending) && utf8.RuneCountInString(word) > len([]rune(rule.ending))+2 {
			return true
		}
	}
	return strings.HasSuffix(word, "ый") || strings.HasSuffix(word, "ий")
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
