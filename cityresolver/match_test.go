package cityresolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMessage(t *testing.T) {
	cases := map[string]string{
		"Живу в Мск":         "живу в мск",
		"С.-Петербург":       "с петербург",
		"Санкт-Петербург.":   "санкт петербург",
		"ЁЛКИ-ПАЛКИ":         "ёлки палки",
		"":                   "",
		"г. Ростов-на-Дону!": "г ростов на дону!",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeMessage(in), in)
	}
}

func TestNormalizeMessageIdempotent(t *testing.T) {
	in := "Еду в С.-Петербург на выходные..."
	once := NormalizeMessage(in)
	assert.Equal(t, once, NormalizeMessage(once))
}

func mustCatalog(t *testing.T, cities []string, aliases ...Alias) *Catalog {
	t.Helper()
	c, err := NewCatalog(cities, aliases)
	require.NoError(t, err)
	return c
}

func TestAliasMatcherWholeWords(t *testing.T) {
	c := mustCatalog(t, []string{"Москва", "Санкт-Петербург", "Нижний Новгород"},
		Alias{"мск", "Москва"},
		Alias{"нижний новгород", "Нижний Новгород"},
		Alias{"питер", "Санкт-Петербург"},
	)
	m := NewAliasMatcher(c)

	tests := []struct {
		text string
		want string
	}{
		{"живу в мск", "Москва"},
		{"мск", "Москва"},
		{"(мск)", "Москва"},
		{"еду в питер на выходные", "Санкт-Петербург"},
		{"переехал в нижний новгород", "Нижний Новгород"},
		{"мскх", ""},
		{"мск_офис", ""},
		{"мск2", ""},
		{"питерский бизнес", ""},
		{"супитер и мск", "Москва"},
		{"", ""},
	}
	for _, tt := range tests {
		a, ok := m.Match(tt.text)
		assert.Equal(t, tt.want != "", ok, tt.text)
		assert.Equal(t, tt.want, a.City, tt.text)
	}
}

func TestAliasMatcherUsesCatalogOrder(t *testing.T) {
	c := mustCatalog(t, []string{"Москва", "Санкт-Петербург"},
		Alias{"москва", "Москва"},
		Alias{"питер", "Санкт-Петербург"},
	)
	m := NewAliasMatcher(c)

	// "питер" appears first in the text, but "москва" is declared first.
	a, ok := m.Match("из питер в москва")
	require.True(t, ok)
	assert.Equal(t, Alias{"москва", "Москва"}, a)
}

func TestAliasMatcherNormalizesPunctuatedKeys(t *testing.T) {
	c := mustCatalog(t, []string{"Санкт-Петербург", "Нижний Новгород"},
		Alias{"санкт-петербург", "Санкт-Петербург"},
		Alias{"н.новгород", "Нижний Новгород"},
		Alias{"-", "Нижний Новгород"},
	)
	m := NewAliasMatcher(c)

	a, ok := m.Match(NormalizeMessage("Переехал в Санкт-Петербург"))
	require.True(t, ok)
	assert.Equal(t, Alias{"санкт-петербург", "Санкт-Петербург"}, a)

	a, ok = m.Match(NormalizeMessage("Живу в Н.Новгород"))
	require.True(t, ok)
	assert.Equal(t, "Нижний Новгород", a.City)

	_, ok = m.Match(NormalizeMessage("Сегодня - дождь"))
	assert.False(t, ok)
}

func TestAliasMatcherKeysSharingSearchForm(t *testing.T) {
	c := mustCatalog(t, []string{"Москва", "Санкт-Петербург"},
		Alias{"мск", "Москва"},
		Alias{"санкт петербург", "Санкт-Петербург"},
		Alias{"санкт-петербург", "Санкт-Петербург"},
	)
	m := NewAliasMatcher(c)

	a, ok := m.Match(NormalizeMessage("Из Санкт-Петербурга в мск"))
	require.True(t, ok)
	assert.Equal(t, "Москва", a.City)

	a, ok = m.Match(NormalizeMessage("Санкт-Петербург"))
	require.True(t, ok)
	assert.Equal(t, Alias{"санкт петербург", "Санкт-Петербург"}, a)
}

func TestAliasMatcherSkipsUnboundedEarlierOccurrence(t *testing.T) {
	c := mustCatalog(t, []string{"Омск"}, Alias{"омск", "Омск"})
	m := NewAliasMatcher(c)

	a, ok := m.Match("томск или омск")
	require.True(t, ok)
	assert.Equal(t, "Омск", a.City)

	_, ok = m.Match("томск")
	assert.False(t, ok)
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("а б", "б"))
	assert.True(t, containsWord("б", "б"))
	assert.False(t, containsWord("аб", "б"))
	assert.True(t, containsWord("аб б", "б"))
	assert.False(t, containsWord("abc", ""))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("казань", "казань"))
	assert.Equal(t, 0.8, Similarity("abcde", "abcdz"))
	assert.Equal(t, 0.0, Similarity("", "abc"))
	assert.InDelta(t, 0.857, Similarity("Новосибирск", "новосибирк"), 0.001)
}

func TestFuzzyMatcherThresholdIsInclusive(t *testing.T) {
	c := mustCatalog(t, []string{"abcdefghij", "abcdefghijklmnopqrs"})
	m := NewFuzzyMatcher(c, DefaultFuzzyCutoff)

	// 8 of 10 runes in common: exactly 0.80
	got, ok := m.Match("abcdefghwx")
	require.True(t, ok)
	assert.Equal(t, "abcdefghij", got.City)
	assert.Equal(t, 0.8, got.Score)

	// 15 of 19 runes in common: 0.789
	assert.InDelta(t, 0.789, Similarity("abcdefghijklmnopqrs", "abcdefghijklmnowxyz"), 0.001)
	_, ok = m.Match("abcdefghijklmnowxyz")
	assert.False(t, ok)
}

func TestFuzzyMatcherExactCandidateWins(t *testing.T) {
	c := mustCatalog(t, []string{"Казань", "Казахстан"})
	m := NewFuzzyMatcher(c, 0)

	got, ok := m.Match("Казань")
	require.True(t, ok)
	assert.Equal(t, "Казань", got.City)
	assert.Equal(t, 1.0, got.Score)
	assert.Equal(t, DefaultFuzzyCutoff, m.Cutoff())
}

func TestFuzzyMatcherTiesKeepFirstCandidate(t *testing.T) {
	c := mustCatalog(t, []string{"abcdx", "abcdy"})
	m := NewFuzzyMatcher(c, DefaultFuzzyCutoff)

	got, ok := m.Match("abcdz")
	require.True(t, ok)
	assert.Equal(t, "abcdx", got.City)
}

func TestFuzzyMatcherResolvesAliasCandidates(t *testing.T) {
	c := mustCatalog(t, []string{"Санкт-Петербург"}, Alias{"питер", "Санкт-Петербург"})
	m := NewFuzzyMatcher(c, DefaultFuzzyCutoff)

	got, ok := m.Match("питерр")
	require.True(t, ok)
	assert.Equal(t, "Санкт-Петербург", got.City)
	assert.Equal(t, "питер", got.Candidate)
}

func TestFuzzyMatcherEmptyAndCustomCutoff(t *testing.T) {
	c := mustCatalog(t, []string{"abcde"})
	_, ok := NewFuzzyMatcher(c, DefaultFuzzyCutoff).Match("")
	assert.False(t, ok)

	strict := NewFuzzyMatcher(c, 0.9)
	_, ok = strict.Match("abcdz")
	assert.False(t, ok)
}
