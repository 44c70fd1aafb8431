package cityresolver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	c, err := NewCatalog(
		[]string{"Москва", "Санкт-Петербург"},
		[]Alias{{"МСК", "Москва"}, {"питер", "Санкт-Петербург"}, {"мск", "Москва"}},
	)
	require.NoError(t, err)

	assert.True(t, c.IsCity("Москва"))
	assert.False(t, c.IsCity("москва"))
	city, ok := c.Lookup("мск")
	assert.True(t, ok)
	assert.Equal(t, "Москва", city)
	assert.Equal(t, []Alias{{"мск", "Москва"}, {"питер", "Санкт-Петербург"}}, c.Aliases())
	assert.Equal(t, []string{"Москва", "Санкт-Петербург", "мск", "питер"}, c.Candidates())
	assert.Len(t, c.Fingerprint(), 40)
}

func TestNewCatalogRejectsMalformedData(t *testing.T) {
	tests := []struct {
		name    string
		cities  []string
		aliases []Alias
	}{
		{"no cities", nil, nil},
		{"empty city", []string{"Москва", " "}, nil},
		{"duplicate city", []string{"Москва", "Москва"}, nil},
		{"empty alias", []string{"Москва"}, []Alias{{"", "Москва"}}},
		{"unknown target", []string{"Москва"}, []Alias{{"питер", "Санкт-Петербург"}}},
		{"conflicting alias", []string{"Москва", "Омск"}, []Alias{{"м", "Москва"}, {"М", "Омск"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.cities, tt.aliases)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedCatalog))
			var catErr *CatalogError
			assert.True(t, errors.As(err, &catErr))
		})
	}
}

func TestCatalogFingerprintChangesWithContent(t *testing.T) {
	a, err := NewCatalog([]string{"Москва"}, []Alias{{"мск", "Москва"}})
	require.NoError(t, err)
	b, err := NewCatalog([]string{"Москва"}, []Alias{{"мсква", "Москва"}})
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Equal(t, DefaultCities, c.Cities())

	city, ok := c.Lookup("мск")
	require.True(t, ok)
	assert.Equal(t, "Москва", city)
	city, ok = c.Lookup("питер")
	require.True(t, ok)
	assert.Equal(t, "Санкт-Петербург", city)

	for _, a := range c.Aliases() {
		assert.Equal(t, NormalizeMessage(a.Key), a.Key, "alias keys are stored normalized")
	}
}

func TestParseCatalogKeepsDocumentOrder(t *testing.T) {
	data := []byte(`
cities:
  - Москва
  - Санкт-Петербург
aliases:
  питер: Санкт-Петербург
  мск: Москва
  спб: Санкт-Петербург
`)
	c, err := ParseCatalog(data)
	require.NoError(t, err)
	assert.Equal(t, []Alias{
		{"питер", "Санкт-Петербург"},
		{"мск", "Москва"},
		{"спб", "Санкт-Петербург"},
	}, c.Aliases())
}

func TestParseCatalogJSON(t *testing.T) {
	c, err := ParseCatalog([]byte(`{"cities": ["Омск"], "aliases": {"омске": "Омск"}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Омск"}, c.Cities())
}

func TestParseCatalogErrors(t *testing.T) {
	inputs := map[string]string{
		"not a mapping":  "- a\n- b\n",
		"cities scalar":  "cities: Москва\n",
		"aliases list":   "cities: [Москва]\naliases: [мск]\n",
		"unknown field":  "cities: [Москва]\nregions: {}\n",
		"unknown target": "cities: [Москва]\naliases: {питер: Санкт-Петербург}\n",
		"empty":          "",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(in))
			assert.ErrorIs(t, err, ErrMalformedCatalog)
		})
	}
}

func TestSaveAndLoadCatalogFile(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "catalog", "cities.yaml")

	require.NoError(t, SaveCatalogFile(path, c))
	loaded, err := LoadCatalogFile(path)
	require.NoError(t, err)
	assert.Equal(t, c.Cities(), loaded.Cities())
	assert.Equal(t, c.Aliases(), loaded.Aliases())
	assert.Equal(t, c.Fingerprint(), loaded.Fingerprint())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadCatalogFileMissing(t *testing.T) {
	_, err := LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseCatalogCleansHandEditedValues(t *testing.T) {
	c, err := ParseCatalog([]byte("cities: [\"Москва \"]\naliases: {\"МСК \": \"Москва\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Москва"}, c.Cities())
	assert.Equal(t, []Alias{{"мск", "Москва"}}, c.Aliases())
}
