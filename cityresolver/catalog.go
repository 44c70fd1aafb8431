package cityresolver

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// Alias maps a lowercase alias key to a canonical city name.
type Alias struct {
	Key  string `json:"key" yaml:"key"`
	City string `json:"city" yaml:"city"`
}

// Catalog holds the canonical city names and the ordered alias table.
// It is immutable after construction and safe to share between goroutines.
type Catalog struct {
	cities        []string
	citySet       map[string]struct{}
	aliases       []Alias
	aliasIndex    map[string]string
	candidates    []string
	candidateCity map[string]string
	fingerprint   string
}

// NewCatalog validates the inputs and builds a catalog. Alias keys are lowercased;
// aliases keep their declaration order, which is the order the alias scan uses.
//
// Repeating an alias with the same target is tolerated and the later entry dropped.
// Everything else that would make resolution ambiguous is rejected with a *CatalogError.
func NewCatalog(cities []string, aliases []Alias) (*Catalog, error) {
	if len(cities) == 0 {
		return nil, &CatalogError{Reason: "no canonical cities"}
	}
	c := &Catalog{
		cities:        make([]string, 0, len(cities)),
		citySet:       make(map[string]struct{}, len(cities)),
		aliases:       make([]Alias, 0, len(aliases)),
		aliasIndex:    make(map[string]string, len(aliases)),
		candidateCity: make(map[string]string, len(cities)+len(aliases)),
	}
	for _, city := range cities {
		if strings.TrimSpace(city) == "" {
			return nil, &CatalogError{Reason: "empty canonical city"}
		}
		if _, dup := c.citySet[city]; dup {
			return nil, &CatalogError{Reason: "duplicate canonical city", Value: city}
		}
		c.citySet[city] = struct{}{}
		c.cities = append(c.cities, city)
	}
	for _, a := range aliases {
		key := lower(strings.TrimSpace(a.Key))
		if key == "" {
			return nil, &CatalogError{Reason: "empty alias key", Value: a.City}
		}
		if _, ok := c.citySet[a.City]; !ok {
			return nil, &CatalogError{Reason: "alias " + key + " targets unknown city", Value: a.City}
		}
		if prev, dup := c.aliasIndex[key]; dup {
			if prev == a.City {
				continue
			}
			return nil, &CatalogError{Reason: "alias maps to more than one city", Value: key}
		}
		c.aliasIndex[key] = a.City
		c.aliases = append(c.aliases, Alias{Key: key, City: a.City})
	}

	c.candidates = make([]string, 0, len(c.cities)+len(c.aliases))
	for _, city := range c.cities {
		c.candidates = append(c.candidates, city)
		c.candidateCity[city] = city
	}
	for _, a := range c.aliases {
		c.candidates = append(c.candidates, a.Key)
		if _, ok := c.candidateCity[a.Key]; !ok {
			c.candidateCity[a.Key] = a.City
		}
	}
	c.fingerprint = c.computeFingerprint()
	return c, nil
}

// IsCity reports whether name is a canonical city (case-sensitive).
func (c *Catalog) IsCity(name string) bool {
	_, ok := c.citySet[name]
	return ok
}

// Lookup returns the canonical city for an alias key. The key is expected lowercase.
func (c *Catalog) Lookup(key string) (string, bool) {
	city, ok := c.aliasIndex[key]
	return city, ok
}

// Cities returns a copy of the canonical names in declaration order.
func (c *Catalog) Cities() []string {
	return append([]string(nil), c.cities...)
}

// Aliases returns a copy of the alias table in declaration order.
func (c *Catalog) Aliases() []Alias {
	return append([]Alias(nil), c.aliases...)
}

// Candidates returns the fuzzy candidate set: canonical names, then alias keys.
func (c *Catalog) Candidates() []string {
	return append([]string(nil), c.candidates...)
}

// resolveCandidate maps a candidate string back to its canonical city.
func (c *Catalog) resolveCandidate(candidate string) string {
	if city, ok := c.candidateCity[candidate]; ok {
		return city
	}
	return candidate
}

// Fingerprint identifies the catalog contents. Caches use it to avoid mixing entries
// produced against different catalogs.
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}

func (c *Catalog) computeFingerprint() string {
	h := sha1.New()
	for _, city := range c.cities {
		h.Write([]byte(city))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, a := range c.aliases {
		h.Write([]byte(a.Key))
		h.Write([]byte{0})
		h.Write([]byte(a.City))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
