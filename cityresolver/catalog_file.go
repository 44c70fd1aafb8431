package cityresolver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadCatalogFile reads a catalog from a YAML (or JSON) document of the form
//
//	cities: [Москва, Санкт-Петербург]
//	aliases:
//	  мск: Москва
//	  питер: Санкт-Петербург
//
// Alias order follows the document.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes catalog data. Mappings are walked as yaml nodes so the alias
// order of the document survives decoding.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &CatalogError{Reason: "decode: " + err.Error()}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &CatalogError{Reason: "empty document"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &CatalogError{Reason: "top level must be a mapping"}
	}

	var (
		cities  []string
		aliases []Alias
	)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "cities":
			if value.Kind != yaml.SequenceNode {
				return nil, &CatalogError{Reason: "cities must be a list"}
			}
			for _, item := range value.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, &CatalogError{Reason: fmt.Sprintf("line %d: city must be a string", item.Line)}
				}
				cities = append(cities, NormalizeText(item.Value))
			}
		case "aliases":
			if value.Kind != yaml.MappingNode {
				return nil, &CatalogError{Reason: "aliases must be a mapping"}
			}
			for j := 0; j+1 < len(value.Content); j += 2 {
				k, v := value.Content[j], value.Content[j+1]
				if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
					return nil, &CatalogError{Reason: fmt.Sprintf("line %d: alias entries must be strings", k.Line)}
				}
				aliases = append(aliases, Alias{Key: NormalizeText(k.Value), City: NormalizeText(v.Value)})
			}
		default:
			return nil, &CatalogError{Reason: "unknown field", Value: key.Value}
		}
	}
	return NewCatalog(cities, aliases)
}

// MarshalCatalog encodes a catalog in the format accepted by ParseCatalog.
func MarshalCatalog(c *Catalog) ([]byte, error) {
	citiesNode := &yaml.Node{Kind: yaml.SequenceNode}
	for _, city := range c.cities {
		citiesNode.Content = append(citiesNode.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: city})
	}
	aliasesNode := &yaml.Node{Kind: yaml.MappingNode}
	for _, a := range c.aliases {
		aliasesNode.Content = append(aliasesNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: a.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: a.City},
		)
	}
	root := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "cities"}, citiesNode,
		{Kind: yaml.ScalarNode, Value: "aliases"}, aliasesNode,
	}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveCatalogFile writes the catalog atomically through a temp file.
func SaveCatalogFile(path string, c *Catalog) error {
	data, err := MarshalCatalog(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp catalog: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename catalog: %w", err)
	}
	return nil
}
