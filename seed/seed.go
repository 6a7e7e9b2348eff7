// Package seed provides the built-in extraction schemas a rule store is
// initialized with.
package seed

import (
	_ "embed"
	"fmt"

	"github.com/fwojciec/labdoc"
	"github.com/goccy/go-yaml"
)

//go:embed schemas.yaml
var schemasYAML []byte

type file struct {
	Schemas []schema `yaml:"schemas"`
}

type schema struct {
	DocType string  `yaml:"docType"`
	Fields  []field `yaml:"fields"`
}

type field struct {
	Name     string    `yaml:"name"`
	Patterns []pattern `yaml:"patterns"`
	Examples []example `yaml:"examples"`
}

type pattern struct {
	Expr   string `yaml:"expr"`
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
}

type example struct {
	Text  string `yaml:"text"`
	Value string `yaml:"value"`
}

// Schemas returns the built-in schemas, including the unknown schema.
func Schemas() ([]*labdoc.DocumentSchema, error) {
	return Parse(schemasYAML)
}

// Parse decodes schemas from YAML and validates every pattern. The result
// always includes a schema for labdoc.DocTypeUnknown.
func Parse(data []byte) ([]*labdoc.DocumentSchema, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode seed schemas: %w", err)
	}

	seen := make(map[labdoc.DocType]bool, len(f.Schemas))
	schemas := make([]*labdoc.DocumentSchema, 0, len(f.Schemas)+1)
	for _, s := range f.Schemas {
		ds := &labdoc.DocumentSchema{DocType: labdoc.DocType(s.DocType), Fields: []labdoc.FieldRule{}}
		for _, fd := range s.Fields {
			rule := labdoc.FieldRule{Name: fd.Name}
			for _, p := range fd.Patterns {
				rule.Patterns = append(rule.Patterns, labdoc.Pattern(p))
			}
			for _, e := range fd.Examples {
				rule.Examples = append(rule.Examples, labdoc.Example(e))
			}
			ds.Fields = append(ds.Fields, rule)
		}
		if err := ds.Validate(); err != nil {
			return nil, fmt.Errorf("seed schema %q: %w", s.DocType, err)
		}
		if seen[ds.DocType] {
			return nil, labdoc.Errorf(labdoc.EINVALID, "duplicate seed schema %q", ds.DocType)
		}
		seen[ds.DocType] = true
		schemas = append(schemas, ds)
	}

	if !seen[labdoc.DocTypeUnknown] {
		schemas = append(schemas, &labdoc.DocumentSchema{DocType: labdoc.DocTypeUnknown, Fields: []labdoc.FieldRule{}})
	}
	return schemas, nil
}
