// Package areacode maps a requested area code to geographically nearby
// alternatives for phone number purchase.
package areacode

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed proximity.yaml
var defaultTable []byte

const tableVersion = 1

type region struct {
	Name  string              `yaml:"name"`
	Codes map[string][]string `yaml:"codes"`
}

type country struct {
	Name    string   `yaml:"name"`
	Regions []region `yaml:"regions"`
}

type table struct {
	Version   int       `yaml:"version"`
	Fallback  []string  `yaml:"fallback"`
	Countries []country `yaml:"countries"`
}

// Match is the table entry a code was found in.
type Match struct {
	Country string
	Region  string
	Nearby  []string
}

// Resolver is safe for concurrent use; the table is read-only after load.
type Resolver struct {
	t table
}

// NewResolver loads the embedded proximity table. It panics if the embedded
// data is malformed, which can only happen at build time.
func NewResolver() *Resolver {
	r, err := NewResolverFromYAML(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("areacode: embedded proximity table: %v", err))
	}
	return r
}

// NewResolverFromYAML builds a resolver from a custom table.
func NewResolverFromYAML(data []byte) (*Resolver, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse proximity table: %w", err)
	}
	if t.Version != tableVersion {
		return nil, fmt.Errorf("unsupported proximity table version %d", t.Version)
	}
	if len(t.Fallback) == 0 {
		return nil, errors.New("proximity table has no fallback codes")
	}
	return &Resolver{t: t}, nil
}

// Lookup returns the first country/region holding code.
func (r *Resolver) Lookup(code string) (Match, bool) {
	for _, c := range r.t.Countries {
		for _, reg := range c.Regions {
			if nearby, ok := reg.Codes[code]; ok {
				return Match{Country: c.Name, Region: reg.Name, Nearby: slices.Clone(nearby)}, true
			}
		}
	}
	return Match{}, false
}

// Resolve returns the ordered nearby codes for code, never including code
// itself. Unknown codes get the generic fallback list.
func (r *Resolver) Resolve(code string) []string {
	src := r.t.Fallback
	if m, ok := r.Lookup(code); ok {
		src = m.Nearby
	}
	out := make([]string, 0, len(src))
	for _, c := range src {
		if c != code {
			out = append(out, c)
		}
	}
	return out
}

// Candidates is the purchase order: the requested code first, then Resolve.
func (r *Resolver) Candidates(code string) []string {
	return append([]string{code}, r.Resolve(code)...)
}

// Fallback returns a copy of the generic list used for unknown codes.
func (r *Resolver) Fallback() []string {
	return slices.Clone(r.t.Fallback)
}
