package catalog

import (
	"errors"
	"fmt"

	"macroflow/logger"
	"macroflow/models"
)

// ErrNotFound is returned by lookups against an empty catalog or for an
// unknown code.
var ErrNotFound = errors.New("catalog: not found")

// Catalog is an immutable, ordered registry of variable definitions. It is
// built once per process and shared read-only afterwards.
type Catalog struct {
	defs  []models.VariableDefinition
	index map[string]int
}

// New validates defs and builds a catalog preserving their order.
func New(defs []models.VariableDefinition) (*Catalog, error) {
	c := &Catalog{
		defs:  make([]models.VariableDefinition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[d.Code]; dup {
			return nil, &models.ConfigurationError{Code: d.Code, Field: "code", Reason: "is not unique"}
		}
		d.Classes = append([]models.ClassTag(nil), d.Classes...)
		c.index[d.Code] = len(c.defs)
		c.defs = append(c.defs, d)
	}

	logger.GetLogger().WithComponent("catalog").WithFields(logger.Fields{
		"definitions": len(c.defs),
	}).Debug("catalog built")
	return c, nil
}

// Len returns the number of definitions.
func (c *Catalog) Len() int { return len(c.defs) }

// ListDefinitions returns the definitions in construction order.
func (c *Catalog) ListDefinitions() []models.VariableDefinition {
	out := make([]models.VariableDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Codes returns every code in construction order.
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.defs))
	for i, d := range c.defs {
		out[i] = d.Code
	}
	return out
}

// Lookup returns the definition for code.
func (c *Catalog) Lookup(code string) (models.VariableDefinition, error) {
	i, ok := c.index[code]
	if !ok {
		return models.VariableDefinition{}, fmt.Errorf("definition %s: %w", code, ErrNotFound)
	}
	return c.defs[i], nil
}

// Contains reports whether code is cataloged.
func (c *Catalog) Contains(code string) bool {
	_, ok := c.index[code]
	return ok
}

// DefinitionsForClassTag returns the definitions that declare tag. Global
// definitions are only returned for TagAll. An unmatched tag yields an empty
// slice; only an empty catalog is an error.
func (c *Catalog) DefinitionsForClassTag(tag models.ClassTag) ([]models.VariableDefinition, error) {
	if len(c.defs) == 0 {
		return nil, fmt.Errorf("class tag %s: %w", tag, ErrNotFound)
	}
	out := []models.VariableDefinition{}
	for _, d := range c.defs {
		for _, t := range d.Classes {
			if t == tag {
				out = append(out, d)
				break
			}
		}
	}
	return out, nil
}

// ByProvider returns the definitions served by p.
func (c *Catalog) ByProvider(p models.Provider) []models.VariableDefinition {
	var out []models.VariableDefinition
	for _, d := range c.defs {
		if d.Provider == p {
			out = append(out, d)
		}
	}
	return out
}

// Providers returns the distinct providers in first-seen order.
func (c *Catalog) Providers() []models.Provider {
	seen := make(map[models.Provider]struct{})
	var out []models.Provider
	for _, d := range c.defs {
		if _, ok := seen[d.Provider]; ok {
			continue
		}
		seen[d.Provider] = struct{}{}
		out = append(out, d.Provider)
	}
	return out
}

// Summary counts definitions per category and per provider.
type Summary struct {
	Total      int
	ByCategory map[models.Category]int
	ByProvider map[models.Provider]int
}

func (c *Catalog) Summary() Summary {
	s := Summary{
		Total:      len(c.defs),
		ByCategory: make(map[models.Category]int),
		ByProvider: make(map[models.Provider]int),
	}
	for _, d := range c.defs {
		s.ByCategory[d.Category]++
		s.ByProvider[d.Provider]++
	}
	return s
}
