package models

import (
	"fmt"
	"strings"
)

// Provider identifies an external data source.
type Provider string

const (
	ProviderFRED      Provider = "FRED"
	ProviderECB       Provider = "ECB"
	ProviderOECD      Provider = "OECD"
	ProviderWorldBank Provider = "WorldBank"
)

var knownProviders = map[Provider]struct{}{
	ProviderFRED:      {},
	ProviderECB:       {},
	ProviderOECD:      {},
	ProviderWorldBank: {},
}

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	_, ok := knownProviders[p]
	return ok
}

// ParseProvider resolves a provider name case-insensitively.
func ParseProvider(s string) (Provider, error) {
	for p := range knownProviders {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// Frequency is the native sampling frequency of a series.
type Frequency string

const (
	Daily     Frequency = "D"
	Weekly    Frequency = "W"
	Monthly   Frequency = "M"
	Quarterly Frequency = "Q"
	Annual    Frequency = "A"
)

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Quarterly, Annual:
		return true
	}
	return false
}

// Transformation is a hint for downstream consumers. The core never applies it.
type Transformation string

const (
	TransformNone             Transformation = "none"
	TransformMomentum         Transformation = "momentum"
	TransformMomentumInverted Transformation = "momentum_inverted"
	TransformYoYPercent       Transformation = "yoy_pct"
	TransformMonthOverMonth   Transformation = "mom_change"
)

func (t Transformation) Valid() bool {
	switch t {
	case TransformNone, TransformMomentum, TransformMomentumInverted, TransformYoYPercent, TransformMonthOverMonth:
		return true
	}
	return false
}

// Category orders mapping output: market risk first, then macro, then FX.
type Category int

const (
	CategoryMarketRisk Category = iota
	CategoryMacro
	CategoryFX
)

func (c Category) String() string {
	switch c {
	case CategoryMarketRisk:
		return "market_risk"
	case CategoryMacro:
		return "macro"
	case CategoryFX:
		return "fx"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

func (c Category) Valid() bool {
	return c >= CategoryMarketRisk && c <= CategoryFX
}

// VariableDefinition describes one cataloged series.
type VariableDefinition struct {
	Code           string
	Name           string
	Description    string
	Provider       Provider
	NativeID       string
	Frequency      Frequency
	Unit           string
	Transformation Transformation
	Relevance      string
	Category       Category
	Classes        []ClassTag
}

// IsGlobal reports whether the definition applies to every instrument.
func (d VariableDefinition) IsGlobal() bool {
	for _, t := range d.Classes {
		if t == TagAll {
			return true
		}
	}
	return false
}

// Validate checks the definition in isolation. Uniqueness across a catalog
// is checked by the catalog itself.
func (d VariableDefinition) Validate() error {
	switch {
	case strings.TrimSpace(d.Code) == "":
		return &ConfigurationError{Field: "code", Reason: "must not be empty"}
	case strings.TrimSpace(d.NativeID) == "":
		return &ConfigurationError{Code: d.Code, Field: "native_id", Reason: "must not be empty"}
	case !d.Provider.Valid():
		return &ConfigurationError{Code: d.Code, Field: "provider", Reason: fmt.Sprintf("unknown provider %q", d.Provider)}
	case !d.Frequency.Valid():
		return &ConfigurationError{Code: d.Code, Field: "frequency", Reason: fmt.Sprintf("unknown frequency %q", d.Frequency)}
	case !d.Transformation.Valid():
		return &ConfigurationError{Code: d.Code, Field: "transformation", Reason: fmt.Sprintf("unknown transformation %q", d.Transformation)}
	case !d.Category.Valid():
		return &ConfigurationError{Code: d.Code, Field: "category", Reason: fmt.Sprintf("unknown category %d", d.Category)}
	case len(d.Classes) == 0:
		return &ConfigurationError{Code: d.Code, Field: "classes", Reason: "at least one applicable class is required"}
	}
	for _, t := range d.Classes {
		if t == "" {
			return &ConfigurationError{Code: d.Code, Field: "classes", Reason: "empty class tag"}
		}
	}
	return nil
}
