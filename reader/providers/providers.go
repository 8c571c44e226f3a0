// Package providers wires the built-in adapters into a registry.
package providers

import (
	"macroflow/models"
	"macroflow/reader"
	"macroflow/reader/ecb"
	"macroflow/reader/fred"
	"macroflow/reader/worldbank"
)

// Default returns a registry holding the FRED, ECB and World Bank adapters.
// OECD has no adapter; its definitions fail with reader.ErrNoAdapter.
func Default() *reader.Registry {
	r := reader.NewRegistry()
	r.Register(models.ProviderFRED, true, fred.New)
	r.Register(models.ProviderECB, false, ecb.New)
	r.Register(models.ProviderWorldBank, false, worldbank.New)
	return r
}
