package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"macroflow/models"
)

// Universe is the instrument list consumed by the mapping engine.
type Universe struct {
	Instruments []models.Instrument `yaml:"instruments"`
}

// LoadUniverse loads the instrument universe from the given path. Tickers
// must be present and unique.
func LoadUniverse(path string) (*Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read universe file: %w", err)
	}
	var u Universe
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("failed to parse universe file: %w", err)
	}

	seen := make(map[string]struct{}, len(u.Instruments))
	for i := range u.Instruments {
		inst := &u.Instruments[i]
		inst.Ticker = strings.TrimSpace(inst.Ticker)
		if inst.Ticker == "" {
			return nil, fmt.Errorf("universe entry %d has no ticker", i)
		}
		if _, dup := seen[inst.Ticker]; dup {
			return nil, fmt.Errorf("universe ticker %s is duplicated", inst.Ticker)
		}
		seen[inst.Ticker] = struct{}{}
	}
	return &u, nil
}
