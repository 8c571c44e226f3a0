package mapping

import (
	"errors"
	"fmt"
	"sort"

	"macroflow/catalog"
	"macroflow/logger"
	"macroflow/models"
)

// ErrMappingUnmatched is wrapped by UnmappedInstrumentWarning.
var ErrMappingUnmatched = errors.New("mapping: instrument matched no classification")

// UnmappedInstrumentWarning is a recoverable warning for an instrument whose
// tags matched no definition. The caller decides whether it is fatal.
type UnmappedInstrumentWarning struct {
	Ticker string
	Tags   []models.ClassTag
}

func (w *UnmappedInstrumentWarning) Error() string {
	return fmt.Sprintf("instrument %s (tags %v): %v", w.Ticker, w.Tags, ErrMappingUnmatched)
}

func (w *UnmappedInstrumentWarning) Unwrap() error { return ErrMappingUnmatched }

// Record is the instrument to variable assignment. Codes are ordered by
// category, then code.
type Record struct {
	Instrument models.Instrument
	Tags       []models.ClassTag
	Codes      []string
}

// Engine assigns catalog definitions to instruments.
type Engine struct {
	catalog *catalog.Catalog
	log     *logger.Log
}

func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{catalog: cat, log: logger.GetLogger()}
}

// MapInstrument selects every definition sharing at least one tag with the
// instrument, plus the global definitions, which every instrument gets. When
// no non-global definition matches, the record holds only the globals and an
// *UnmappedInstrumentWarning is returned.
func (e *Engine) MapInstrument(inst models.Instrument) (Record, error) {
	tags := Classify(inst).Tags()
	rec := Record{Instrument: inst, Tags: tags, Codes: []string{}}

	have := make(map[models.ClassTag]struct{}, len(tags))
	for _, t := range tags {
		have[t] = struct{}{}
	}

	var matched, global []models.VariableDefinition
	for _, d := range e.catalog.ListDefinitions() {
		if d.IsGlobal() {
			global = append(global, d)
			continue
		}
		for _, t := range d.Classes {
			if _, ok := have[t]; ok {
				matched = append(matched, d)
				break
			}
		}
	}

	selected := append(matched, global...)
	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Category != selected[j].Category {
			return selected[i].Category < selected[j].Category
		}
		return selected[i].Code < selected[j].Code
	})
	for _, d := range selected {
		rec.Codes = append(rec.Codes, d.Code)
	}

	if len(matched) == 0 {
		e.log.WithComponent("mapping").WithFields(logger.Fields{
			"ticker":     inst.Ticker,
			"asset_type": inst.AssetType,
			"geography":  inst.Geography,
			"currency":   inst.Currency,
			"globals":    len(global),
		}).Warn("instrument matched no classification")
		return rec, &UnmappedInstrumentWarning{Ticker: inst.Ticker, Tags: tags}
	}
	return rec, nil
}

// MapUniverse maps every instrument in order. Warnings are collected and
// never stop the loop.
func (e *Engine) MapUniverse(instruments []models.Instrument) ([]Record, []error) {
	records := make([]Record, 0, len(instruments))
	var warnings []error
	for _, inst := range instruments {
		rec, err := e.MapInstrument(inst)
		if err != nil {
			warnings = append(warnings, err)
		}
		records = append(records, rec)
	}

	e.log.WithComponent("mapping").WithFields(logger.Fields{
		"instruments": len(instruments),
		"unmapped":    len(warnings),
	}).Info("universe mapped")
	return records, warnings
}
