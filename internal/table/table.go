// Package table holds the date indexed master table that downloads are merged
// into.
package table

import (
	"math"
	"sort"
	"time"

	"macroflow/models"
)

// MasterTable is keyed by date with one column per series code. A cell that
// was never written is absent, never zero. Columns keep insertion order and
// the date index is kept sorted.
type MasterTable struct {
	dates   []time.Time
	dateSet map[int64]struct{}
	columns []string
	cells   map[string]map[int64]float64
}

func New() *MasterTable {
	return &MasterTable{
		dateSet: make(map[int64]struct{}),
		cells:   make(map[string]map[int64]float64),
	}
}

func key(d time.Time) int64 { return models.NormalizeDate(d).Unix() }

func (t *MasterTable) addDate(d time.Time) int64 {
	d = models.NormalizeDate(d)
	k := d.Unix()
	if _, ok := t.dateSet[k]; ok {
		return k
	}
	t.dateSet[k] = struct{}{}
	i := sort.Search(len(t.dates), func(i int) bool { return t.dates[i].After(d) })
	t.dates = append(t.dates, time.Time{})
	copy(t.dates[i+1:], t.dates[i:])
	t.dates[i] = d
	return k
}

// AddColumn declares a column without values. It is a no-op for a known code.
func (t *MasterTable) AddColumn(code string) {
	if _, ok := t.cells[code]; ok {
		return
	}
	t.columns = append(t.columns, code)
	t.cells[code] = make(map[int64]float64)
}

// AddDate adds a row to the date index without writing any cell.
func (t *MasterTable) AddDate(d time.Time) { t.addDate(d) }

// Set writes a single cell, creating the column and date as needed.
func (t *MasterTable) Set(code string, d time.Time, v float64) {
	t.AddColumn(code)
	t.cells[code][t.addDate(d)] = v
}

// SetSeries replaces the whole column with obs.
func (t *MasterTable) SetSeries(code string, obs []models.Observation) {
	t.AddColumn(code)
	t.cells[code] = make(map[int64]float64, len(obs))
	for _, o := range obs {
		t.cells[code][t.addDate(o.Date)] = o.Value
	}
}

// Upsert writes obs on top of the column. Cells outside obs are kept and
// cells on the same dates are overwritten.
func (t *MasterTable) Upsert(code string, obs []models.Observation) {
	t.AddColumn(code)
	col := t.cells[code]
	for _, o := range obs {
		col[t.addDate(o.Date)] = o.Value
	}
}

func (t *MasterTable) HasColumn(code string) bool {
	_, ok := t.cells[code]
	return ok
}

// Columns returns the column codes in insertion order.
func (t *MasterTable) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Dates returns the sorted date index.
func (t *MasterTable) Dates() []time.Time {
	return append([]time.Time(nil), t.dates...)
}

// Len is the number of rows.
func (t *MasterTable) Len() int { return len(t.dates) }

// Value returns the cell at (code, d) and whether it is present.
func (t *MasterTable) Value(code string, d time.Time) (float64, bool) {
	col, ok := t.cells[code]
	if !ok {
		return 0, false
	}
	v, ok := col[key(d)]
	return v, ok
}

// Column returns the present cells of code in date order.
func (t *MasterTable) Column(code string) []models.Observation {
	col, ok := t.cells[code]
	if !ok {
		return nil
	}
	out := make([]models.Observation, 0, len(col))
	for _, d := range t.dates {
		if v, ok := col[d.Unix()]; ok {
			out = append(out, models.Observation{Date: d, Value: v})
		}
	}
	return out
}

// LastDate returns the latest date with a value in column code.
func (t *MasterTable) LastDate(code string) (time.Time, bool) {
	col, ok := t.cells[code]
	if !ok || len(col) == 0 {
		return time.Time{}, false
	}
	for i := len(t.dates) - 1; i >= 0; i-- {
		if _, ok := col[t.dates[i].Unix()]; ok {
			return t.dates[i], true
		}
	}
	return time.Time{}, false
}

// Clone returns a deep copy.
func (t *MasterTable) Clone() *MasterTable {
	c := New()
	c.dates = append(c.dates, t.dates...)
	for k := range t.dateSet {
		c.dateSet[k] = struct{}{}
	}
	c.columns = append(c.columns, t.columns...)
	for code, col := range t.cells {
		cc := make(map[int64]float64, len(col))
		for k, v := range col {
			cc[k] = v
		}
		c.cells[code] = cc
	}
	return c
}

// Equal reports whether both tables have the same columns in the same
// order, the same date index and the same present cells.
func (t *MasterTable) Equal(o *MasterTable) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.columns) != len(o.columns) || len(t.dates) != len(o.dates) {
		return false
	}
	for i := range t.columns {
		if t.columns[i] != o.columns[i] {
			return false
		}
	}
	for i := range t.dates {
		if !t.dates[i].Equal(o.dates[i]) {
			return false
		}
	}
	for code, col := range t.cells {
		other := o.cells[code]
		if len(col) != len(other) {
			return false
		}
		for k, v := range col {
			ov, ok := other[k]
			if !ok || !sameFloat(v, ov) {
				return false
			}
		}
	}
	return true
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
