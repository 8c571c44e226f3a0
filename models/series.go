package models

import (
	"sort"
	"time"
)

// DateLayout is the canonical text form of an observation date.
const DateLayout = "2006-01-02"

// Observation is a single dated value.
type Observation struct {
	Date  time.Time
	Value float64
}

// Series is the normalized output of a provider fetch.
type Series struct {
	Code         string
	Observations []Observation
	// Nulls counts provider rows that carried no value.
	Nulls int
}

// NormalizeDate truncates t to a calendar date at UTC midnight.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(t), nil
}

// SortObservations orders observations by date and collapses duplicate
// dates, keeping the value that came last in the provider response.
func SortObservations(obs []Observation) []Observation {
	out := make([]Observation, len(obs))
	for i, o := range obs {
		out[i] = Observation{Date: NormalizeDate(o.Date), Value: o.Value}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	dedup := out[:0]
	for _, o := range out {
		if n := len(dedup); n > 0 && dedup[n-1].Date.Equal(o.Date) {
			dedup[n-1] = o
			continue
		}
		dedup = append(dedup, o)
	}
	return dedup
}

// Since returns the observations dated on or after from.
func (s Series) Since(from time.Time) []Observation {
	from = NormalizeDate(from)
	i := sort.Search(len(s.Observations), func(i int) bool {
		return !s.Observations[i].Date.Before(from)
	})
	return s.Observations[i:]
}
