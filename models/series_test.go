package models

import (
	"errors"
	"math"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSortObservationsDedupKeepsLast(t *testing.T) {
	in := []Observation{
		{Date: day("2020-01-03"), Value: 3},
		{Date: day("2020-01-01"), Value: 1},
		{Date: day("2020-01-03"), Value: 30},
		{Date: time.Date(2020, 1, 2, 15, 4, 5, 0, time.FixedZone("X", 3600)), Value: 2},
	}
	out := SortObservations(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if !out[i-1].Date.Before(out[i].Date) {
			t.Fatalf("dates not strictly increasing: %v", out)
		}
	}
	if out[2].Value != 30 {
		t.Errorf("expected last duplicate to win, got %v", out[2].Value)
	}
	if out[1].Date != day("2020-01-02") {
		t.Errorf("expected normalized date, got %v", out[1].Date)
	}
}

func TestSeriesSince(t *testing.T) {
	s := Series{Observations: []Observation{
		{Date: day("2020-01-01"), Value: 1},
		{Date: day("2020-02-01"), Value: 2},
		{Date: day("2020-03-01"), Value: 3},
	}}
	got := s.Since(day("2020-02-01"))
	if len(got) != 2 || got[0].Value != 2 {
		t.Fatalf("unexpected window: %v", got)
	}
	if got := s.Since(day("2021-01-01")); len(got) != 0 {
		t.Fatalf("expected empty window, got %v", got)
	}
}

func TestApplyStats(t *testing.T) {
	var r AuditRecord
	r.ApplyStats(Series{
		Observations: []Observation{
			{Date: day("2020-01-01"), Value: 1},
			{Date: day("2020-01-02"), Value: -2},
			{Date: day("2020-01-03"), Value: 4},
		},
		Nulls: 1,
	})
	if r.Observations != 3 || r.Nulls != 1 {
		t.Fatalf("unexpected counts: %+v", r)
	}
	if r.NullPct != 25 {
		t.Errorf("expected 25%% nulls, got %v", r.NullPct)
	}
	if math.Abs(r.Mean-1) > 1e-12 || r.Min != -2 || r.Max != 4 {
		t.Errorf("unexpected stats: mean=%v min=%v max=%v", r.Mean, r.Min, r.Max)
	}
	if r.FirstDate != day("2020-01-01") || r.LastDate != day("2020-01-03") {
		t.Errorf("unexpected window: %v..%v", r.FirstDate, r.LastDate)
	}
}

func TestApplyStatsEmpty(t *testing.T) {
	var r AuditRecord
	r.ApplyStats(Series{})
	if r.HasStats() || r.NullPct != 0 || !r.FirstDate.IsZero() {
		t.Fatalf("expected no stats for empty series: %+v", r)
	}
}

func TestDefinitionValidate(t *testing.T) {
	valid := VariableDefinition{
		Code:           "US_VIX",
		Provider:       ProviderFRED,
		NativeID:       "VIXCLS",
		Frequency:      Daily,
		Transformation: TransformMomentumInverted,
		Category:       CategoryMarketRisk,
		Classes:        []ClassTag{TagAll},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !valid.IsGlobal() {
		t.Errorf("expected global definition")
	}

	tests := map[string]func(d *VariableDefinition){
		"empty code":      func(d *VariableDefinition) { d.Code = " " },
		"empty native id": func(d *VariableDefinition) { d.NativeID = "" },
		"bad provider":    func(d *VariableDefinition) { d.Provider = "Yahoo" },
		"bad frequency":   func(d *VariableDefinition) { d.Frequency = "H" },
		"bad transform":   func(d *VariableDefinition) { d.Transformation = "" },
		"no classes":      func(d *VariableDefinition) { d.Classes = nil },
		"empty class":     func(d *VariableDefinition) { d.Classes = []ClassTag{""} },
	}
	for name, mutate := range tests {
		d := valid
		mutate(&d)
		err := d.Validate()
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s: expected ConfigurationError, got %v", name, err)
		}
	}
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("worldbank")
	if err != nil || p != ProviderWorldBank {
		t.Fatalf("unexpected result %q, %v", p, err)
	}
	if _, err := ParseProvider("yahoo"); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
