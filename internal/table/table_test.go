package table

import (
	"testing"
	"time"

	"macroflow/models"
)

func day(s string) time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func obs(pairs ...interface{}) []models.Observation {
	var out []models.Observation
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, models.Observation{Date: day(pairs[i].(string)), Value: pairs[i+1].(float64)})
	}
	return out
}

func TestOuterJoin(t *testing.T) {
	tbl := New()
	tbl.SetSeries("A", obs("2020-01-02", 1.0, "2020-01-01", 0.5))
	tbl.SetSeries("B", obs("2020-02-01", 10.0, "2020-01-01", 9.0))

	if tbl.Len() != 3 {
		t.Fatalf("expected 3 dates, got %d", tbl.Len())
	}
	dates := tbl.Dates()
	if !dates[0].Equal(day("2020-01-01")) || !dates[2].Equal(day("2020-02-01")) {
		t.Fatalf("dates not sorted: %v", dates)
	}
	if _, ok := tbl.Value("A", day("2020-02-01")); ok {
		t.Fatalf("A must be absent on 2020-02-01")
	}
	if v, ok := tbl.Value("B", day("2020-01-01")); !ok || v != 9 {
		t.Fatalf("unexpected B value %v %v", v, ok)
	}
	if cols := tbl.Columns(); len(cols) != 2 || cols[0] != "A" || cols[1] != "B" {
		t.Fatalf("unexpected columns %v", cols)
	}
}

func TestUpsertOverwritesOverlapOnly(t *testing.T) {
	tbl := New()
	tbl.SetSeries("A", obs("2020-01-01", 1.0, "2020-01-02", 2.0, "2020-01-03", 3.0))
	tbl.Upsert("A", obs("2020-01-03", 3.5, "2020-01-04", 4.0))

	want := obs("2020-01-01", 1.0, "2020-01-02", 2.0, "2020-01-03", 3.5, "2020-01-04", 4.0)
	got := tbl.Column("A")
	if len(got) != len(want) {
		t.Fatalf("expected %d observations, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Date.Equal(want[i].Date) || got[i].Value != want[i].Value {
			t.Errorf("row %d: got %+v want %+v", i, got[i], want[i])
		}
	}
	if last, ok := tbl.LastDate("A"); !ok || !last.Equal(day("2020-01-04")) {
		t.Fatalf("unexpected last date %v", last)
	}
}

func TestLastDateIgnoresOtherColumns(t *testing.T) {
	tbl := New()
	tbl.SetSeries("A", obs("2020-01-01", 1.0))
	tbl.SetSeries("B", obs("2020-06-01", 1.0))
	tbl.AddColumn("C")

	if last, _ := tbl.LastDate("A"); !last.Equal(day("2020-01-01")) {
		t.Fatalf("unexpected last date %v", last)
	}
	if _, ok := tbl.LastDate("C"); ok {
		t.Fatalf("empty column has no last date")
	}
	if _, ok := tbl.LastDate("missing"); ok {
		t.Fatalf("missing column has no last date")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tbl := New()
	tbl.SetSeries("A", obs("2020-01-01", 1.0))
	c := tbl.Clone()
	if !c.Equal(tbl) {
		t.Fatalf("clone differs")
	}
	c.Set("A", day("2020-01-02"), 2)
	c.Set("B", day("2020-01-01"), 3)
	if tbl.Len() != 1 || tbl.HasColumn("B") {
		t.Fatalf("clone mutation leaked into original")
	}
	if c.Equal(tbl) {
		t.Fatalf("tables should differ after mutation")
	}
}

func TestEqualChecksColumnOrder(t *testing.T) {
	a, b := New(), New()
	a.AddColumn("X")
	a.AddColumn("Y")
	b.AddColumn("Y")
	b.AddColumn("X")
	if a.Equal(b) {
		t.Fatalf("column order must matter")
	}
}

func TestSetSeriesReplacesColumn(t *testing.T) {
	tbl := New()
	tbl.SetSeries("A", obs("2020-01-01", 1.0, "2020-01-02", 2.0))
	tbl.SetSeries("A", obs("2020-01-02", 5.0))
	if _, ok := tbl.Value("A", day("2020-01-01")); ok {
		t.Fatalf("SetSeries should drop old cells")
	}
	if len(tbl.Columns()) != 1 {
		t.Fatalf("column duplicated: %v", tbl.Columns())
	}
}
