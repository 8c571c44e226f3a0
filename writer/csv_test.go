package writer

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"macroflow/internal/table"
	"macroflow/mapping"
	"macroflow/models"
)

func day(s string) time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// sampleTable has an empty column, a date without values and awkward floats.
func sampleTable() *table.MasterTable {
	tbl := table.New()
	tbl.Set("A", day("2020-01-01"), 0.1+0.2)
	tbl.Set("A", day("2020-01-02"), -1.5e-300)
	tbl.Set("B", day("2020-02-01"), math.MaxFloat64)
	tbl.Set("B", day("2020-01-01"), 1234567.891011)
	tbl.AddColumn("EMPTY")
	tbl.AddDate(day("2019-12-31"))
	return tbl
}

func readAll(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return rows
}

func TestMasterCSVRoundTrip(t *testing.T) {
	for _, bom := range []bool{true, false} {
		tbl := sampleTable()
		var buf bytes.Buffer
		if err := WriteMasterCSV(&buf, tbl, bom); err != nil {
			t.Fatalf("WriteMasterCSV: %v", err)
		}
		if got := bytes.HasPrefix(buf.Bytes(), utf8BOM); got != bom {
			t.Fatalf("bom=%v but prefix present=%v", bom, got)
		}
		back, err := ReadMasterCSV(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("ReadMasterCSV: %v", err)
		}
		if !back.Equal(tbl) {
			t.Fatalf("round trip mismatch (bom=%v):\n%s", bom, buf.String())
		}
	}
}

func TestMasterCSVLayout(t *testing.T) {
	tbl := table.New()
	tbl.Set("A", day("2020-01-01"), 1.5)
	tbl.Set("B", day("2020-01-02"), 2)

	var buf bytes.Buffer
	if err := WriteMasterCSV(&buf, tbl, false); err != nil {
		t.Fatalf("WriteMasterCSV: %v", err)
	}
	want := "date,A,B\n2020-01-01,1.5,\n2020-01-02,,2\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestReadMasterCSVErrors(t *testing.T) {
	tests := map[string]string{
		"empty":     "",
		"no date":   "day,A\n",
		"bad date":  "date,A\n2020/01/01,1\n",
		"bad value": "date,A\n2020-01-01,abc\n",
		"duplicate": "date,A,A\n",
		"ragged":    "date,A\n2020-01-01,1,2\n",
	}
	for name, in := range tests {
		if _, err := ReadMasterCSV(strings.NewReader(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestWriteCatalog(t *testing.T) {
	defs := []models.VariableDefinition{{
		Code: "US_VIX", Name: "VIX", Description: "vol, implied", Provider: models.ProviderFRED, NativeID: "VIXCLS",
		Frequency: models.Daily, Unit: "Index", Transformation: models.TransformMomentumInverted,
		Relevance: "fear", Category: models.CategoryMarketRisk,
		Classes: []models.ClassTag{models.TagAll, models.TagEquityUSA},
	}}
	var buf bytes.Buffer
	if err := WriteCatalog(&buf, defs, true); err != nil {
		t.Fatalf("WriteCatalog: %v", err)
	}
	rows := readAll(t, buf.Bytes())
	if diff := cmp.Diff(catalogHeader, rows[0]); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	want := []string{"US_VIX", "VIX", "vol, implied", "FRED", "VIXCLS", "D", "Index", "momentum_inverted", "fear",
		"market_risk", "all;" + string(models.TagEquityUSA)}
	if diff := cmp.Diff(want, rows[1]); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteMapping(t *testing.T) {
	recs := []mapping.Record{
		{Instrument: models.Instrument{Ticker: "SPY", Name: "S&P", AssetType: "Equities", Geography: "USA", Currency: "USD"},
			Codes: []string{"US_SP500", "US_VIX"}},
		{Instrument: models.Instrument{Ticker: "GOLD", AssetType: "Alternatives"}, Codes: []string{}},
	}
	var buf bytes.Buffer
	if err := WriteMapping(&buf, recs, false); err != nil {
		t.Fatalf("WriteMapping: %v", err)
	}
	rows := readAll(t, buf.Bytes())
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if rows[1][6] != "US_SP500;US_VIX" || rows[1][7] != "2" {
		t.Fatalf("unexpected row %v", rows[1])
	}
	if rows[2][6] != "" || rows[2][7] != "0" {
		t.Fatalf("unmapped instrument should have no codes: %v", rows[2])
	}
}

func TestWriteAuditIncludesFailures(t *testing.T) {
	ok := models.AuditRecord{RunID: "r1", Code: "A", Provider: models.ProviderFRED, Status: models.AuditSucceeded,
		FetchedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), Mode: models.FetchFull, Attempts: 1}
	ok.ApplyStats(models.Series{Observations: []models.Observation{
		{Date: day("2020-01-01"), Value: 1}, {Date: day("2020-01-02"), Value: 3},
	}, Nulls: 2})
	failed := models.AuditRecord{RunID: "r1", Code: "B", Provider: models.ProviderECB, Status: models.AuditFailed,
		Cause: "series not found", Mode: models.FetchFull, Attempts: 1}

	var buf bytes.Buffer
	if err := WriteAudit(&buf, []models.AuditRecord{ok, failed}, false); err != nil {
		t.Fatalf("WriteAudit: %v", err)
	}
	rows := readAll(t, buf.Bytes())
	if len(rows) != 3 {
		t.Fatalf("expected 2 audit rows, got %d", len(rows)-1)
	}
	get := func(row []string, col string) string {
		for i, h := range auditHeader {
			if h == col {
				return row[i]
			}
		}
		t.Fatalf("unknown column %s", col)
		return ""
	}
	if get(rows[1], "fetched_at") != "2024-01-02T03:04:05Z" || get(rows[1], "first_date") != "2020-01-01" {
		t.Errorf("unexpected success row %v", rows[1])
	}
	if get(rows[1], "null_pct") != "50.00" || get(rows[1], "mean") != "2" || get(rows[1], "max") != "3" {
		t.Errorf("unexpected stats %v", rows[1])
	}
	if get(rows[2], "status") != "failed" || get(rows[2], "cause") != "series not found" || get(rows[2], "mean") != "" {
		t.Errorf("unexpected failure row %v", rows[2])
	}
}
