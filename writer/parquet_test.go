package writer

import (
	"testing"

	"macroflow/internal/table"
)

func TestMasterParquetRoundTrip(t *testing.T) {
	for _, compression := range []string{"snappy", "gzip", "uncompressed"} {
		t.Run(compression, func(t *testing.T) {
			tbl := sampleTable()
			data, err := EncodeMasterParquet(tbl, compression)
			if err != nil {
				t.Fatalf("EncodeMasterParquet: %v", err)
			}
			back, err := DecodeMasterParquet(data)
			if err != nil {
				t.Fatalf("DecodeMasterParquet: %v", err)
			}
			if !back.Equal(tbl) {
				t.Fatalf("round trip mismatch: columns %v dates %v", back.Columns(), back.Dates())
			}
		})
	}
}

func TestCSVAndParquetAgree(t *testing.T) {
	tbl := table.New()
	for i, v := range []float64{1, 2.5, 1e10} {
		tbl.Set("X", day("2021-01-01").AddDate(0, 0, i), v)
	}
	tbl.Set("Y", day("2021-06-30"), -3)

	data, err := EncodeMasterParquet(tbl, "snappy")
	if err != nil {
		t.Fatalf("EncodeMasterParquet: %v", err)
	}
	fromParquet, err := DecodeMasterParquet(data)
	if err != nil {
		t.Fatalf("DecodeMasterParquet: %v", err)
	}
	if !fromParquet.Equal(tbl) {
		t.Fatalf("parquet form differs from source table")
	}
	if d := toEpochDays(day("1970-01-02")); d != 1 {
		t.Fatalf("unexpected epoch days %d", d)
	}
	if got := fromEpochDays(18262); !got.Equal(day("2020-01-01")) {
		t.Fatalf("unexpected date %v", got)
	}
}
