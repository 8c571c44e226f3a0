package writer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"macroflow/internal/table"
	"macroflow/mapping"
	"macroflow/models"
)

// utf8BOM makes spreadsheet tools detect UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const listSeparator = ";"

var (
	catalogHeader = []string{"code", "name", "description", "provider", "native_id", "frequency", "unit",
		"transformation", "relevance", "category", "applicable_classes"}
	mappingHeader = []string{"ticker", "name", "asset_type", "geography", "currency", "classification_L1",
		"variable_codes", "variable_count"}
	auditHeader = []string{"run_id", "code", "name", "provider", "native_id", "fetched_at", "mode", "since",
		"attempts", "status", "cause", "first_date", "last_date", "observations", "nulls", "null_pct",
		"mean", "min", "max"}
)

func writeCSV(w io.Writer, bom bool, header []string, rows [][]string) error {
	if bom {
		if _, err := w.Write(utf8BOM); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(models.DateLayout)
}

// WriteCatalog writes one row per definition.
func WriteCatalog(w io.Writer, defs []models.VariableDefinition, bom bool) error {
	rows := make([][]string, 0, len(defs))
	for _, d := range defs {
		classes := make([]string, len(d.Classes))
		for i, c := range d.Classes {
			classes[i] = string(c)
		}
		rows = append(rows, []string{
			d.Code, d.Name, d.Description, string(d.Provider), d.NativeID, string(d.Frequency), d.Unit,
			string(d.Transformation), d.Relevance, d.Category.String(), strings.Join(classes, listSeparator),
		})
	}
	return writeCSV(w, bom, catalogHeader, rows)
}

// WriteMapping writes one row per instrument.
func WriteMapping(w io.Writer, records []mapping.Record, bom bool) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		inst := r.Instrument
		rows = append(rows, []string{
			inst.Ticker, inst.Name, inst.AssetType, inst.Geography, inst.Currency, inst.ClassificationL1,
			strings.Join(r.Codes, listSeparator), strconv.Itoa(len(r.Codes)),
		})
	}
	return writeCSV(w, bom, mappingHeader, rows)
}

// WriteAudit writes one row per audit record. Statistics are left empty for
// records without observations.
func WriteAudit(w io.Writer, records []models.AuditRecord, bom bool) error {
	rows := make([][]string, 0, len(records))
	for _, a := range records {
		row := []string{
			a.RunID, a.Code, a.Name, string(a.Provider), a.NativeID, a.FetchedAt.UTC().Format(time.RFC3339),
			string(a.Mode), formatDate(a.Since), strconv.Itoa(a.Attempts), string(a.Status), a.Cause,
			formatDate(a.FirstDate), formatDate(a.LastDate), strconv.Itoa(a.Observations), strconv.Itoa(a.Nulls),
		}
		if a.Observations+a.Nulls > 0 {
			row = append(row, strconv.FormatFloat(a.NullPct, 'f', 2, 64))
		} else {
			row = append(row, "")
		}
		if a.HasStats() {
			row = append(row, formatFloat(a.Mean), formatFloat(a.Min), formatFloat(a.Max))
		} else {
			row = append(row, "", "", "")
		}
		rows = append(rows, row)
	}
	return writeCSV(w, bom, auditHeader, rows)
}

// WriteMasterCSV writes the table as "date,<code>...". Absent cells are
// empty and floats use the shortest representation that parses back to the
// same value.
func WriteMasterCSV(w io.Writer, tbl *table.MasterTable, bom bool) error {
	cols := tbl.Columns()
	header := append([]string{"date"}, cols...)
	rows := make([][]string, 0, tbl.Len())
	for _, d := range tbl.Dates() {
		row := make([]string, 0, len(header))
		row = append(row, d.Format(models.DateLayout))
		for _, c := range cols {
			if v, ok := tbl.Value(c, d); ok {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return writeCSV(w, bom, header, rows)
}

// ReadMasterCSV parses the output of WriteMasterCSV. A leading BOM is
// ignored.
func ReadMasterCSV(r io.Reader) (*table.MasterTable, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("master csv: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("master csv: read header: %w", err)
	}
	if len(header) == 0 || header[0] != "date" {
		return nil, fmt.Errorf("master csv: first column must be date, got %v", header)
	}

	tbl := table.New()
	cols := header[1:]
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("master csv: duplicate column %s", c)
		}
		seen[c] = struct{}{}
		tbl.AddColumn(c)
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("master csv: line %d: %w", line, err)
		}
		d, err := models.ParseDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("master csv: line %d: bad date %q: %w", line, rec[0], err)
		}
		tbl.AddDate(d)
		for i, raw := range rec[1:] {
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("master csv: line %d column %s: %w", line, cols[i], err)
			}
			tbl.Set(cols[i], d, v)
		}
	}
	return tbl, nil
}
