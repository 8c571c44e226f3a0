package writer

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/xitongsys/parquet-go/parquet"
	preader "github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/source"
	pwriter "github.com/xitongsys/parquet-go/writer"

	"macroflow/internal/table"
)

// The master table is stored in long form. "column" rows declare columns in
// order, "date" rows carry the date index and "cell" rows carry values, so
// empty columns and value-less dates survive a round trip.
const (
	kindColumn = "column"
	kindDate   = "date"
	kindCell   = "cell"
)

// MasterRecord is one row of the parquet master table.
type MasterRecord struct {
	Kind     string   `parquet:"name=kind, type=BYTE_ARRAY, convertedtype=UTF8"`
	Code     string   `parquet:"name=code, type=BYTE_ARRAY, convertedtype=UTF8"`
	Position int32    `parquet:"name=position, type=INT32"`
	Date     int32    `parquet:"name=date, type=INT32, convertedtype=DATE"`
	Value    *float64 `parquet:"name=value, type=DOUBLE, repetitiontype=OPTIONAL"`
}

const secondsPerDay = 24 * 60 * 60

func toEpochDays(t time.Time) int32 { return int32(t.Unix() / secondsPerDay) }

func fromEpochDays(d int32) time.Time { return time.Unix(int64(d)*secondsPerDay, 0).UTC() }

// memoryFile is an in-memory source.ParquetFile. Writes append to the
// buffer; Open returns an independent reader over the written bytes.
type memoryFile struct {
	buffer *bytes.Buffer
	reader *bytes.Reader
}

func newMemoryFile() *memoryFile { return &memoryFile{buffer: &bytes.Buffer{}} }

func newMemoryFileFrom(data []byte) *memoryFile {
	return &memoryFile{buffer: bytes.NewBuffer(data), reader: bytes.NewReader(data)}
}

func (m *memoryFile) Create(string) (source.ParquetFile, error) { return m, nil }

func (m *memoryFile) Open(string) (source.ParquetFile, error) {
	return &memoryFile{buffer: m.buffer, reader: bytes.NewReader(m.buffer.Bytes())}, nil
}

func (m *memoryFile) Seek(offset int64, whence int) (int64, error) {
	if m.reader == nil {
		return int64(m.buffer.Len()), nil
	}
	return m.reader.Seek(offset, whence)
}

func (m *memoryFile) Read(b []byte) (int, error) {
	if m.reader == nil {
		return 0, io.EOF
	}
	return m.reader.Read(b)
}

func (m *memoryFile) Write(b []byte) (int, error) { return m.buffer.Write(b) }

func (m *memoryFile) Close() error { return nil }

func (m *memoryFile) Bytes() []byte { return m.buffer.Bytes() }

func compressionCodec(name string) parquet.CompressionCodec {
	switch name {
	case "snappy":
		return parquet.CompressionCodec_SNAPPY
	case "gzip":
		return parquet.CompressionCodec_GZIP
	default:
		return parquet.CompressionCodec_UNCOMPRESSED
	}
}

// EncodeMasterParquet serializes tbl with the given compression
// ("snappy", "gzip" or "uncompressed").
func EncodeMasterParquet(tbl *table.MasterTable, compression string) ([]byte, error) {
	fw := newMemoryFile()
	pw, err := pwriter.NewParquetWriter(fw, new(MasterRecord), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = compressionCodec(compression)

	write := func(rec MasterRecord) error {
		if err := pw.Write(rec); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("failed to write parquet record: %w", err)
		}
		return nil
	}

	cols := tbl.Columns()
	for i, c := range cols {
		if err := write(MasterRecord{Kind: kindColumn, Code: c, Position: int32(i)}); err != nil {
			return nil, err
		}
	}
	for _, d := range tbl.Dates() {
		days := toEpochDays(d)
		if err := write(MasterRecord{Kind: kindDate, Date: days}); err != nil {
			return nil, err
		}
		for _, c := range cols {
			if v, ok := tbl.Value(c, d); ok {
				if err := write(MasterRecord{Kind: kindCell, Code: c, Date: days, Value: &v}); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("failed to finalize parquet writing: %w", err)
	}
	return fw.Bytes(), nil
}

// DecodeMasterParquet reads bytes produced by EncodeMasterParquet.
func DecodeMasterParquet(data []byte) (*table.MasterTable, error) {
	pr, err := preader.NewParquetReader(newMemoryFileFrom(data), new(MasterRecord), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet reader: %w", err)
	}
	defer pr.ReadStop()

	rows := make([]MasterRecord, int(pr.GetNumRows()))
	if len(rows) > 0 {
		if err := pr.Read(&rows); err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	var columns []MasterRecord
	for _, r := range rows {
		if r.Kind == kindColumn {
			columns = append(columns, r)
		}
	}
	ordered := make([]string, len(columns))
	for _, c := range columns {
		if int(c.Position) < 0 || int(c.Position) >= len(ordered) || ordered[c.Position] != "" {
			return nil, fmt.Errorf("parquet master table: bad column position %d for %s", c.Position, c.Code)
		}
		ordered[c.Position] = c.Code
	}

	tbl := table.New()
	for _, c := range ordered {
		tbl.AddColumn(c)
	}
	for _, r := range rows {
		switch r.Kind {
		case kindDate:
			tbl.AddDate(fromEpochDays(r.Date))
		case kindCell:
			if !tbl.HasColumn(r.Code) {
				return nil, fmt.Errorf("parquet master table: cell for undeclared column %s", r.Code)
			}
			if r.Value == nil {
				continue
			}
			tbl.Set(r.Code, fromEpochDays(r.Date), *r.Value)
		case kindColumn:
		default:
			return nil, fmt.Errorf("parquet master table: unknown row kind %q", r.Kind)
		}
	}
	return tbl, nil
}
