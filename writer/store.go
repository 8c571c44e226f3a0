package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	appconfig "macroflow/config"
	"macroflow/internal/table"
	"macroflow/logger"
	"macroflow/mapping"
	"macroflow/models"
)

// ErrNotExist is returned by Store.Get for unknown names.
var ErrNotExist = errors.New("object does not exist")

// Store persists named blobs.
type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Get(ctx context.Context, name string) ([]byte, error)
}

// FileStore keeps blobs under a local directory.
type FileStore struct {
	Dir string
}

func (s FileStore) Put(_ context.Context, name string, data []byte, _ string) error {
	path := filepath.Join(s.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return nil
}

func (s FileStore) Get(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, name)
	}
	return data, err
}

const (
	CatalogFile       = "catalog.csv"
	MappingFile       = "mapping.csv"
	MasterCSVFile     = "master.csv"
	MasterParquetFile = "master.parquet"
	AuditLatestFile   = "audit_latest.csv"

	contentTypeCSV     = "text/csv"
	contentTypeParquet = "application/octet-stream"
)

// AuditRunFile is the per-run audit file name.
func AuditRunFile(runID string) string { return "audit/audit_" + runID + ".csv" }

// Exporter writes the catalog, mapping, master table and audit log to the
// primary store and mirrors them to any further stores. Reads only use the
// primary store.
type Exporter struct {
	cfg     appconfig.WriterConfig
	primary Store
	mirrors []Store
	log     *logger.Log
}

func NewExporter(cfg appconfig.WriterConfig, primary Store, mirrors ...Store) *Exporter {
	return &Exporter{cfg: cfg, primary: primary, mirrors: mirrors, log: logger.GetLogger()}
}

func (e *Exporter) put(ctx context.Context, name string, data []byte, contentType string) error {
	log := e.log.WithComponent("exporter").WithFields(logger.Fields{"file": name, "bytes": len(data)})
	if err := e.primary.Put(ctx, name, data, contentType); err != nil {
		return err
	}
	for _, m := range e.mirrors {
		if err := m.Put(ctx, name, data, contentType); err != nil {
			log.WithError(err).Error("failed to mirror export")
			return err
		}
	}
	log.Info("export written")
	return nil
}

func (e *Exporter) SaveCatalog(ctx context.Context, defs []models.VariableDefinition) error {
	var buf bytes.Buffer
	if err := WriteCatalog(&buf, defs, e.cfg.BOM); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return e.put(ctx, CatalogFile, buf.Bytes(), contentTypeCSV)
}

func (e *Exporter) SaveMapping(ctx context.Context, records []mapping.Record) error {
	var buf bytes.Buffer
	if err := WriteMapping(&buf, records, e.cfg.BOM); err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	return e.put(ctx, MappingFile, buf.Bytes(), contentTypeCSV)
}

// SaveMaster writes the CSV form and, when enabled, the parquet form.
func (e *Exporter) SaveMaster(ctx context.Context, tbl *table.MasterTable) error {
	var buf bytes.Buffer
	if err := WriteMasterCSV(&buf, tbl, e.cfg.BOM); err != nil {
		return fmt.Errorf("encode master csv: %w", err)
	}
	if err := e.put(ctx, MasterCSVFile, buf.Bytes(), contentTypeCSV); err != nil {
		return err
	}

	if !e.cfg.Formats.Parquet.Enabled {
		return nil
	}
	data, err := EncodeMasterParquet(tbl, e.cfg.Formats.Parquet.Compression)
	if err != nil {
		return fmt.Errorf("encode master parquet: %w", err)
	}
	return e.put(ctx, MasterParquetFile, data, contentTypeParquet)
}

// SaveAudit writes the run's audit rows to a per-run file and to the
// latest-run file.
func (e *Exporter) SaveAudit(ctx context.Context, runID string, records []models.AuditRecord) error {
	var buf bytes.Buffer
	if err := WriteAudit(&buf, records, e.cfg.BOM); err != nil {
		return fmt.Errorf("encode audit: %w", err)
	}
	if err := e.put(ctx, AuditRunFile(runID), buf.Bytes(), contentTypeCSV); err != nil {
		return err
	}
	return e.put(ctx, AuditLatestFile, buf.Bytes(), contentTypeCSV)
}

// LoadMaster reads the previously saved master table from the primary
// store, preferring the parquet form. found is false when none exists.
func (e *Exporter) LoadMaster(ctx context.Context) (tbl *table.MasterTable, found bool, err error) {
	if e.cfg.Formats.Parquet.Enabled {
		data, err := e.primary.Get(ctx, MasterParquetFile)
		switch {
		case err == nil:
			tbl, err := DecodeMasterParquet(data)
			if err != nil {
				return nil, false, err
			}
			return tbl, true, nil
		case !errors.Is(err, ErrNotExist):
			return nil, false, err
		}
	}

	data, err := e.primary.Get(ctx, MasterCSVFile)
	if errors.Is(err, ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	tbl, err = ReadMasterCSV(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}
	return tbl, true, nil
}
