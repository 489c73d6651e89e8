// Package csvfile writes report tables as CSV files and reads them back.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/near-space-etl/internal/adapter/archive"
	"github.com/couchcryptid/near-space-etl/internal/domain"
	"github.com/couchcryptid/near-space-etl/internal/report"
)

// Ext is the file extension of every written table.
const Ext = ".csv"

// Writer writes each table to <dir>/<name>.csv. It implements
// pipeline.TableLoader.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a writer for dir. The directory is created on first write.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Path returns the file a table of the given name is written to.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name+Ext)
}

// LoadTables writes every table. Each file is written to a temporary name
// and renamed into place, so a failed write leaves any earlier file intact.
func (w *Writer) LoadTables(ctx context.Context, tables []report.Table) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := w.Path(t.Name)
		if err := writeFile(path, t); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		w.logger.Info("table written", "file", path, "rows", len(t.Rows))
	}
	return nil
}

func writeFile(path string, t report.Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, t); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Encode writes the header row and every data row of t.
func Encode(w io.Writer, t report.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// Decode reads a CSV table with a header row.
func Decode(r io.Reader, name string) (report.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return report.Table{}, fmt.Errorf("read %s: %w", name, err)
	}
	t := report.Table{Name: name}
	if len(records) == 0 {
		return t, nil
	}
	t.Columns = records[0]
	t.Rows = records[1:]
	return t, nil
}

// ReadTable reads a table file. The table name is the file name without
// its extension; compressed files are accepted.
func ReadTable(path string) (report.Table, error) {
	rc, err := archive.Open(path)
	if err != nil {
		return report.Table{}, err
	}
	defer rc.Close()

	name := filepath.Base(path)
	for ext := filepath.Ext(name); ext != ""; ext = filepath.Ext(name) {
		name = name[:len(name)-len(ext)]
	}
	return Decode(rc, name)
}

// ReadMerged reads a merged combo CSV for analysis-only runs.
func ReadMerged(path string) ([]domain.MergedMonth, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, fmt.Errorf("open merged dataset: %w", err)
	}
	months, err := report.ParseMerged(t)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return months, nil
}
