package storage

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mainakpaul2005/MiniTel/logging"
	"github.com/mainakpaul2005/MiniTel/schema"
)

// SnapshotFile is the CSV file holding the full state of the directory.
type SnapshotFile struct {
	path   string
	logger *logging.Logger
}

// NewSnapshotFile creates a handle on the snapshot at path
func NewSnapshotFile(path string, logger *logging.Logger) *SnapshotFile {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SnapshotFile{path: path, logger: logger.With("path", path)}
}

// Path returns the snapshot location
func (f *SnapshotFile) Path() string {
	return f.path
}

// Load reads every contact from the snapshot. A missing file is a first run
// and yields no records and no error. Malformed rows are skipped and logged.
func (f *SnapshotFile) Load() ([]schema.Contact, LoadReport, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.logger.Info("no snapshot found, starting empty")
			return nil, LoadReport{}, nil
		}
		return nil, LoadReport{}, &IOError{Op: "open", Path: f.path, Err: err}
	}
	defer file.Close()

	records, report, err := ReadCSV(bufio.NewReader(file))
	if err != nil {
		return nil, report, &IOError{Op: "read", Path: f.path, Err: err}
	}

	for _, s := range report.Skipped {
		f.logger.Warn("skipped malformed row", "line", s.Line, "reason", s.Reason)
	}
	f.logger.Debug("snapshot loaded", "records", report.Loaded, "skipped", len(report.Skipped))
	return records, report, nil
}

// SaveAll rewrites the snapshot with records. The data goes to a temp file in
// the same directory which is synced and renamed over the snapshot, so a
// failed save leaves the previous file intact.
func (f *SnapshotFile) SaveAll(records []schema.Contact) error {
	return writeAtomic(f.path, records)
}

// writeAtomic writes records as CSV to path through a temp file and rename
func writeAtomic(path string, records []schema.Contact) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}

	tmpPath := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return &IOError{Op: "create", Path: tmpPath, Err: err}
	}

	w := bufio.NewWriter(tmp)
	if err := WriteCSV(w, records); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &IOError{Op: "write", Path: tmpPath, Err: err}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &IOError{Op: "write", Path: tmpPath, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &IOError{Op: "sync", Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &IOError{Op: "close", Path: tmpPath, Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// ExportCSV writes records to an arbitrary path with the same format and
// atomicity as the snapshot.
func ExportCSV(path string, records []schema.Contact) error {
	return writeAtomic(path, records)
}
