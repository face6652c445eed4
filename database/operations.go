package database

import (
	"context"
	"time"

	"github.com/mainakpaul2005/MiniTel/eventlog"
	"github.com/mainakpaul2005/MiniTel/storage"
)

// Stats describes the directory contents and its files
type Stats struct {
	storage.StoreStats
	SnapshotPath  string
	AuditPath     string
	RestoreWindow time.Duration
	LastBackup    time.Time
	Backups       int
}

// Export writes every contact to the configured export path
func (d *Directory) Export() error {
	return d.ExportTo(d.cfg.ExportPath())
}

// ExportTo writes every contact as CSV to path. The lock is held through the
// write since path may be the snapshot itself.
func (d *Directory) ExportTo(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	records := d.store.Records()
	if err := storage.ExportCSV(path, records); err != nil {
		return err
	}
	d.logger.Info("exported contacts", "path", path, "records", len(records))
	return nil
}

// ExportSQLite writes every contact to a SQLite database at path
func (d *Directory) ExportSQLite(ctx context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	records := d.store.Records()
	if err := storage.ExportSQLite(ctx, path, records); err != nil {
		return err
	}
	d.logger.Info("exported contacts to sqlite", "path", path, "records", len(records))
	return nil
}

// History returns the audit entries recorded for name, oldest first
func (d *Directory) History(name string) ([]eventlog.Entry, error) {
	return d.audit.ReadFor(name)
}

// Stats reports record counts, index usage and backup state
func (d *Directory) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := Stats{
		StoreStats:    d.store.Stats(),
		SnapshotPath:  d.snapshot.Path(),
		AuditPath:     d.audit.Path(),
		RestoreWindow: d.restoreWindow,
		LastBackup:    d.backups.LastBackup(),
	}
	backups, err := d.backups.List()
	if err != nil {
		d.logger.Warn("listing backups failed", "error", err)
	}
	st.Backups = len(backups)
	return st
}
