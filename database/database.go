package database

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mainakpaul2005/MiniTel/config"
	"github.com/mainakpaul2005/MiniTel/eventlog"
	"github.com/mainakpaul2005/MiniTel/logging"
	"github.com/mainakpaul2005/MiniTel/schema"
	"github.com/mainakpaul2005/MiniTel/storage"
)

var (
	// ErrDuplicateName is returned when a live contact already owns the name
	ErrDuplicateName = storage.ErrNameTaken

	// ErrNotConfirmed is returned by Delete when the caller did not confirm
	ErrNotConfirmed = errors.New("operation not confirmed")

	ErrNotFound             = storage.ErrNotFound
	ErrNotDeleted           = storage.ErrNotDeleted
	ErrRestoreWindowExpired = storage.ErrRestoreWindowExpired
	ErrCapacityExceeded     = storage.ErrCapacityExceeded
)

// Directory is the contact directory service. It owns the in-memory store and
// keeps the snapshot, audit log and backups in step with every mutation.
type Directory struct {
	mu            sync.Mutex
	cfg           *config.Config
	store         *storage.RecordStore
	snapshot      *storage.SnapshotFile
	audit         *eventlog.Log
	backups       *storage.BackupManager
	restoreWindow time.Duration
	logger        *logging.Logger
}

// Open loads the snapshot named by cfg and opens the audit log. A nil cfg
// means config.Default().
func Open(cfg *config.Config, logger *logging.Logger) (*Directory, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	snapshot := storage.NewSnapshotFile(cfg.SnapshotPath(), logger.Component("snapshot"))
	records, report, err := snapshot.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	store := storage.NewRecordStore(storage.RecordStoreOptions{
		MaxRecords:   cfg.MaxRecords,
		IndexBuckets: cfg.IndexBuckets,
	})
	if collisions := store.Replace(records); collisions > 0 {
		logger.Warn("duplicate live names in snapshot, later records win",
			"path", snapshot.Path(), "collisions", collisions)
	}

	backups, err := storage.NewBackupManager(cfg.SnapshotPath(), storage.BackupOptions{
		Dir:      cfg.BackupDir(),
		Prefix:   cfg.Backup.Prefix,
		Interval: cfg.Backup.Interval,
		Keep:     cfg.Backup.Keep,
	}, logger.Component("backup"))
	if err != nil {
		return nil, err
	}

	audit, err := eventlog.NewLog(cfg.AuditPath())
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	window := cfg.RestoreWindow
	if window <= 0 {
		window = storage.DefaultRestoreWindow
	}

	d := &Directory{
		cfg:           cfg,
		store:         store,
		snapshot:      snapshot,
		audit:         audit,
		backups:       backups,
		restoreWindow: window,
		logger:        logger.Component("directory"),
	}
	d.logger.Info("directory opened",
		"path", snapshot.Path(),
		"records", report.Loaded,
		"skipped", len(report.Skipped))
	return d, nil
}

// Close closes the audit log
func (d *Directory) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.audit.Close()
}

// RestoreWindow returns the effective restore window
func (d *Directory) RestoreWindow() time.Duration {
	return d.restoreWindow
}

// commit persists the store after a mutation. The snapshot is rewritten
// first, then one audit line is appended per changed record, then the backup
// gate is checked. Only a snapshot failure is returned; the in-memory state
// already reflects the mutation either way.
func (d *Directory) commit(now time.Time, changed ...schema.Contact) error {
	saveErr := d.snapshot.SaveAll(d.store.Records())
	if saveErr != nil {
		d.logger.Error("snapshot save failed", "error", saveErr)
	}

	for _, c := range changed {
		if err := d.audit.Append(c, now); err != nil {
			d.logger.Warn("audit append failed", "id", c.ID, "error", err)
		}
	}

	if saveErr != nil {
		return saveErr
	}
	if _, err := d.backups.MaybeBackup(now); err != nil {
		d.logger.Warn("backup failed", "error", err)
	}
	return nil
}
