package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gobwas/glob"

	"github.com/mainakpaul2005/MiniTel/logging"
)

// Backup defaults
const (
	DefaultBackupInterval = 24 * time.Hour
	DefaultBackupPrefix   = "contacts_backup_"
	backupDateLayout      = "20060102"
	backupExt             = ".csv"
)

// BackupManager copies the snapshot to a date-stamped file at most once per
// interval. The time of the last backup lives only in memory and starts at
// zero, so the first mutation of a process triggers a backup.
type BackupManager struct {
	snapshotPath string
	dir          string
	prefix       string
	interval     time.Duration
	keep         int
	lastBackup   time.Time
	pattern      glob.Glob
	logger       *logging.Logger
}

// BackupOptions configures a BackupManager
type BackupOptions struct {
	// Dir receives backup files. Empty means the snapshot's directory.
	Dir string
	// Prefix of backup file names. Empty means DefaultBackupPrefix.
	Prefix string
	// Interval between backups. 0 means DefaultBackupInterval.
	Interval time.Duration
	// Keep is the number of newest backups retained by Prune. 0 keeps all.
	Keep int
}

// NewBackupManager creates a manager for the snapshot at snapshotPath
func NewBackupManager(snapshotPath string, opts BackupOptions, logger *logging.Logger) (*BackupManager, error) {
	if opts.Dir == "" {
		opts.Dir = filepath.Dir(snapshotPath)
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultBackupPrefix
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultBackupInterval
	}
	if logger == nil {
		logger = logging.Discard()
	}

	// One '?' per date digit: contacts_backup_YYYYMMDD.csv
	pattern, err := glob.Compile(glob.QuoteMeta(opts.Prefix) + "????????" + glob.QuoteMeta(backupExt))
	if err != nil {
		return nil, fmt.Errorf("compile backup pattern: %w", err)
	}

	return &BackupManager{
		snapshotPath: snapshotPath,
		dir:          opts.Dir,
		prefix:       opts.Prefix,
		interval:     opts.Interval,
		keep:         opts.Keep,
		pattern:      pattern,
		logger:       logger,
	}, nil
}

// BackupPath returns the backup file name for the calendar day of t
func (b *BackupManager) BackupPath(t time.Time) string {
	return filepath.Join(b.dir, b.prefix+t.Format(backupDateLayout)+backupExt)
}

// LastBackup returns when the last backup was attempted in this process
func (b *BackupManager) LastBackup() time.Time {
	return b.lastBackup
}

// MaybeBackup copies the snapshot when more than the interval has passed
// since the last backup. It returns the path written, or "" when nothing was
// copied. An existing backup for the same day is left alone without error.
// A missing snapshot is skipped without consuming the interval.
func (b *BackupManager) MaybeBackup(now time.Time) (string, error) {
	if !b.lastBackup.IsZero() && now.Sub(b.lastBackup) <= b.interval {
		return "", nil
	}

	src, err := os.Open(b.snapshotPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", &IOError{Op: "open", Path: b.snapshotPath, Err: err}
	}
	defer src.Close()

	b.lastBackup = now
	dst := b.BackupPath(now)

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return "", &IOError{Op: "mkdir", Path: b.dir, Err: err}
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			b.logger.Debug("backup already exists", "path", dst)
			return "", nil
		}
		return "", &IOError{Op: "create", Path: dst, Err: err}
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return "", &IOError{Op: "copy", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", &IOError{Op: "close", Path: dst, Err: err}
	}

	b.logger.Info("backup written", "path", dst)

	if b.keep > 0 {
		if _, err := b.Prune(b.keep); err != nil {
			b.logger.Warn("backup prune failed", "error", err)
		}
	}
	return dst, nil
}

// List returns backup file paths, oldest first
func (b *BackupManager) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &IOError{Op: "readdir", Path: b.dir, Err: err}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !b.pattern.Match(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	// The date stamp makes name order chronological
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(b.dir, n)
	}
	return paths, nil
}

// Prune removes all but the newest keep backups and returns the removed
// paths. keep <= 0 removes nothing.
func (b *BackupManager) Prune(keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	paths, err := b.List()
	if err != nil {
		return nil, err
	}
	if len(paths) <= keep {
		return nil, nil
	}

	var removed []string
	for _, p := range paths[:len(paths)-keep] {
		if err := os.Remove(p); err != nil {
			return removed, &IOError{Op: "remove", Path: p, Err: err}
		}
		removed = append(removed, p)
	}
	return removed, nil
}
