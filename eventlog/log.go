package eventlog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mainakpaul2005/MiniTel/schema"
	"github.com/mainakpaul2005/MiniTel/storage"
)

// Log is the append-only audit log of contact mutations
type Log struct {
	mu       sync.Mutex
	filePath string
	file     *os.File
}

// NewLog opens (creating if needed) the audit log at filePath
func NewLog(filePath string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, &storage.IOError{Op: "mkdir", Path: filepath.Dir(filePath), Err: err}
	}

	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, &storage.IOError{Op: "open", Path: filePath, Err: err}
	}
	return &Log{filePath: filePath, file: f}, nil
}

// Path returns the log location
func (l *Log) Path() string {
	return l.filePath
}

// Append writes one line for c stamped with at, then syncs. Earlier lines are
// never touched.
func (l *Log) Append(c schema.Contact, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return &storage.IOError{Op: "append", Path: l.filePath, Err: os.ErrClosed}
	}

	w := csv.NewWriter(l.file)
	if err := w.Write(encodeEntry(c, at)); err != nil {
		return &storage.IOError{Op: "append", Path: l.filePath, Err: err}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &storage.IOError{Op: "append", Path: l.filePath, Err: err}
	}

	// Sync to disk for durability
	if err := l.file.Sync(); err != nil {
		return &storage.IOError{Op: "sync", Path: l.filePath, Err: err}
	}
	return nil
}

// Read returns every parsable entry in file order. Lines that fail to parse
// are skipped and reported.
func (l *Log) Read() ([]Entry, []EntryError, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, &storage.IOError{Op: "open", Path: l.filePath, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	var (
		entries []Entry
		errs    []EntryError
	)
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				errs = append(errs, EntryError{Line: perr.StartLine, Reason: perr.Err.Error()})
				continue
			}
			return entries, errs, &storage.IOError{Op: "read", Path: l.filePath, Err: err}
		}

		line, _ := r.FieldPos(0)
		e, err := decodeEntry(fields)
		if err != nil {
			errs = append(errs, EntryError{Line: line, Reason: err.Error()})
			continue
		}
		entries = append(entries, e)
	}
	return entries, errs, nil
}

// ReadFor returns the entries whose contact has the given name
func (l *Log) ReadFor(name string) ([]Entry, error) {
	entries, _, err := l.Read()
	if err != nil {
		return nil, err
	}
	name = schema.NormalizeName(name)

	var out []Entry
	for _, e := range entries {
		if schema.NormalizeName(e.Contact.Name) == name {
			out = append(out, e)
		}
	}
	return out, nil
}

// Close closes the log file
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("close audit log: %w", err)
	}
	return nil
}
