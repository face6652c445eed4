package eventlog

import (
	"fmt"
	"time"

	"github.com/mainakpaul2005/MiniTel/schema"
	"github.com/mainakpaul2005/MiniTel/storage"
)

// TimestampLayout is the human-readable time written at the end of each line
const TimestampLayout = "2006-01-02 15:04:05"

// Entry is one line of the audit log: the contact as it stood after a
// mutation, and when the mutation happened.
type Entry struct {
	Contact   schema.Contact
	Timestamp time.Time
}

// EntryError describes a log line that could not be parsed
type EntryError struct {
	Line   int
	Reason string
}

func (e EntryError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// encodeEntry renders a line: the contact fields followed by the timestamp
func encodeEntry(c schema.Contact, at time.Time) []string {
	return append(storage.EncodeRow(c), at.Format(TimestampLayout))
}

// decodeEntry parses a line written by encodeEntry
func decodeEntry(fields []string) (Entry, error) {
	want := len(schema.Columns) + 1
	if len(fields) != want {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", want, len(fields))
	}
	c, err := storage.DecodeRow(fields[:len(schema.Columns)])
	if err != nil {
		return Entry{}, err
	}
	ts, err := time.ParseInLocation(TimestampLayout, fields[len(fields)-1], time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("bad timestamp %q", fields[len(fields)-1])
	}
	return Entry{Contact: c, Timestamp: ts}, nil
}
