package storage

import (
	"iter"
	"time"

	"github.com/mainakpaul2005/MiniTel/index"
	"github.com/mainakpaul2005/MiniTel/schema"
)

// DefaultRestoreWindow is how long a deleted contact stays restorable.
const DefaultRestoreWindow = 15 * 24 * time.Hour

const initialCapacity = 16

// RecordStoreOptions configures a RecordStore
type RecordStoreOptions struct {
	// MaxRecords caps the number of records, deleted ones included. 0 means no cap.
	MaxRecords int
	// IndexBuckets is the fixed bucket count of the name index. 0 means index.DefaultBuckets.
	IndexBuckets int
}

// RecordStore is the ordered, in-memory collection of contacts plus the name
// index over its live records.
//
// Positions are stable: records are only ever appended, and delete/restore
// flip flags in place. The name index always maps each live record's name to
// its position and holds nothing for deleted records.
type RecordStore struct {
	records    []schema.Contact
	names      *index.KeyIndex
	maxRecords int
}

// StoreStats summarizes the store contents
type StoreStats struct {
	Records int
	Live    int
	Deleted int
	Index   index.Stats
}

// NewRecordStore creates an empty store
func NewRecordStore(opts RecordStoreOptions) *RecordStore {
	return &RecordStore{
		records:    make([]schema.Contact, 0, initialCapacity),
		names:      index.New(opts.IndexBuckets),
		maxRecords: opts.MaxRecords,
	}
}

// WithinRestoreWindow reports whether c is deleted and was deleted no more
// than window before now.
func WithinRestoreWindow(c schema.Contact, now time.Time, window time.Duration) bool {
	return c.IsDeleted && now.Sub(c.DeletedAt) <= window
}

// grow doubles capacity when the collection is full
func (s *RecordStore) grow() {
	if len(s.records) < cap(s.records) {
		return
	}
	newCap := cap(s.records) * 2
	if newCap < initialCapacity {
		newCap = initialCapacity
	}
	grown := make([]schema.Contact, len(s.records), newCap)
	copy(grown, s.records)
	s.records = grown
}

// Insert appends a record and indexes its name when live. It returns the
// record's position.
func (s *RecordStore) Insert(c schema.Contact) (int, error) {
	if s.maxRecords > 0 && len(s.records) >= s.maxRecords {
		return -1, ErrCapacityExceeded
	}

	c.Name = schema.NormalizeName(c.Name)
	if c.IsDeleted {
		c.DeletedAt = c.DeletedAt.Truncate(time.Second)
	} else {
		c.DeletedAt = time.Time{}
		if _, taken := s.names.Lookup(c.Name); taken {
			return -1, ErrNameTaken
		}
	}

	s.grow()
	pos := len(s.records)
	s.records = append(s.records, c)
	if !c.IsDeleted {
		s.names.Insert(c.Name, pos)
	}
	return pos, nil
}

// Get returns the record at position
func (s *RecordStore) Get(position int) (schema.Contact, bool) {
	if position < 0 || position >= len(s.records) {
		return schema.Contact{}, false
	}
	return s.records[position], true
}

// FindByID scans for the record with id, deleted or not
func (s *RecordStore) FindByID(id int) (schema.Contact, int, error) {
	for i := range s.records {
		if s.records[i].ID == id {
			return s.records[i], i, nil
		}
	}
	return schema.Contact{}, -1, ErrNotFound
}

// FindByName looks up the live record with name
func (s *RecordStore) FindByName(name string) (schema.Contact, int, error) {
	pos, ok := s.names.Lookup(schema.NormalizeName(name))
	if !ok || s.records[pos].IsDeleted {
		return schema.Contact{}, -1, ErrNotFound
	}
	return s.records[pos], pos, nil
}

// MarkDeleted moves the record at position to the recycle bin, stamped with
// now truncated to the second
func (s *RecordStore) MarkDeleted(position int, now time.Time) error {
	if position < 0 || position >= len(s.records) {
		return ErrNotFound
	}
	c := &s.records[position]
	if c.IsDeleted {
		return ErrAlreadyDeleted
	}

	c.IsDeleted = true
	// Persisted stamps carry whole seconds only
	c.DeletedAt = now.Truncate(time.Second)
	if pos, ok := s.names.Lookup(c.Name); ok && pos == position {
		s.names.Remove(c.Name)
	}
	return nil
}

// MarkRestored brings the record at position back if it was deleted no more
// than window before now and its name is free.
func (s *RecordStore) MarkRestored(position int, now time.Time, window time.Duration) error {
	if position < 0 || position >= len(s.records) {
		return ErrNotFound
	}
	c := &s.records[position]
	if !c.IsDeleted {
		return ErrNotDeleted
	}
	if !WithinRestoreWindow(*c, now, window) {
		return ErrRestoreWindowExpired
	}
	if _, taken := s.names.Lookup(c.Name); taken {
		return ErrNameTaken
	}

	c.IsDeleted = false
	c.DeletedAt = time.Time{}
	s.names.Insert(c.Name, position)
	return nil
}

// All iterates records in positional order. Each range reads the current
// contents of the store.
func (s *RecordStore) All() iter.Seq2[int, schema.Contact] {
	return func(yield func(int, schema.Contact) bool) {
		for i := 0; i < len(s.records); i++ {
			if !yield(i, s.records[i]) {
				return
			}
		}
	}
}

// Records returns a copy of every record in positional order
func (s *RecordStore) Records() []schema.Contact {
	out := make([]schema.Contact, len(s.records))
	copy(out, s.records)
	return out
}

// NextID returns one more than the highest id in the store, deleted records
// included, or 1 when empty. It always scans.
func (s *RecordStore) NextID() int {
	maxID := 0
	for i := range s.records {
		if s.records[i].ID > maxID {
			maxID = s.records[i].ID
		}
	}
	return maxID + 1
}

// Replace discards the current contents and loads records in order. When two
// live records share a name, the later one stays live in the index; the
// number of such collisions is returned.
//
// Replace ignores MaxRecords so an existing file always loads in full.
func (s *RecordStore) Replace(records []schema.Contact) int {
	s.names.Clear()
	s.records = make([]schema.Contact, 0, max(initialCapacity, len(records)))

	collisions := 0
	for _, c := range records {
		c.Name = schema.NormalizeName(c.Name)
		if !c.IsDeleted {
			c.DeletedAt = time.Time{}
		}
		pos := len(s.records)
		s.records = append(s.records, c)
		if c.IsDeleted {
			continue
		}
		if _, taken := s.names.Lookup(c.Name); taken {
			collisions++
		}
		s.names.Insert(c.Name, pos)
	}
	return collisions
}

// Len returns the number of records, deleted ones included
func (s *RecordStore) Len() int {
	return len(s.records)
}

// Stats counts live and deleted records and reports index usage
func (s *RecordStore) Stats() StoreStats {
	st := StoreStats{Records: len(s.records), Index: s.names.Stats()}
	for i := range s.records {
		if s.records[i].IsDeleted {
			st.Deleted++
		} else {
			st.Live++
		}
	}
	return st
}
