package index

import (
	"hash/fnv"
	"strconv"
)

// DefaultBuckets is the bucket count used when New is given a non-positive size.
// At a few thousand keys the expected chain length stays in the single digits.
const DefaultBuckets = 1024

// entry is one node of a bucket chain
type entry struct {
	key      string
	position int
}

// KeyIndex is a fixed-size chained hash table mapping a key to a record
// position. It never owns records, only their positions.
//
// Chains are ordered most-recent-first. Insert drops any existing entry for
// the key, so a key has at most one entry.
type KeyIndex struct {
	buckets [][]entry
	size    int
}

// Stats describes the shape of the table
type Stats struct {
	Buckets      int
	Entries      int
	UsedBuckets  int
	LongestChain int
}

// New creates an index with a fixed number of buckets
func New(buckets int) *KeyIndex {
	if buckets <= 0 {
		buckets = DefaultBuckets
	}
	return &KeyIndex{buckets: make([][]entry, buckets)}
}

// IntKey converts an integer key to its index key
func IntKey(k int) string {
	return strconv.Itoa(k)
}

func (idx *KeyIndex) bucketFor(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(idx.buckets)))
}

// Insert stores position under key, replacing any previous entry for key
func (idx *KeyIndex) Insert(key string, position int) {
	b := idx.bucketFor(key)
	chain := idx.removeFrom(b, key)

	// Prepend: most recent first.
	chain = append(chain, entry{})
	copy(chain[1:], chain)
	chain[0] = entry{key: key, position: position}

	idx.buckets[b] = chain
	idx.size++
}

// Lookup returns the position stored under key
func (idx *KeyIndex) Lookup(key string) (int, bool) {
	for _, e := range idx.buckets[idx.bucketFor(key)] {
		if e.key == key {
			return e.position, true
		}
	}
	return -1, false
}

// Remove drops the entry for key and reports whether one existed
func (idx *KeyIndex) Remove(key string) bool {
	b := idx.bucketFor(key)
	before := len(idx.buckets[b])
	idx.buckets[b] = idx.removeFrom(b, key)
	return len(idx.buckets[b]) < before
}

// removeFrom returns bucket b's chain without key, adjusting size
func (idx *KeyIndex) removeFrom(b int, key string) []entry {
	chain := idx.buckets[b]
	for i, e := range chain {
		if e.key == key {
			idx.size--
			return append(chain[:i], chain[i+1:]...)
		}
	}
	return chain
}

// Clear releases every entry; the bucket count is unchanged
func (idx *KeyIndex) Clear() {
	for i := range idx.buckets {
		idx.buckets[i] = nil
	}
	idx.size = 0
}

// Len returns the number of keys in the index
func (idx *KeyIndex) Len() int {
	return idx.size
}

// Stats reports bucket usage and the longest chain
func (idx *KeyIndex) Stats() Stats {
	s := Stats{Buckets: len(idx.buckets), Entries: idx.size}
	for _, chain := range idx.buckets {
		if len(chain) == 0 {
			continue
		}
		s.UsedBuckets++
		if len(chain) > s.LongestChain {
			s.LongestChain = len(chain)
		}
	}
	return s
}
