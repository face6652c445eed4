// Package index provides the hash index used for constant-time name lookups.
//
// KeyIndex maps a string key to an integer position in the record store. It
// is a fixed-size table of buckets with chaining; the bucket is chosen by a
// 32-bit FNV-1a hash of the key. The table never resizes, so the bucket count
// given to New should be sized for the expected number of keys. With the
// default of 1024 buckets and a few thousand contacts, chains stay short.
//
// Key Features:
//   - Chained Buckets: collisions share a bucket, newest entry first
//   - Single Entry Per Key: Insert replaces an existing entry instead of stacking one
//   - Position-Only: the index stores positions, never the records themselves
//
// Usage Example:
//
//	idx := index.New(0) // DefaultBuckets
//	idx.Insert("Alice", 0)
//	idx.Insert("Bob", 1)
//
//	pos, ok := idx.Lookup("Alice") // 0, true
//
//	idx.Remove("Alice")
//	_, ok = idx.Lookup("Alice") // false
//
// The index is owned by storage.RecordStore, which keeps it consistent with
// the record collection on every mutation.
package index
