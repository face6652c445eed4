// Package storage provides the in-memory record store and its on-disk persistence.
//
// The storage package owns every contact held by the directory. RecordStore
// keeps contacts in insertion order and maintains a name index over the live
// ones; the remaining types move that collection to and from disk.
//
// Key Components:
//   - RecordStore: ordered contact collection plus the live-name index
//   - SnapshotFile: CSV snapshot of the whole collection, rewritten atomically
//   - BackupManager: date-stamped copies of the snapshot, at most one per interval
//   - ExportSQLite: copies the collection into a SQLite table
//
// Storage Format:
//   - Snapshot: CSV, header "id,name,phone,email,isDeleted,deletedAt"
//   - isDeleted is 0 or 1, deletedAt is Unix seconds (0 when live)
//   - Fields holding a comma, quote or line break are quoted, inner quotes doubled
//   - Backups: contacts_backup_YYYYMMDD.csv next to the snapshot by default
//
// Key Responsibilities:
//   - Appending records and keeping positions stable across delete/restore
//   - Keeping the name index consistent with the live records
//   - Enforcing the restore window and one live record per name
//   - Loading snapshots, skipping malformed rows instead of failing
//   - Writing snapshots through a temp file and rename so a crash never truncates them
//
// Usage Example:
//
//	store := storage.NewRecordStore(storage.RecordStoreOptions{})
//	snap := storage.NewSnapshotFile("contacts_snapshot.csv", logger)
//
//	records, report, err := snap.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	store.Replace(records)
//
//	pos, err := store.Insert(schema.Contact{ID: store.NextID(), Name: "Alice"})
//	err = store.MarkDeleted(pos, time.Now())
//	err = snap.SaveAll(store.Records())
//
// The database package composes these pieces into the directory service.
package storage
