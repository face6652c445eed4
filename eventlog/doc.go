// Package eventlog provides the append-only audit log of contact mutations.
//
// Every add, delete and restore appends one CSV line holding the contact as
// it stood after the change, in snapshot field order, followed by a
// "YYYY-MM-DD HH:MM:SS" timestamp:
//
//	1,Alice,+1-5551234567,alice@x.com,0,0,2026-10-15 09:30:00
//	1,Alice,+1-5551234567,alice@x.com,1,1792056600,2026-10-15 09:35:00
//
// Key Features:
//   - Append-Only: lines are never rewritten or removed
//   - Durable: each append is followed by fsync
//   - Tolerant Reads: unparsable lines are reported and skipped
//
// Usage Example:
//
//	audit, err := eventlog.NewLog("contacts_log.csv")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer audit.Close()
//
//	err = audit.Append(contact, time.Now())
//
//	entries, lineErrs, err := audit.Read()
//
// The log is a side channel: the database package reports append failures
// but never fails a mutation because of one.
package eventlog
