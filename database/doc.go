// Package database implements the contact directory service.
//
// A Directory keeps every contact in memory and persists after each
// mutation:
//
//  1. the full snapshot is rewritten atomically
//  2. one audit line per changed contact is appended
//  3. a dated backup of the snapshot is taken if the backup interval passed
//
// Deletes are soft. A deleted contact keeps its position and id and can be
// restored while it is inside the restore window, provided no live contact
// took its name in the meantime.
//
// Every operation that depends on time takes it as an argument; the
// directory never reads the clock itself. All methods are safe for
// concurrent use.
package database
