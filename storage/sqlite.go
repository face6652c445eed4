package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/mainakpaul2005/MiniTel/schema"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS contacts (
	position   INTEGER PRIMARY KEY,
	id         INTEGER NOT NULL,
	name       TEXT    NOT NULL,
	phone      TEXT    NOT NULL,
	email      TEXT    NOT NULL,
	is_deleted INTEGER NOT NULL,
	deleted_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS contacts_name ON contacts(name);`

// ExportSQLite writes records, in positional order, to the contacts table of
// the SQLite database at path. Existing rows are replaced in one transaction.
func ExportSQLite(ctx context.Context, path string, records []schema.Contact) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &IOError{Op: "open sqlite", Path: path, Err: err}
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return &IOError{Op: "create schema", Path: path, Err: err}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &IOError{Op: "begin", Path: path, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM contacts"); err != nil {
		return &IOError{Op: "clear", Path: path, Err: err}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO contacts (position, id, name, phone, email, is_deleted, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return &IOError{Op: "prepare", Path: path, Err: err}
	}
	defer stmt.Close()

	for pos, c := range records {
		var deleted, deletedAt int64
		if c.IsDeleted {
			deleted = 1
			deletedAt = c.DeletedAt.Unix()
		}
		if _, err := stmt.ExecContext(ctx, pos, c.ID, c.Name, c.Phone, c.Email, deleted, deletedAt); err != nil {
			return &IOError{Op: "insert", Path: path, Err: fmt.Errorf("contact %d: %w", c.ID, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &IOError{Op: "commit", Path: path, Err: err}
	}
	return nil
}
