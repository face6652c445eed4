package executor

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mainakpaul2005/MiniTel/database"
	"github.com/mainakpaul2005/MiniTel/schema"
	"github.com/mainakpaul2005/MiniTel/storage"
)

// UsageError reports a malformed command line
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func usagef(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// ConfirmFunc asks the user a yes/no question
type ConfirmFunc func(prompt string) (bool, error)

// Executor runs directory commands and formats their results
type Executor struct {
	dir *database.Directory

	// Now supplies the time for every mutation. Defaults to time.Now.
	Now func() time.Time
	// Confirm is asked before delete and restore unless -yes is given.
	// When nil, unconfirmed deletes and restores are refused.
	Confirm ConfirmFunc
}

// New creates a new executor
func New(dir *database.Directory) *Executor {
	return &Executor{dir: dir, Now: time.Now}
}

// Commands lists the supported command names
var Commands = []string{"add", "find", "search", "delete", "restore", "list", "export", "history", "stats"}

// Execute runs one command given as name followed by its arguments
func (e *Executor) Execute(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", usagef("missing command (one of %s)", strings.Join(Commands, ", "))
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "add":
		return e.executeAdd(rest)
	case "find":
		return e.executeFind(rest)
	case "search":
		return e.executeSearch(rest)
	case "delete":
		return e.executeDelete(rest)
	case "restore":
		return e.executeRestore(rest)
	case "list":
		return e.executeList(rest)
	case "export":
		return e.executeExport(ctx, rest)
	case "history":
		return e.executeHistory(rest)
	case "stats":
		return e.executeStats(rest)
	default:
		return "", usagef("unknown command: %s", cmd)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usagef("%s: %v", fs.Name(), err)
	}
	return nil
}

func (e *Executor) confirm(yes bool, prompt string) (bool, error) {
	if yes {
		return true, nil
	}
	if e.Confirm == nil {
		return false, database.ErrNotConfirmed
	}
	return e.Confirm(prompt)
}

func (e *Executor) executeAdd(args []string) (string, error) {
	fs := newFlagSet("add")
	name := fs.String("name", "", "contact name")
	phone := fs.String("phone", "", "phone number")
	email := fs.String("email", "", "email address")
	if err := parse(fs, args); err != nil {
		return "", err
	}

	c, err := e.dir.Add(e.Now(), schema.ContactInput{Name: *name, Phone: *phone, Email: *email})
	if err != nil {
		if c.ID == 0 {
			return "", err
		}
		return fmt.Sprintf("Added contact %d: %s", c.ID, c.Name), err
	}
	return fmt.Sprintf("Added contact %d: %s", c.ID, c.Name), nil
}

func (e *Executor) executeFind(args []string) (string, error) {
	fs := newFlagSet("find")
	name := fs.String("name", "", "contact name")
	id := fs.Int("id", 0, "contact id")
	if err := parse(fs, args); err != nil {
		return "", err
	}

	var (
		c   schema.Contact
		err error
	)
	switch {
	case *name != "" && *id != 0:
		return "", usagef("find: use either -name or -id")
	case *name != "":
		c, err = e.dir.FindByName(*name)
	case *id != 0:
		c, err = e.dir.FindByID(*id)
	default:
		return "", usagef("find: -name or -id is required")
	}
	if err != nil {
		return "", err
	}
	return formatContact(c, e.Now()), nil
}

func (e *Executor) executeSearch(args []string) (string, error) {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return "", usagef("search: query is required")
	}
	return formatTable(e.dir.Search(query), e.Now()), nil
}

func (e *Executor) executeDelete(args []string) (string, error) {
	fs := newFlagSet("delete")
	name := fs.String("name", "", "contact name")
	yes := fs.Bool("yes", false, "skip confirmation")
	if err := parse(fs, args); err != nil {
		return "", err
	}
	if *name == "" {
		return "", usagef("delete: -name is required")
	}

	now := e.Now()
	c, err := e.dir.Delete(now, *name, false)
	if !errors.Is(err, database.ErrNotConfirmed) {
		return "", err
	}

	ok, err := e.confirm(*yes, fmt.Sprintf("Delete contact %d (%s, %s, %s)?", c.ID, c.Name, c.Phone, c.Email))
	if err != nil {
		return "", err
	}
	if !ok {
		return "Deletion cancelled", nil
	}

	c, err = e.dir.Delete(now, *name, true)
	if err != nil && c.ID == 0 {
		return "", err
	}
	return fmt.Sprintf("Deleted contact %d: %s", c.ID, c.Name), err
}

func (e *Executor) executeRestore(args []string) (string, error) {
	fs := newFlagSet("restore")
	id := fs.Int("id", 0, "restore only this contact")
	yes := fs.Bool("yes", false, "skip confirmation")
	if err := parse(fs, args); err != nil {
		return "", err
	}
	now := e.Now()

	if *id != 0 {
		c, err := e.dir.FindByID(*id)
		if err != nil {
			return "", err
		}
		if err := e.checkRestorable(c, now); err != nil {
			return "", err
		}
		ok, err := e.confirm(*yes, fmt.Sprintf("Restore contact %d (%s)?", c.ID, c.Name))
		if err != nil {
			return "", err
		}
		if !ok {
			return "Restore cancelled", nil
		}
		c, err = e.dir.Restore(now, *id)
		if err != nil && c.ID == 0 {
			return "", err
		}
		return fmt.Sprintf("Restored contact %d: %s", c.ID, c.Name), err
	}

	eligible := e.dir.ListRestoreEligible(now)
	if len(eligible) == 0 {
		return "No contacts to restore", nil
	}

	var out strings.Builder
	out.WriteString("Deleted contacts that can be restored:\n")
	out.WriteString(formatTable(eligible, now))
	out.WriteString("\n")

	ok, err := e.confirm(*yes, fmt.Sprintf("Restore %d contact(s)?", len(eligible)))
	if err != nil {
		return "", err
	}
	if !ok {
		out.WriteString("Restore cancelled")
		return out.String(), nil
	}

	restored, err := e.dir.RestoreAll(now)
	fmt.Fprintf(&out, "Restored %d contact(s)", len(restored))
	if skipped := len(eligible) - len(restored); skipped > 0 && err == nil {
		fmt.Fprintf(&out, ", skipped %d whose name is in use", skipped)
	}
	return out.String(), err
}

// checkRestorable reports why c cannot be restored at now, before anyone is asked
func (e *Executor) checkRestorable(c schema.Contact, now time.Time) error {
	if !c.IsDeleted {
		return database.ErrNotDeleted
	}
	if !storage.WithinRestoreWindow(c, now, e.dir.RestoreWindow()) {
		return database.ErrRestoreWindowExpired
	}
	if _, err := e.dir.FindByName(c.Name); err == nil {
		return database.ErrDuplicateName
	}
	return nil
}

func (e *Executor) executeList(args []string) (string, error) {
	fs := newFlagSet("list")
	all := fs.Bool("all", false, "include deleted contacts")
	if err := parse(fs, args); err != nil {
		return "", err
	}

	var contacts []schema.Contact
	if *all {
		contacts = e.dir.ListAll()
	} else {
		contacts = e.dir.ListActive()
	}
	return fmt.Sprintf("%s\nTotal: %d contact(s)", formatTable(contacts, e.Now()), len(contacts)), nil
}

func (e *Executor) executeExport(ctx context.Context, args []string) (string, error) {
	fs := newFlagSet("export")
	out := fs.String("o", "", "CSV output path")
	sqlitePath := fs.String("sqlite", "", "SQLite output path")
	if err := parse(fs, args); err != nil {
		return "", err
	}

	var done []string
	if *sqlitePath != "" {
		if err := e.dir.ExportSQLite(ctx, *sqlitePath); err != nil {
			return "", err
		}
		done = append(done, "Exported to "+*sqlitePath)
	}
	switch {
	case *out != "":
		if err := e.dir.ExportTo(*out); err != nil {
			return "", err
		}
		done = append(done, "Exported to "+*out)
	case *sqlitePath == "":
		if err := e.dir.Export(); err != nil {
			return "", err
		}
		done = append(done, "Exported contacts")
	}
	return strings.Join(done, "\n"), nil
}

func (e *Executor) executeHistory(args []string) (string, error) {
	fs := newFlagSet("history")
	name := fs.String("name", "", "contact name")
	if err := parse(fs, args); err != nil {
		return "", err
	}
	if *name == "" {
		return "", usagef("history: -name is required")
	}

	entries, err := e.dir.History(*name)
	if err != nil {
		return "", err
	}
	return formatHistory(entries), nil
}

func (e *Executor) executeStats(args []string) (string, error) {
	fs := newFlagSet("stats")
	if err := parse(fs, args); err != nil {
		return "", err
	}
	return formatStats(e.dir.Stats(), e.Now()), nil
}
