package database

import (
	"strings"
	"time"

	"github.com/mainakpaul2005/MiniTel/schema"
	"github.com/mainakpaul2005/MiniTel/storage"
)

// FindByName returns the live contact with name. Deleted contacts are not found.
func (d *Directory) FindByName(name string) (schema.Contact, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, _, err := d.store.FindByName(name)
	return c, err
}

// FindByID returns the contact with id, deleted or not
func (d *Directory) FindByID(id int) (schema.Contact, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, _, err := d.store.FindByID(id)
	return c, err
}

// Search returns live contacts whose name, phone or email contains query,
// ignoring case. An empty query matches nothing.
func (d *Directory) Search(query string) []schema.Contact {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var out []schema.Contact
	for _, c := range d.store.All() {
		if c.IsDeleted {
			continue
		}
		if strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.Phone), query) ||
			strings.Contains(strings.ToLower(c.Email), query) {
			out = append(out, c)
		}
	}
	return out
}

// ListActive returns live contacts in positional order
func (d *Directory) ListActive() []schema.Contact {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []schema.Contact
	for _, c := range d.store.All() {
		if c.Live() {
			out = append(out, c)
		}
	}
	return out
}

// ListAll returns every contact in positional order
func (d *Directory) ListAll() []schema.Contact {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Records()
}

// ListRestoreEligible returns deleted contacts still inside the restore window at now
func (d *Directory) ListRestoreEligible(now time.Time) []schema.Contact {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []schema.Contact
	for _, c := range d.store.All() {
		if storage.WithinRestoreWindow(c, now, d.restoreWindow) {
			out = append(out, c)
		}
	}
	return out
}
