package database

import (
	"errors"
	"time"

	"github.com/mainakpaul2005/MiniTel/schema"
	"github.com/mainakpaul2005/MiniTel/storage"
)

// RestoreAll restores every deleted contact inside the restore window at
// now. Contacts whose name now belongs to a live contact are skipped. The
// restored contacts are returned in positional order.
func (d *Directory) RestoreAll(now time.Time) ([]schema.Contact, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var eligible []int
	for pos, c := range d.store.All() {
		if storage.WithinRestoreWindow(c, now, d.restoreWindow) {
			eligible = append(eligible, pos)
		}
	}

	var restored []schema.Contact
	for _, pos := range eligible {
		if err := d.store.MarkRestored(pos, now, d.restoreWindow); err != nil {
			c, _ := d.store.Get(pos)
			if errors.Is(err, storage.ErrNameTaken) {
				d.logger.Warn("restore skipped, name in use", "id", c.ID, "name", c.Name)
				continue
			}
			return restored, err
		}
		c, _ := d.store.Get(pos)
		restored = append(restored, c)
	}

	if len(restored) == 0 {
		return nil, nil
	}
	d.logger.Debug("contacts restored", "count", len(restored))
	return restored, d.commit(now, restored...)
}

// Restore restores the single deleted contact with id
func (d *Directory) Restore(now time.Time, id int) (schema.Contact, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, pos, err := d.store.FindByID(id)
	if err != nil {
		return schema.Contact{}, err
	}
	if err := d.store.MarkRestored(pos, now, d.restoreWindow); err != nil {
		if errors.Is(err, storage.ErrNameTaken) {
			return schema.Contact{}, ErrDuplicateName
		}
		return schema.Contact{}, err
	}
	c, _ := d.store.Get(pos)

	d.logger.Debug("contact restored", "id", c.ID, "name", c.Name)
	return c, d.commit(now, c)
}
