package database

import (
	"time"

	"github.com/mainakpaul2005/MiniTel/schema"
)

// Delete soft-deletes the live contact with name. Without confirmation the
// contact is returned unchanged together with ErrNotConfirmed, so callers
// can show what would be deleted.
func (d *Directory) Delete(now time.Time, name string, confirmed bool) (schema.Contact, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, pos, err := d.store.FindByName(name)
	if err != nil {
		return schema.Contact{}, err
	}
	if !confirmed {
		return c, ErrNotConfirmed
	}

	if err := d.store.MarkDeleted(pos, now); err != nil {
		return schema.Contact{}, err
	}
	c, _ = d.store.Get(pos)

	d.logger.Debug("contact deleted", "id", c.ID, "name", c.Name)
	return c, d.commit(now, c)
}
