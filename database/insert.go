package database

import (
	"errors"
	"time"

	"github.com/mainakpaul2005/MiniTel/schema"
	"github.com/mainakpaul2005/MiniTel/storage"
)

// Add validates in and appends a new live contact with the next id. Nothing
// is applied when validation fails or the name is taken.
func (d *Directory) Add(now time.Time, in schema.ContactInput) (schema.Contact, error) {
	if err := in.Validate(); err != nil {
		return schema.Contact{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	c := schema.Contact{
		ID:    d.store.NextID(),
		Name:  schema.NormalizeName(in.Name),
		Phone: in.Phone,
		Email: in.Email,
	}
	pos, err := d.store.Insert(c)
	if err != nil {
		if errors.Is(err, storage.ErrNameTaken) {
			return schema.Contact{}, ErrDuplicateName
		}
		return schema.Contact{}, err
	}
	c, _ = d.store.Get(pos)

	d.logger.Debug("contact added", "id", c.ID, "name", c.Name)
	return c, d.commit(now, c)
}
