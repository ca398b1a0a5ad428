package repository

import (
	"time"

	"github.com/stwalsh4118/estatedesk/internal/jalali"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/storage"
)

// NewPropertyRepository stores listings under "properties", seeded with
// the example listings. Prices are normalized on every write.
func NewPropertyRepository(store storage.Store, ids *IDGenerator, log *logger.Logger) *Collection[models.Property] {
	return NewCollection(store, ids, log, Options[models.Property]{
		Key:  storage.KeyProperties,
		IDOf: func(p *models.Property) *string { return &p.ID },
		Seed: SeedProperties,
		Normalize: func(p *models.Property, _ Patch, _ bool) {
			p.NormalizePrice()
			if p.Features == nil {
				p.Features = []string{}
			}
			if p.Images == nil {
				p.Images = []string{}
			}
		},
	})
}

// NewClientRepository stores clients under "clients".
func NewClientRepository(store storage.Store, ids *IDGenerator, log *logger.Logger) *Collection[models.Client] {
	return NewCollection(store, ids, log, Options[models.Client]{
		Key:  storage.KeyClients,
		IDOf: func(c *models.Client) *string { return &c.ID },
	})
}

// NewTaskRepository stores tasks under "tasks".
func NewTaskRepository(store storage.Store, ids *IDGenerator, log *logger.Logger) *Collection[models.Task] {
	return NewCollection(store, ids, log, Options[models.Task]{
		Key:  storage.KeyTasks,
		IDOf: func(t *models.Task) *string { return &t.ID },
	})
}

// NewCommissionRepository stores commissions under "commissions". A new
// record without a total gets the suggested total; the agent share is
// recomputed on every write.
func NewCommissionRepository(store storage.Store, ids *IDGenerator, log *logger.Logger) *Collection[models.Commission] {
	return NewCollection(store, ids, log, Options[models.Commission]{
		Key:  storage.KeyCommissions,
		IDOf: func(c *models.Commission) *string { return &c.ID },
		Normalize: func(c *models.Commission, patch Patch, created bool) {
			if created && !patch.Has("totalCommission") {
				c.TotalCommission = models.SuggestTotal(c.PropertyPrice)
			}
			c.Recompute()
		},
	})
}

// NewUserRepository stores operators under "users_list". New users are
// appended, start at 0,0 and are stamped as seen now.
func NewUserRepository(store storage.Store, ids *IDGenerator, log *logger.Logger, now func() time.Time) *Collection[models.User] {
	return NewCollection(store, ids, log, Options[models.User]{
		Key:       storage.KeyUsers,
		IDOf:      func(u *models.User) *string { return &u.ID },
		Seed:      SeedUsers,
		Placement: Append,
		OnCreate: func(u *models.User) {
			zero := 0.0
			u.Lat = &zero
			lng := 0.0
			u.Lng = &lng
			u.LastSeen = jalali.Stamp(now())
		},
	})
}

// NewSavedSearchRepository stores saved searches under "saved_searches".
// New searches are appended.
func NewSavedSearchRepository(store storage.Store, ids *IDGenerator, log *logger.Logger) *Collection[models.SavedSearch] {
	return NewCollection(store, ids, log, Options[models.SavedSearch]{
		Key:       storage.KeySavedSearches,
		IDOf:      func(s *models.SavedSearch) *string { return &s.ID },
		Placement: Append,
	})
}
