package storage

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/estatedesk/internal/config"
	"github.com/stwalsh4118/estatedesk/internal/database"
)

// Open builds the backend selected by cfg.Storage.Driver. The returned
// close function releases any connections and is never nil.
func Open(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return NewMemoryStore(), func() {}, nil

	case config.DriverFile:
		store, err := NewFileStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, func() {}, err
		}
		return store, func() {}, nil

	case config.DriverPostgres:
		db, err := database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			return nil, func() {}, err
		}
		return NewPostgresStore(db), db.Close, nil

	case config.DriverRedis:
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, func() {}, err
		}
		return NewRedisStore(client, cfg.Redis.Prefix), func() { client.Close() }, nil

	default:
		return nil, func() {}, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
