// Package storage is the key-value persistence layer. Every collection
// and the settings object is stored as one JSON document under one key.
package storage

import (
	"context"
	"errors"
)

// Keys of the persisted documents.
const (
	KeyProperties    = "properties"
	KeyClients       = "clients"
	KeyTasks         = "tasks"
	KeyCommissions   = "commissions"
	KeyUsers         = "users_list"
	KeySettings      = "app_settings"
	KeySavedSearches = "saved_searches"
)

// AllKeys lists every key in backup order.
var AllKeys = []string{
	KeyProperties,
	KeyClients,
	KeyTasks,
	KeyCommissions,
	KeyUsers,
	KeySettings,
	KeySavedSearches,
}

// IsKnownKey reports whether key is one of AllKeys.
func IsKnownKey(key string) bool {
	for _, k := range AllKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ErrInvalidKey is returned for keys that cannot be stored.
var ErrInvalidKey = errors.New("invalid storage key")

// Store persists opaque JSON documents by key.
type Store interface {
	// Get returns the stored value. found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the stored keys in lexical order.
	Keys(ctx context.Context) ([]string, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	for _, r := range key {
		if !(r == '_' || r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return ErrInvalidKey
		}
	}
	return nil
}
