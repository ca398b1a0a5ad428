package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/storage"
)

// legacyBackupKeys maps key names used by older exports.
var legacyBackupKeys = map[string]string{
	"users":    storage.KeyUsers,
	"settings": storage.KeySettings,
}

// RestoreResult reports what a restore wrote and skipped.
type RestoreResult struct {
	Restored []string `json:"restored"`
	Skipped  []string `json:"skipped"`
}

// BackupService exports and restores every stored document.
type BackupService interface {
	// Export returns every stored document keyed by storage key.
	Export(ctx context.Context) (map[string]json.RawMessage, error)

	// Restore writes back each recognized key of doc. Values may be JSON
	// or JSON-encoded strings. Unknown keys are skipped.
	Restore(ctx context.Context, doc []byte) (RestoreResult, error)
}

type backupService struct {
	store storage.Store
	log   *logger.Logger
}

// NewBackupService creates a new instance of BackupService.
func NewBackupService(store storage.Store, log *logger.Logger) BackupService {
	return &backupService{store: store, log: log}
}

func (s *backupService) Export(ctx context.Context) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(storage.AllKeys))
	for _, key := range storage.AllKeys {
		data, found, err := s.store.Get(ctx, key)
		if err != nil {
			s.log.Error("Failed to read key for backup", err, map[string]interface{}{"key": key})
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !found || !json.Valid(data) {
			continue
		}
		out[key] = json.RawMessage(data)
	}

	s.log.Info("Backup exported", map[string]interface{}{"keys": len(out)})
	return out, nil
}

func (s *backupService) Restore(ctx context.Context, doc []byte) (RestoreResult, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(doc, &entries); err != nil || entries == nil {
		return RestoreResult{}, fmt.Errorf("%w: expected a JSON object", ErrInvalidBackup)
	}

	type write struct {
		key   string
		value []byte
	}
	writes := make([]write, 0, len(entries))
	result := RestoreResult{Restored: []string{}, Skipped: []string{}}

	for _, name := range sortedKeys(entries) {
		key := name
		if mapped, ok := legacyBackupKeys[name]; ok {
			key = mapped
		}
		if !storage.IsKnownKey(key) {
			result.Skipped = append(result.Skipped, name)
			continue
		}

		value, err := backupValue(entries[name])
		if err != nil {
			return RestoreResult{}, fmt.Errorf("%w: %s: %v", ErrInvalidBackup, name, err)
		}
		writes = append(writes, write{key: key, value: value})
	}

	for _, w := range writes {
		if err := s.store.Set(ctx, w.key, w.value); err != nil {
			s.log.Error("Failed to restore key", err, map[string]interface{}{"key": w.key})
			return result, fmt.Errorf("%w: %s: %v", ErrStorage, w.key, err)
		}
		result.Restored = append(result.Restored, w.key)
	}

	s.log.Info("Backup restored", map[string]interface{}{
		"restored": result.Restored,
		"skipped":  result.Skipped,
	})
	return result, nil
}

// backupValue unwraps a value that may be a JSON-encoded string and
// checks it is an array or object.
func backupValue(raw json.RawMessage) ([]byte, error) {
	value := bytes.TrimSpace(raw)
	if len(value) > 0 && value[0] == '"' {
		var inner string
		if err := json.Unmarshal(value, &inner); err != nil {
			return nil, err
		}
		value = bytes.TrimSpace([]byte(inner))
	}
	if !json.Valid(value) {
		return nil, fmt.Errorf("value is not JSON")
	}
	if value[0] != '[' && value[0] != '{' {
		return nil, fmt.Errorf("value must be an array or object")
	}
	return value, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
