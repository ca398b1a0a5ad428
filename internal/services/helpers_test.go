package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/estatedesk/internal/ai"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
	"github.com/stwalsh4118/estatedesk/internal/storage"
)

// tehran is a fixed +03:30 zone so tests do not depend on tzdata.
var tehran = time.FixedZone("IRST", 3*3600+30*60)

// at1403_5_1 is 1403/5/1 10:00 in tehran (2024-07-22).
var at1403_5_1 = time.Date(2024, 7, 22, 10, 0, 0, 0, tehran)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

type testEnv struct {
	store       *storage.MemoryStore
	ids         *repository.IDGenerator
	now         Clock
	properties  *repository.Collection[models.Property]
	clients     *repository.Collection[models.Client]
	tasks       *repository.Collection[models.Task]
	commissions *repository.Collection[models.Commission]
	users       *repository.Collection[models.User]
	searches    *repository.Collection[models.SavedSearch]
	feed        *NotificationFeed
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := storage.NewMemoryStore()
	now := fixedClock(at1403_5_1)
	ids := repository.NewIDGeneratorWithClock(now)
	log := logger.Nop()

	return &testEnv{
		store:       store,
		ids:         ids,
		now:         now,
		properties:  repository.NewPropertyRepository(store, ids, log),
		clients:     repository.NewClientRepository(store, ids, log),
		tasks:       repository.NewTaskRepository(store, ids, log),
		commissions: repository.NewCommissionRepository(store, ids, log),
		users:       repository.NewUserRepository(store, ids, log, now),
		searches:    repository.NewSavedSearchRepository(store, ids, log),
		feed:        NewNotificationFeed(0),
	}
}

func mustPatch(t *testing.T, v interface{}) repository.Patch {
	t.Helper()
	p, err := repository.NewPatch(v)
	require.NoError(t, err)
	return p
}

func float(v float64) *float64 { return &v }

// MockGenerator is a mock implementation of ai.Generator for testing
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateText(ctx context.Context, req ai.TextRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) EditImage(ctx context.Context, req ai.ImageRequest) (*ai.Image, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	img, ok := args.Get(0).(*ai.Image)
	if !ok {
		return nil, args.Error(1)
	}
	return img, args.Error(1)
}

// MockRepository is a mock implementation of repository.Repository for testing
type MockRepository[T any] struct {
	mock.Mock
}

func (m *MockRepository[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]T)
	return items, args.Error(1)
}

func (m *MockRepository[T]) Get(ctx context.Context, id string) (T, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(T)
	return item, args.Error(1)
}

func (m *MockRepository[T]) Upsert(ctx context.Context, patch repository.Patch) (T, []T, error) {
	args := m.Called(ctx, patch)
	item, _ := args.Get(0).(T)
	items, _ := args.Get(1).([]T)
	return item, items, args.Error(2)
}

func (m *MockRepository[T]) UpsertPrepared(ctx context.Context, patch repository.Patch, prepare repository.PrepareFunc) (T, []T, bool, error) {
	args := m.Called(ctx, patch, prepare)
	item, _ := args.Get(0).(T)
	items, _ := args.Get(1).([]T)
	return item, items, args.Bool(2), args.Error(3)
}

func (m *MockRepository[T]) Update(ctx context.Context, id string, fn func(*T) error) (T, error) {
	args := m.Called(ctx, id, fn)
	item, _ := args.Get(0).(T)
	return item, args.Error(1)
}

func (m *MockRepository[T]) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// storeSettings writes a settings document with validated AI keys.
func storeSettings(t *testing.T, store storage.Store, settings models.Settings) {
	t.Helper()
	svc := NewSettingsService(store, new(MockGenerator), AIModels{Text: "text-model", Image: "image-model"}, logger.Nop())
	require.NoError(t, svc.Save(context.Background(), settings))
}

func validKeys() models.Settings {
	return models.Settings{
		TextAI:  &models.AIKeyConfig{APIKey: "text-key", Model: "text-model", IsValid: true},
		ImageAI: &models.AIKeyConfig{APIKey: "image-key", Model: "image-model", IsValid: true},
	}
}
