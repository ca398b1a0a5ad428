package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/estatedesk/internal/ai"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
	"github.com/stwalsh4118/estatedesk/internal/services"
	"github.com/stwalsh4118/estatedesk/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// tehran is a fixed +03:30 zone so tests do not depend on tzdata.
var tehran = time.FixedZone("IRST", 3*3600+30*60)

// testNow is 1403/5/1 10:00 in tehran.
var testNow = time.Date(2024, 7, 22, 10, 0, 0, 0, tehran)

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
	img, _ := args.Get(0).(*ai.Image)
	return img, args.Error(1)
}

type testServer struct {
	router   *gin.Engine
	store    *storage.MemoryStore
	gen      *MockGenerator
	feed     *services.NotificationFeed
	settings services.SettingsService
}

// newTestServer wires the full router over a memory store with the AI
// generator mocked.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.Nop()
	store := storage.NewMemoryStore()
	gen := new(MockGenerator)
	now := services.Clock(func() time.Time { return testNow })
	ids := repository.NewIDGeneratorWithClock(now)
	feed := services.NewNotificationFeed(0)

	propertyRepo := repository.NewPropertyRepository(store, ids, log)
	clientRepo := repository.NewClientRepository(store, ids, log)
	taskRepo := repository.NewTaskRepository(store, ids, log)
	commissionRepo := repository.NewCommissionRepository(store, ids, log)
	userRepo := repository.NewUserRepository(store, ids, log, now)
	savedSearchRepo := repository.NewSavedSearchRepository(store, ids, log)

	settings := services.NewSettingsService(store, gen, services.AIModels{Text: "text-model", Image: "image-model"}, log)
	properties := services.NewPropertyService(propertyRepo, now, log)
	clients := services.NewClientService(clientRepo, ids, now, log)
	tasks := services.NewTaskService(taskRepo, feed, tehran, log)
	commissions := services.NewCommissionService(commissionRepo, log)
	users := services.NewUserService(userRepo, now, log)
	searches := services.NewSavedSearchService(savedSearchRepo, log)
	assistant := services.NewAssistantService(gen, settings, propertyRepo, clientRepo, userRepo, log)
	dashboard := services.NewDashboardService(properties, clients, tasks, commissions, users, searches, settings, feed, now, log)

	router := NewRouter(log, RouterConfig{
		CORSOrigins:  []string{"http://localhost:3000"},
		ActiveUserID: "admin-1",
	}, Handlers{
		Health:        NewHealthHandler(store, "memory", "test"),
		Properties:    NewPropertyHandler(properties, assistant),
		Clients:       NewClientHandler(clients),
		Tasks:         NewTaskHandler(tasks, assistant, now),
		Commissions:   NewCommissionHandler(commissions),
		Users:         NewUserHandler(users),
		SavedSearches: NewSavedSearchHandler(searches),
		Settings:      NewSettingsHandler(settings),
		Assistant:     NewAssistantHandler(assistant),
		Dashboard:     NewDashboardHandler(dashboard, feed),
		Calendar:      NewCalendarHandler(now),
		Backup:        NewBackupHandler(services.NewBackupService(store, log)),
	})

	return &testServer{
		router:   router,
		store:    store,
		gen:      gen,
		feed:     feed,
		settings: settings,
	}
}

// storeValidKeys saves validated AI keys so assistant calls reach the
// generator.
func (s *testServer) storeValidKeys(t *testing.T) {
	t.Helper()
	require.NoError(t, s.settings.Save(context.Background(), models.Settings{
		TextAI:  &models.AIKeyConfig{APIKey: "text-key", Model: "text-model", IsValid: true},
		ImageAI: &models.AIKeyConfig{APIKey: "image-key", Model: "image-model", IsValid: true},
	}))
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.ErrorDetail {
	t.Helper()
	return decode[apierrors.ErrorResponse](t, w).Error
}
