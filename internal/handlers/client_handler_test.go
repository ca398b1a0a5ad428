package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/models"
)

func createClient(t *testing.T, srv *testServer) models.Client {
	t.Helper()
	w := srv.do(t, http.MethodPost, "/api/v1/clients", map[string]interface{}{
		"name":         "Ahmadi",
		"phone":        "09120000000",
		"requestType":  "rent",
		"propertyType": "office",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[SaveResponse[models.Client]](t, w)
	require.NotNil(t, resp.Item)
	return *resp.Item
}

func TestClientHandler_Save(t *testing.T) {
	srv := newTestServer(t)

	client := createClient(t, srv)
	assert.NotEmpty(t, client.ID)
	assert.Equal(t, "1403/5/1", client.Date)
	assert.Equal(t, models.CategoryOffice, client.PropertyType)

	w := srv.do(t, http.MethodPut, "/api/v1/clients/"+client.ID, map[string]interface{}{
		"budgetMax": 3000000000,
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[SaveResponse[models.Client]](t, w)
	assert.Equal(t, "Ahmadi", resp.Item.Name)
	require.NotNil(t, resp.Item.BudgetMax)
	assert.Equal(t, 3000000000.0, *resp.Item.BudgetMax)
	assert.Len(t, resp.Items, 1)

	w = srv.do(t, http.MethodGet, "/api/v1/clients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[ListResponse[models.Client]](t, w).Count)
}

func TestClientHandler_SaveValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{name: "missing name", body: map[string]interface{}{"phone": "0912"}, field: "name"},
		{name: "unknown request type", body: map[string]interface{}{"name": "x", "requestType": "swap"}, field: "requestType"},
		{name: "budget range inverted", body: map[string]interface{}{"name": "x", "budgetMin": 10, "budgetMax": 5}, field: "budgetMax"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			w := srv.do(t, http.MethodPost, "/api/v1/clients", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			detail := decodeError(t, w)
			assert.Equal(t, apierrors.ErrValidation, detail.Code)
			assert.Contains(t, detail.Details, tt.field)
		})
	}
}

func TestClientHandler_Reminders(t *testing.T) {
	srv := newTestServer(t)
	client := createClient(t, srv)
	base := "/api/v1/clients/" + client.ID + "/reminders"

	w := srv.do(t, http.MethodPost, base, map[string]interface{}{
		"title": "Call back",
		"date":  "1403/5/2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	updated := decode[models.Client](t, w)
	require.Len(t, updated.Reminders, 1)
	reminder := updated.Reminders[0]
	assert.NotEmpty(t, reminder.ID)
	assert.Equal(t, models.DefaultReminderTime, reminder.Time)
	assert.False(t, reminder.IsCompleted)

	w = srv.do(t, http.MethodPatch, base+"/"+reminder.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.Client](t, w).Reminders[0].IsCompleted)

	w = srv.do(t, http.MethodPatch, base+"/missing/toggle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Reminder not found", decodeError(t, w).Message)

	w = srv.do(t, http.MethodDelete, base+"/missing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[models.Client](t, w).Reminders, 1)

	w = srv.do(t, http.MethodDelete, base+"/"+reminder.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[models.Client](t, w).Reminders)
}

func TestClientHandler_ReminderValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]interface{}
		field   string
		message string
	}{
		{
			name:    "title required",
			body:    map[string]interface{}{"date": "1403/5/2"},
			field:   "title",
			message: "A reminder needs a title",
		},
		{
			name:    "date required",
			body:    map[string]interface{}{"title": "Call back"},
			field:   "date",
			message: "A reminder needs a date",
		},
		{
			name:    "malformed date",
			body:    map[string]interface{}{"title": "Call back", "date": "tomorrow"},
			field:   "Date",
			message: "Validation failed for one or more fields",
		},
		{
			name:    "malformed time",
			body:    map[string]interface{}{"title": "Call back", "date": "1403/5/2", "time": "25:00"},
			field:   "Time",
			message: "Validation failed for one or more fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			client := createClient(t, srv)

			w := srv.do(t, http.MethodPost, "/api/v1/clients/"+client.ID+"/reminders", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			detail := decodeError(t, w)
			assert.Equal(t, apierrors.ErrValidation, detail.Code)
			assert.Equal(t, tt.message, detail.Message)
			assert.Contains(t, detail.Details, tt.field)
		})
	}

	t.Run("unknown client", func(t *testing.T) {
		srv := newTestServer(t)

		w := srv.do(t, http.MethodPost, "/api/v1/clients/missing/reminders", map[string]interface{}{
			"title": "Call back",
			"date":  "1403/5/2",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Client not found", decodeError(t, w).Message)
	})
}

func TestClientHandler_Delete(t *testing.T) {
	srv := newTestServer(t)
	client := createClient(t, srv)

	w := srv.do(t, http.MethodDelete, "/api/v1/clients/"+client.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/clients/"+client.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
