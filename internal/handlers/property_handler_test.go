package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/estatedesk/internal/ai"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/models"
)

func TestPropertyHandler_List(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{
			name:     "no filters returns seeded listings",
			query:    "",
			expected: []string{"prop-1", "prop-2", "prop-3", "prop-test-empty", "prop-test-shop"},
		},
		{
			name:     "rent only",
			query:    "?transactionType=rent",
			expected: []string{"prop-2", "prop-test-shop"},
		},
		{
			name:     "residential off",
			query:    "?residential=false",
			expected: []string{"prop-2", "prop-test-shop"},
		},
		{
			name:     "text query",
			query:    "?q=نیاوران",
			expected: []string{"prop-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			w := srv.do(t, http.MethodGet, "/api/v1/properties"+tt.query, nil)

			require.Equal(t, http.StatusOK, w.Code)
			resp := decode[ListResponse[models.Property]](t, w)
			ids := make([]string, 0, len(resp.Items))
			for _, p := range resp.Items {
				ids = append(ids, p.ID)
			}
			assert.ElementsMatch(t, tt.expected, ids)
			assert.Equal(t, len(tt.expected), resp.Count)
		})
	}
}

func TestPropertyHandler_ListInvalidQuery(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/properties?transactionType=swap", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	detail := decodeError(t, w)
	assert.Equal(t, apierrors.ErrValidation, detail.Code)
	assert.Contains(t, detail.Details, "TransactionType")
}

func TestPropertyHandler_Get(t *testing.T) {
	srv := newTestServer(t)

	t.Run("found", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/properties/prop-1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		p := decode[models.Property](t, w)
		assert.Equal(t, "آپارتمان مدرن در نیاوران", p.Title)
	})

	t.Run("not found", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/properties/missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		detail := decodeError(t, w)
		assert.Equal(t, apierrors.ErrNotFound, detail.Code)
		assert.Equal(t, "Property not found", detail.Message)
	})
}

func TestPropertyHandler_SaveUpdateDelete(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/properties", map[string]interface{}{
		"title":           "دفتر کار در ونک",
		"category":        "commercial",
		"type":            "دفتر",
		"transactionType": "sale",
		"priceTotal":      4000000000,
	})
	require.Equal(t, http.StatusOK, w.Code)
	created := decode[SaveResponse[models.Property]](t, w)
	require.NotNil(t, created.Item)
	assert.NotEmpty(t, created.Item.ID)
	assert.Equal(t, "1403/5/1", created.Item.Date)
	assert.Len(t, created.Items, 6)

	id := created.Item.ID
	w = srv.do(t, http.MethodPut, "/api/v1/properties/"+id, map[string]interface{}{
		"id":    "ignored",
		"title": "دفتر کار نوساز در ونک",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[SaveResponse[models.Property]](t, w)
	assert.Equal(t, id, updated.Item.ID)
	assert.Equal(t, "دفتر کار نوساز در ونک", updated.Item.Title)
	assert.Equal(t, models.CategoryCommercial, updated.Item.Category)
	assert.Len(t, updated.Items, 6)

	w = srv.do(t, http.MethodDelete, "/api/v1/properties/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(t, http.MethodDelete, "/api/v1/properties/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/properties/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPropertyHandler_SaveValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  interface{}
		field string
	}{
		{
			name:  "missing title",
			body:  map[string]interface{}{"category": "residential", "transactionType": "sale"},
			field: "title",
		},
		{
			name:  "unknown category",
			body:  map[string]interface{}{"title": "x", "category": "industrial", "transactionType": "sale"},
			field: "category",
		},
		{
			name:  "negative area",
			body:  map[string]interface{}{"title": "x", "category": "residential", "transactionType": "sale", "area": -5},
			field: "area",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			w := srv.do(t, http.MethodPost, "/api/v1/properties", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			detail := decodeError(t, w)
			assert.Equal(t, apierrors.ErrValidation, detail.Code)
			assert.Contains(t, detail.Details, tt.field)
		})
	}

	t.Run("body is not an object", func(t *testing.T) {
		srv := newTestServer(t)

		w := srv.do(t, http.MethodPost, "/api/v1/properties", "[1,2]")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierrors.ErrBadRequest, decodeError(t, w).Code)
	})
}

func TestPropertyHandler_Instant(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/properties/instant?q=لواسان", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[ListResponse[models.Property]](t, w)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "prop-3", resp.Items[0].ID)

	w = srv.do(t, http.MethodGet, "/api/v1/properties/instant?q=a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"count":0}`, w.Body.String())
}

func TestPropertyHandler_Nearby(t *testing.T) {
	t.Run("finds listing at the point", func(t *testing.T) {
		srv := newTestServer(t)

		w := srv.do(t, http.MethodGet, "/api/v1/properties/nearby?lat=35.8123&lng=51.4678", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[NearbyResponse](t, w)
		require.NotEmpty(t, resp.Properties)
		assert.Equal(t, "prop-1", resp.Properties[0].ID)
		assert.InDelta(t, 0, resp.Properties[0].DistanceMeters, 1)
		assert.Equal(t, len(resp.Properties), resp.Count)
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		srv := newTestServer(t)

		w := srv.do(t, http.MethodGet, "/api/v1/properties/nearby?lat=29.6&lng=52.5&radius=100", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"properties":[],"count":0}`, w.Body.String())
	})

	tests := []struct {
		name  string
		query string
		code  string
	}{
		{name: "missing lat", query: "?lng=51.4", code: apierrors.ErrValidation},
		{name: "radius too large", query: "?lat=35.7&lng=51.4&radius=6000", code: apierrors.ErrValidation},
		{name: "latitude out of range", query: "?lat=95&lng=51.4", code: apierrors.ErrBadRequest},
		{name: "not a number", query: "?lat=north&lng=51.4", code: apierrors.ErrBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			w := srv.do(t, http.MethodGet, "/api/v1/properties/nearby"+tt.query, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestPropertyHandler_Markers(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/properties/markers", nil)

	require.Equal(t, http.StatusOK, w.Code)
	fc := decode[models.FeatureCollection](t, w)
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 5)
}

func TestPropertyHandler_AdCopy(t *testing.T) {
	t.Run("without a key", func(t *testing.T) {
		srv := newTestServer(t)

		w := srv.do(t, http.MethodPost, "/api/v1/properties/prop-1/ad-copy", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		detail := decodeError(t, w)
		assert.Equal(t, apierrors.ErrBadRequest, detail.Code)
		assert.Equal(t, "ai_not_configured", detail.Details["reason"])
		srv.gen.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
	})

	t.Run("writes the ad", func(t *testing.T) {
		srv := newTestServer(t)
		srv.storeValidKeys(t)
		srv.gen.On("GenerateText", mock.Anything, mock.MatchedBy(func(req ai.TextRequest) bool {
			return req.APIKey == "text-key"
		})).Return("آگهی ویژه", nil)

		w := srv.do(t, http.MethodPost, "/api/v1/properties/prop-1/ad-copy", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "آگهی ویژه", decode[TextResponse](t, w).Text)
		srv.gen.AssertExpectations(t)
	})

	t.Run("service failure is a bad gateway", func(t *testing.T) {
		srv := newTestServer(t)
		srv.storeValidKeys(t)
		srv.gen.On("GenerateText", mock.Anything, mock.Anything).
			Return("", &ai.ServiceError{Status: 429, Message: "Too many requests. Try again in a minute."})

		w := srv.do(t, http.MethodPost, "/api/v1/properties/prop-1/ad-copy", nil)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		detail := decodeError(t, w)
		assert.Equal(t, apierrors.ErrExternalService, detail.Code)
		assert.Equal(t, "Too many requests. Try again in a minute.", detail.Message)
	})

	t.Run("unknown listing", func(t *testing.T) {
		srv := newTestServer(t)
		srv.storeValidKeys(t)

		w := srv.do(t, http.MethodPost, "/api/v1/properties/missing/ad-copy", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPropertyHandler_Staging(t *testing.T) {
	srv := newTestServer(t)
	srv.storeValidKeys(t)
	srv.gen.On("EditImage", mock.Anything, mock.MatchedBy(func(req ai.ImageRequest) bool {
		return req.APIKey == "image-key" && req.MIMEType == "image/png" && string(req.Image) == "png"
	})).Return(&ai.Image{Data: []byte("out"), MIMEType: "image/png"}, nil)

	w := srv.do(t, http.MethodPost, "/api/v1/properties/prop-test-empty/staging", map[string]interface{}{
		"image": "data:image/png;base64,cG5n",
		"style": "modern",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "data:image/png;base64,b3V0", decode[ImageResponse](t, w).Image)
	srv.gen.AssertExpectations(t)

	t.Run("style is required", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/properties/prop-test-empty/staging", map[string]interface{}{
			"image": "data:image/png;base64,cG5n",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Details, "style")
	})
}
