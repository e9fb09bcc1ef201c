package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"office-status-backend/config"
	"office-status-backend/internal/session"
)

func TestPutSubscriptionInvalidBody(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPut, "/subscriptions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
}

func TestSubscriptionRoundTrip(t *testing.T) {
	r, s := setupRouter(t)
	doJSON(t, r, http.MethodPost, "/office/create", gin.H{"name": "Acme"})

	var officeID int64
	require.NoError(t, s.DB().Raw("SELECT id FROM offices WHERE name = ?", "Acme").Scan(&officeID).Error)

	w := doJSON(t, r, http.MethodPut, "/subscriptions", gin.H{
		"endpoint":           "https://example.com/push/abc",
		"p256dh":             "key",
		"auth":               "auth",
		"subscribed_offices": []int64{officeID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	get := doJSON(t, r, http.MethodGet, "/subscriptions?endpoint=https://example.com/push/abc", nil)
	require.Equal(t, http.StatusOK, get.Code, get.Body.String())

	var resp struct {
		SubscribedOffices []int64 `json:"subscribed_offices"`
	}
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &resp))
	assert.Equal(t, []int64{officeID}, resp.SubscribedOffices)

	del := doJSON(t, r, http.MethodDelete, "/subscriptions", gin.H{"endpoint": "https://example.com/push/abc"})
	assert.Equal(t, http.StatusNoContent, del.Code)

	get = doJSON(t, r, http.MethodGet, "/subscriptions?endpoint=https://example.com/push/abc", nil)
	assert.Equal(t, http.StatusNotFound, get.Code)
}

func TestGetVAPIDPublicKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not configured", func(t *testing.T) {
		r, _ := setupRouter(t)
		w := doJSON(t, r, http.MethodGet, "/vapid_public_key", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("configured", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Session.Secret = "test-secret"
		cfg.Session.CookieName = "session_id"
		sessions := session.NewStore(cfg.Session.Secret, 0)
		r := NewRouter(cfg, nil, sessions, nil, &webpush.Options{VAPIDPublicKey: "pub-key"})

		req := httptest.NewRequest(http.MethodGet, "/vapid_public_key", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"public_key":"pub-key"}`, w.Body.String())
	})
}
