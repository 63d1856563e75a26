package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rightssphere/config"
	"rightssphere/models"
	"rightssphere/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubCaster struct{ ok bool }

func (s stubCaster) SendEmergencyAlert(ctx context.Context, a services.EmergencyAlert) ([]services.DispatchResult, error) {
	return []services.DispatchResult{{Channel: models.ChannelFarcaster, Success: s.ok}}, nil
}

type stubCompleter struct{ calls int }

func (s *stubCompleter) Complete(ctx context.Context, req services.CompletionRequest) (string, error) {
	s.calls++
	return "# Generated guide", nil
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	llm    *stubCompleter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDB(config.DBConfig{Driver: "sqlite", URL: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := zap.NewNop()
	llm := &stubCompleter{}
	gen := services.NewGenerator(llm, log)
	alerts := NewAlertController(services.NewAlertService(db, services.AlertChannels{Social: stubCaster{ok: true}}, nil, log), log)
	guides := NewGuideController(services.NewGuideService(db, gen, log), log)

	r := gin.New()
	r.POST("/api/alerts/send", alerts.Send)
	r.GET("/api/alerts", alerts.List)
	r.POST("/api/legal-guides/generate", guides.Generate)
	r.GET("/api/legal-guides", guides.Get)
	r.GET("/api/catalog", GetCatalog)
	return &testEnv{db: db, router: r, llm: llm}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestSendAlertMissingFields(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{
		`{}`,
		`{"userId": "u1"}`,
		`{"location": "Main St"}`,
		`{"userId": "u1", "location": {}}`,
		``,
	} {
		w := env.do(t, http.MethodPost, "/api/alerts/send", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error": "User ID and location are required"}`, w.Body.String(), body)
	}

	var n int64
	require.NoError(t, env.db.Model(&models.Alert{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSendAlertMalformedBody(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{
		`{"userId": "u1", "location": "x"`,
		`{"userId": "u1", "location": "x", "contacts": [{"fid": "abc"}]}`,
		`{"userId": 42, "location": "x"}`,
	} {
		w := env.do(t, http.MethodPost, "/api/alerts/send", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error": "Invalid request body"}`, w.Body.String(), body)
	}
}

func TestSendAlertResponseShape(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/alerts/send", `{
		"userId": "u1",
		"location": {"latitude": 40.7128, "longitude": -74.006},
		"contacts": [{"id": "2", "name": "Family", "type": "farcaster", "value": "@family"}]
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Success   bool                      `json:"success"`
		Alert     models.Alert              `json:"alert"`
		Results   []services.DispatchResult `json:"results"`
		SentCount int                       `json:"sentCount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, models.AlertSent, body.Alert.Status)
	assert.Equal(t, 1, body.SentCount)
	assert.Len(t, body.Results, 1)
	assert.Contains(t, body.Alert.MessageTemplate, "40.7128, -74.006")

	w = env.do(t, http.MethodGet, "/api/alerts?userId=u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), body.Alert.AlertID)

	w = env.do(t, http.MethodGet, "/api/alerts", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendAlertWithoutContactsReportsFailed(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/alerts/send", `{"userId": "u1", "location": "Main St"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["sentCount"])
	assert.Equal(t, "failed", body["alert"].(map[string]any)["status"])
	assert.Equal(t, []any{}, body["results"])
}

func TestGuideEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/legal-guides?state=Nevada", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Guide not found"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/legal-guides", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/legal-guides/generate", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "State is required"}`, w.Body.String())

	for i := 0; i < 2; i++ {
		w = env.do(t, http.MethodPost, "/api/legal-guides/generate", `{"state": "Nevada"}`)
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 1, env.llm.calls)

	w = env.do(t, http.MethodGet, "/api/legal-guides?state=Nevada&language=en", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Nevada Rights During Police Interactions")

	w = env.do(t, http.MethodGet, "/api/legal-guides?state=%20Nevada%20", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/legal-guides/generate", `{"state": "Atlantis"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "Unknown state: Atlantis"}`, w.Body.String())
	assert.Equal(t, 1, env.llm.calls)
}

func TestGetCatalog(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		States    []string `json:"states"`
		Scenarios []any    `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.States, 50)
	assert.Len(t, body.Scenarios, 4)
}
