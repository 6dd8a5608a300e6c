package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"maitred/internal/catalog"
	"maitred/internal/engine"
	"maitred/internal/models"
	"maitred/internal/session"
)

type stubGenerator struct {
	reply string
	err   error
}

func (g *stubGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	return g.reply, g.err
}

func testServer(reply string) *Server {
	gin.SetMode(gin.TestMode)
	resolver := engine.NewResolver(
		session.NewStore(),
		&catalog.StaticSource{Restaurants: []models.Restaurant{}},
		&stubGenerator{reply: reply},
		nil,
	)
	return NewServer(resolver)
}

func postChat(t *testing.T, srv *Server, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)
	return w
}

func TestChatMintsSessionID(t *testing.T) {
	srv := testServer("What would you like to eat?")

	w := postChat(t, srv, map[string]any{"text": "hello"})
	assert.Equal(t, http.StatusOK, w.Code)

	var result engine.Result
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, "What would you like to eat?", result.Reply)
}

func TestChatKeepsSuppliedSessionID(t *testing.T) {
	srv := testServer("Noted!")

	w := postChat(t, srv, map[string]any{"session_id": "mine", "text": "two veg pizzas"})
	assert.Equal(t, http.StatusOK, w.Code)

	var result engine.Result
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "mine", result.SessionID)
	assert.NotNil(t, result.Slots.Food)
	assert.Equal(t, "pizza", *result.Slots.Food)
}

func TestChatRejectsMissingText(t *testing.T) {
	srv := testServer("unused")

	w := postChat(t, srv, map[string]any{"session_id": "mine"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatRejectsBadCoordinate(t *testing.T) {
	srv := testServer("unused")

	w := postChat(t, srv, map[string]any{"text": "hi", "lat": 99.0, "lng": 0.0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearSessionEndpoint(t *testing.T) {
	srv := testServer("Hi!")
	postChat(t, srv, map[string]any{"session_id": "mine", "text": "hello"})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/mine", nil)
	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Second delete finds nothing.
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/mine", nil)
	w = httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	srv := testServer("unused")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
