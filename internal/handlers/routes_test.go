package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/streamhub/backend/internal/accounts"
	"github.com/streamhub/backend/internal/auth"
	"github.com/streamhub/backend/internal/models"
)

func newTestMux(t *testing.T) (*http.ServeMux, *inMemoryUserRepo) {
	t.Helper()

	repo := newInMemoryUserRepo()
	tokens := auth.NewTokenService("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)

	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{
		Accounts:      accounts.NewService(repo),
		Sessions:      auth.NewManager(tokens, auth.NewInMemorySessionStore()),
		Tokens:        tokens,
		Views:         &fakeViewEngine{profiles: map[string]models.ChannelProfile{}},
		Channels:      &fakeChannelDirectory{channels: map[string]models.User{}},
		Subscriptions: newFakeSubscriptionStore(),
		Videos:        newFakeVideoStore(),
		Images:        &fakeImageStorage{},
	})
	return mux, repo
}

func TestRoutesHealthz(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
}

func TestRoutesProtectedEndpointsRequireAuth(t *testing.T) {
	mux, _ := newTestMux(t)

	protected := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodPost, "/api/v1/users/change-password"},
		{http.MethodGet, "/api/v1/users/history"},
		{http.MethodGet, "/api/v1/channels/somebody"},
		{http.MethodPost, "/api/v1/channels/somebody/subscribe"},
		{http.MethodPost, "/api/v1/videos"},
		{http.MethodGet, "/api/v1/videos/v1"},
	}

	for _, route := range protected {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(route.method, route.target, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected status %d got %d", route.method, route.target, http.StatusUnauthorized, rec.Code)
		}
	}
}

func TestRoutesRegisterLoginAndFetchSelf(t *testing.T) {
	mux, _ := newTestMux(t)

	body, contentType := multipartRegisterBody(t, map[string]string{
		"fullName": "Routed User",
		"email":    "routed@example.com",
		"username": "routed",
		"password": "supersafe",
	}, map[string]string{"avatar": "avatar.png"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	loginBody, _ := json.Marshal(loginRequest{Username: "routed", Password: "supersafe"})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(loginBody))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var envelope testEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	var payload authPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		t.Fatalf("decode login data: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+payload.Tokens.AccessToken)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode me response: %v", err)
	}
	var me models.PublicUser
	if err := json.Unmarshal(envelope.Data, &me); err != nil {
		t.Fatalf("decode me data: %v", err)
	}
	if me.Username != "routed" {
		t.Fatalf("expected routed got %q", me.Username)
	}
}
