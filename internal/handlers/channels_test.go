package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/streamhub/backend/internal/middleware"
	"github.com/streamhub/backend/internal/models"
	"github.com/streamhub/backend/internal/repositories"
)

type fakeViewEngine struct {
	profiles map[string]models.ChannelProfile
	history  map[string][]models.VideoView
}

func (e *fakeViewEngine) ChannelProfile(_ context.Context, username, _ string) (models.ChannelProfile, error) {
	profile, ok := e.profiles[username]
	if !ok {
		return models.ChannelProfile{}, repositories.ErrNotFound
	}
	return profile, nil
}

func (e *fakeViewEngine) WatchHistory(_ context.Context, userID string) ([]models.VideoView, error) {
	views := e.history[userID]
	if views == nil {
		views = []models.VideoView{}
	}
	return views, nil
}

type fakeChannelDirectory struct {
	channels map[string]models.User
}

func (d *fakeChannelDirectory) FindByUsername(_ context.Context, username string) (models.User, error) {
	channel, ok := d.channels[username]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return channel, nil
}

type fakeSubscriptionStore struct {
	edges map[[2]string]bool
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{edges: make(map[[2]string]bool)}
}

func (s *fakeSubscriptionStore) Subscribe(_ context.Context, subscriberID, channelID string) error {
	key := [2]string{subscriberID, channelID}
	if s.edges[key] {
		return repositories.ErrConflict
	}
	s.edges[key] = true
	return nil
}

func (s *fakeSubscriptionStore) Unsubscribe(_ context.Context, subscriberID, channelID string) error {
	key := [2]string{subscriberID, channelID}
	if !s.edges[key] {
		return repositories.ErrNotFound
	}
	delete(s.edges, key)
	return nil
}

func channelRequest(method, target, username, viewerID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.SetPathValue("username", username)
	if viewerID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), viewerID))
	}
	return req
}

func TestChannelHandlerProfile(t *testing.T) {
	handler := ChannelHandler{
		Views: &fakeViewEngine{profiles: map[string]models.ChannelProfile{
			"channel": {
				FullName:         "The Channel",
				Username:         "channel",
				SubscribersCount: 2,
				IsSubscribed:     true,
				Email:            "channel@example.com",
			},
		}},
	}

	rec := httptest.NewRecorder()
	handler.Profile(rec, channelRequest(http.MethodGet, "/api/v1/channels/channel", "channel", "viewer-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var envelope testEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	var profile models.ChannelProfile
	if err := json.Unmarshal(envelope.Data, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.SubscribersCount != 2 || !profile.IsSubscribed {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestChannelHandlerProfileNotFound(t *testing.T) {
	handler := ChannelHandler{Views: &fakeViewEngine{profiles: map[string]models.ChannelProfile{}}}

	rec := httptest.NewRecorder()
	handler.Profile(rec, channelRequest(http.MethodGet, "/api/v1/channels/ghost", "ghost", "viewer-1"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestChannelHandlerSubscribe(t *testing.T) {
	store := newFakeSubscriptionStore()
	handler := ChannelHandler{
		Channels: &fakeChannelDirectory{channels: map[string]models.User{
			"channel": {ID: "channel-1", Username: "channel"},
		}},
		Subscriptions: store,
	}

	rec := httptest.NewRecorder()
	handler.Subscribe(rec, channelRequest(http.MethodPost, "/api/v1/channels/channel/subscribe", "channel", "viewer-1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if !store.edges[[2]string{"viewer-1", "channel-1"}] {
		t.Fatal("expected subscription edge to be recorded")
	}

	// Subscribing twice conflicts.
	rec = httptest.NewRecorder()
	handler.Subscribe(rec, channelRequest(http.MethodPost, "/api/v1/channels/channel/subscribe", "channel", "viewer-1"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d got %d", http.StatusConflict, rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Subscribe(rec, channelRequest(http.MethodDelete, "/api/v1/channels/channel/subscribe", "channel", "viewer-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Subscribe(rec, channelRequest(http.MethodDelete, "/api/v1/channels/channel/subscribe", "channel", "viewer-1"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestChannelHandlerSubscribeSelf(t *testing.T) {
	handler := ChannelHandler{
		Channels: &fakeChannelDirectory{channels: map[string]models.User{
			"channel": {ID: "channel-1", Username: "channel"},
		}},
		Subscriptions: newFakeSubscriptionStore(),
	}

	rec := httptest.NewRecorder()
	handler.Subscribe(rec, channelRequest(http.MethodPost, "/api/v1/channels/channel/subscribe", "channel", "channel-1"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestChannelHandlerWatchHistory(t *testing.T) {
	now := time.Now().UTC()
	handler := ChannelHandler{
		Views: &fakeViewEngine{history: map[string][]models.VideoView{
			"viewer-1": {
				{Video: models.Video{ID: "v1", Title: "first"}, Owner: models.VideoOwner{Username: "owner"}, WatchedAt: now},
				{Video: models.Video{ID: "v2", Title: "second"}, Owner: models.VideoOwner{Username: "owner"}, WatchedAt: now},
			},
		}},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/history", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "viewer-1"))
	rec := httptest.NewRecorder()

	handler.WatchHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var envelope testEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	var views []models.VideoView
	if err := json.Unmarshal(envelope.Data, &views); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(views) != 2 || views[0].Video.ID != "v1" || views[1].Video.ID != "v2" {
		t.Fatalf("unexpected history %+v", views)
	}
}

func TestChannelHandlerWatchHistoryEmpty(t *testing.T) {
	handler := ChannelHandler{Views: &fakeViewEngine{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/history", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "viewer-1"))
	rec := httptest.NewRecorder()

	handler.WatchHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var envelope testEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if string(envelope.Data) != "[]" {
		t.Fatalf("expected empty JSON array got %s", envelope.Data)
	}
}
