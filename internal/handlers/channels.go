package handlers

import (
	"net/http"
	"strings"

	"github.com/streamhub/backend/internal/logging"
	"github.com/streamhub/backend/internal/middleware"
)

// ChannelHandler implements channel profile, subscription, and watch-history
// endpoints.
type ChannelHandler struct {
	Views         ViewEngine
	Channels      ChannelDirectory
	Subscriptions SubscriptionStore
}

// Profile handles GET /api/v1/channels/{username}.
func (h ChannelHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	username := strings.TrimSpace(r.PathValue("username"))
	if username == "" {
		respondJSON(ctx, w, http.StatusBadRequest, "username is required", nil)
		return
	}

	viewerID := middleware.UserIDFromContext(ctx)

	profile, err := h.Views.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "channel profile fetched successfully", profile)
}

// Subscribe handles POST and DELETE /api/v1/channels/{username}/subscribe.
func (h ChannelHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	username := strings.TrimSpace(strings.ToLower(r.PathValue("username")))
	if username == "" {
		respondJSON(ctx, w, http.StatusBadRequest, "username is required", nil)
		return
	}

	viewerID := middleware.UserIDFromContext(ctx)

	channel, err := h.Channels.FindByUsername(ctx, username)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if channel.ID == viewerID {
		respondJSON(ctx, w, http.StatusBadRequest, "cannot subscribe to your own channel", nil)
		return
	}

	if r.Method == http.MethodPost {
		if err := h.Subscriptions.Subscribe(ctx, viewerID, channel.ID); err != nil {
			respondError(ctx, w, err)
			return
		}
		logger.Info("subscribed", "subscriberId", viewerID, "channelId", channel.ID)
		respondJSON(ctx, w, http.StatusCreated, "subscribed successfully", nil)
		return
	}

	if err := h.Subscriptions.Unsubscribe(ctx, viewerID, channel.ID); err != nil {
		respondError(ctx, w, err)
		return
	}
	logger.Info("unsubscribed", "subscriberId", viewerID, "channelId", channel.ID)
	respondJSON(ctx, w, http.StatusOK, "unsubscribed successfully", nil)
}

// WatchHistory handles GET /api/v1/users/history.
func (h ChannelHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	userID := middleware.UserIDFromContext(ctx)

	views, err := h.Views.WatchHistory(ctx, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "watch history fetched successfully", views)
}
