package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/logging"
	"github.com/streamhub/backend/internal/middleware"
	"github.com/streamhub/backend/internal/models"
)

// VideoHandler implements video publishing and playback endpoints.
type VideoHandler struct {
	Videos  VideoStore
	NowFunc func() time.Time
}

// Create handles POST /api/v1/videos.
func (h VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	ownerID := middleware.UserIDFromContext(ctx)

	var req createVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid video payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondJSON(ctx, w, http.StatusBadRequest, "title is required", nil)
		return
	}

	video := models.Video{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Title:        req.Title,
		Description:  strings.TrimSpace(req.Description),
		ThumbnailURL: strings.TrimSpace(req.ThumbnailURL),
		CreatedAt:    h.now(),
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		respondError(ctx, w, err)
		return
	}

	logger.Info("video published", "videoId", video.ID, "ownerId", ownerID)
	respondJSON(ctx, w, http.StatusCreated, "video published successfully", video)
}

// Get handles GET /api/v1/videos/{id}. Fetching a video appends it to the
// viewer's watch history; history tracking is best effort and never fails the
// read.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	viewerID := middleware.UserIDFromContext(ctx)

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		respondJSON(ctx, w, http.StatusBadRequest, "video id is required", nil)
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Videos.RecordView(ctx, viewerID, video.ID, h.now()); err != nil {
		logger.Warn("failed to record view", "videoId", video.ID, "userId", viewerID, "error", err)
	}

	respondJSON(ctx, w, http.StatusOK, "video fetched successfully", video)
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type createVideoRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
}
