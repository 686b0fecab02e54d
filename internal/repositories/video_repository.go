package repositories

import (
	"context"
	"time"

	"github.com/streamhub/backend/internal/models"
)

// VideoRepository exposes data access for videos and per-user watch history.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	// RecordView appends the video to the user's watch history. Repeat views
	// append again; the history keeps duplicates in viewing order.
	RecordView(ctx context.Context, userID, videoID string, watchedAt time.Time) error
	// WatchHistory returns the user's history in insertion order, each entry
	// carrying the video and its resolved owner projection.
	WatchHistory(ctx context.Context, userID string) ([]models.VideoView, error)
}
