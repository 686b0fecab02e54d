package handlers

import (
	"context"
	"io"
	"time"

	"github.com/streamhub/backend/internal/accounts"
	"github.com/streamhub/backend/internal/models"
)

// AccountService captures the credential and profile operations required by
// the HTTP handlers.
type AccountService interface {
	Register(ctx context.Context, p accounts.RegisterParams) (models.User, error)
	Authenticate(ctx context.Context, identifier, password string) (models.User, error)
	Get(ctx context.Context, userID string) (models.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID, fullName, email string) (models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) (models.User, error)
	UpdateCoverImage(ctx context.Context, userID, coverImageURL string) (models.User, error)
}

// SessionManager drives the token pair lifecycle for authenticated users.
type SessionManager interface {
	Login(ctx context.Context, userID string) (models.TokenPair, error)
	Refresh(ctx context.Context, presented string) (models.TokenPair, error)
	Logout(ctx context.Context, userID string) error
}

// ViewEngine computes read-only aggregated views.
type ViewEngine interface {
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]models.VideoView, error)
}

// ChannelDirectory resolves channels by username for subscription handlers.
type ChannelDirectory interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// SubscriptionStore manages subscription edges.
type SubscriptionStore interface {
	Subscribe(ctx context.Context, subscriberID, channelID string) error
	Unsubscribe(ctx context.Context, subscriberID, channelID string) error
}

// VideoStore captures persistence for videos and watch tracking.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	RecordView(ctx context.Context, userID, videoID string, watchedAt time.Time) error
}

// ImageStorage persists uploaded images and returns their public location.
type ImageStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}
