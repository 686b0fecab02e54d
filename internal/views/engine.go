// Package views computes derived, read-only views by joining the user,
// subscription, and video record sets. The engine never mutates state.
package views

import (
	"context"
	"strings"

	"github.com/streamhub/backend/internal/logging"
	"github.com/streamhub/backend/internal/models"
)

// UserDirectory resolves user records for view computation.
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// SubscriptionReader computes subscription-edge aggregates.
type SubscriptionReader interface {
	ChannelStats(ctx context.Context, channelID, viewerID string) (models.ChannelStats, error)
}

// HistoryReader returns a user's watch history with owners resolved.
type HistoryReader interface {
	WatchHistory(ctx context.Context, userID string) ([]models.VideoView, error)
}

// Engine is the stateless aggregation layer behind channel-profile and
// watch-history reads.
type Engine struct {
	users         UserDirectory
	subscriptions SubscriptionReader
	history       HistoryReader
}

// NewEngine constructs an Engine over the provided record sets.
func NewEngine(users UserDirectory, subscriptions SubscriptionReader, history HistoryReader) *Engine {
	return &Engine{users: users, subscriptions: subscriptions, history: history}
}

// ChannelProfile resolves the channel by its case-normalized username and
// joins in the subscription aggregates as seen by the viewer. The projection
// never includes the password hash or refresh token.
func (e *Engine) ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	ctx, span := logging.StartSpan(ctx, "views.channel_profile")
	defer span.End()

	username = strings.TrimSpace(strings.ToLower(username))

	user, err := e.users.FindByUsername(ctx, username)
	if err != nil {
		return models.ChannelProfile{}, err
	}

	stats, err := e.subscriptions.ChannelStats(ctx, user.ID, viewerID)
	if err != nil {
		return models.ChannelProfile{}, err
	}

	return models.ChannelProfile{
		FullName:          user.FullName,
		Username:          user.Username,
		SubscribersCount:  stats.Subscribers,
		SubscribedToCount: stats.Subscriptions,
		IsSubscribed:      stats.ViewerSubscribed,
		CoverImageURL:     user.CoverImageURL,
		Email:             user.Email,
	}, nil
}

// WatchHistory returns the user's history in viewing order. The order is the
// store's insertion order; the engine does not re-sort.
func (e *Engine) WatchHistory(ctx context.Context, userID string) ([]models.VideoView, error) {
	ctx, span := logging.StartSpan(ctx, "views.watch_history")
	defer span.End()

	views, err := e.history.WatchHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []models.VideoView{}
	}
	return views, nil
}
