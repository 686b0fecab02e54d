package repositories

import (
	"context"

	"github.com/streamhub/backend/internal/models"
)

// SubscriptionRepository defines data access for subscription edges.
type SubscriptionRepository interface {
	// Subscribe creates the (subscriberID, channelID) edge. Duplicate edges
	// fail with ErrConflict.
	Subscribe(ctx context.Context, subscriberID, channelID string) error
	// Unsubscribe removes the edge; a missing edge fails with ErrNotFound.
	Unsubscribe(ctx context.Context, subscriberID, channelID string) error
	// ChannelStats computes the subscriber count, subscription count, and
	// whether the viewer subscribes to the channel, all in one snapshot.
	ChannelStats(ctx context.Context, channelID, viewerID string) (models.ChannelStats, error)
}
