package app

import (
	"context"
	"time"

	"github.com/streamhub/backend/internal/accounts"
	"github.com/streamhub/backend/internal/auth"
	"github.com/streamhub/backend/internal/config"
	"github.com/streamhub/backend/internal/db"
	"github.com/streamhub/backend/internal/handlers"
	"github.com/streamhub/backend/internal/middleware"
	"github.com/streamhub/backend/internal/repositories"
	"github.com/streamhub/backend/internal/storage"
	"github.com/streamhub/backend/internal/views"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	tokens := auth.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	sessions := auth.NewManager(tokens, repositories.NewPostgresSessionStore(pool))

	users := repositories.NewPostgresUserRepository(pool)
	subscriptions := repositories.NewPostgresSubscriptionRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)

	images, err := storage.NewS3ImageStore(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	return handlers.Dependencies{
		Accounts:      accounts.NewService(users),
		Sessions:      sessions,
		Tokens:        tokens,
		Views:         views.NewEngine(users, subscriptions, videos),
		Channels:      users,
		Subscriptions: subscriptions,
		Videos:        videos,
		Images:        images,
		AuthLimiter:   middleware.NewIPRateLimiter(10, time.Minute, 5, 10*time.Minute),
	}, nil
}
