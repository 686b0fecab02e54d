package handlers

import (
	"net/http"

	"github.com/streamhub/backend/internal/middleware"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	authn := middleware.RequireAuth(deps.Tokens)

	auth := AuthHandler{Accounts: deps.Accounts, Sessions: deps.Sessions, Images: deps.Images, Limiter: deps.AuthLimiter}
	users := UserHandler{Accounts: deps.Accounts, Images: deps.Images}
	channels := ChannelHandler{Views: deps.Views, Channels: deps.Channels, Subscriptions: deps.Subscriptions}
	videos := VideoHandler{Videos: deps.Videos}

	mux.HandleFunc("/healthz", health.Handle)

	mux.HandleFunc("/api/v1/auth/register", auth.Register)
	mux.HandleFunc("/api/v1/auth/login", auth.Login)
	mux.HandleFunc("/api/v1/auth/refresh", auth.Refresh)
	mux.Handle("/api/v1/auth/logout", authn(http.HandlerFunc(auth.Logout)))

	mux.Handle("/api/v1/users/me", authn(http.HandlerFunc(users.Me)))
	mux.Handle("/api/v1/users/change-password", authn(http.HandlerFunc(users.ChangePassword)))
	mux.Handle("/api/v1/users/avatar", authn(http.HandlerFunc(users.UpdateAvatar)))
	mux.Handle("/api/v1/users/cover-image", authn(http.HandlerFunc(users.UpdateCoverImage)))
	mux.Handle("/api/v1/users/history", authn(http.HandlerFunc(channels.WatchHistory)))

	mux.Handle("/api/v1/channels/{username}", authn(http.HandlerFunc(channels.Profile)))
	mux.Handle("/api/v1/channels/{username}/subscribe", authn(http.HandlerFunc(channels.Subscribe)))

	mux.Handle("/api/v1/videos", authn(http.HandlerFunc(videos.Create)))
	mux.Handle("/api/v1/videos/{id}", authn(http.HandlerFunc(videos.Get)))
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Accounts      AccountService
	Sessions      SessionManager
	Tokens        middleware.TokenVerifier
	Views         ViewEngine
	Channels      ChannelDirectory
	Subscriptions SubscriptionStore
	Videos        VideoStore
	Images        ImageStorage
	AuthLimiter   RateLimiter
}
