package models

import "time"

// User represents an account on the StreamHub platform. A user is also a
// channel: other users subscribe to it and its videos appear under it.
type User struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string
	// RefreshToken holds the single currently-valid refresh token for the
	// account, or empty when the user is logged out.
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public returns the projection of the user that is safe to send to clients.
// The password hash and refresh token are never exposed.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
	}
}

// PublicUser is the client-facing shape of a user record.
type PublicUser struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatarUrl"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Subscription is a directed edge meaning the subscriber follows the channel.
type Subscription struct {
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}

// Video stores a published video along with its display metadata.
type Video struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TokenPair groups the bearer credentials issued to authenticated users.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// ChannelStats aggregates the subscription edges around a single channel as
// seen by a particular viewer. All three fields come from one query snapshot.
type ChannelStats struct {
	Subscribers      int64
	Subscriptions    int64
	ViewerSubscribed bool
}

// ChannelProfile is the derived view of a channel returned to clients.
type ChannelProfile struct {
	FullName          string `json:"fullName"`
	Username          string `json:"username"`
	SubscribersCount  int64  `json:"subscribersCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
	CoverImageURL     string `json:"coverImageUrl,omitempty"`
	Email             string `json:"email"`
}

// VideoOwner is the reduced owner projection embedded in watch-history rows.
type VideoOwner struct {
	FullName  string `json:"fullName"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

// VideoView is one watch-history entry: the video plus its resolved owner.
type VideoView struct {
	Video     Video      `json:"video"`
	Owner     VideoOwner `json:"owner"`
	WatchedAt time.Time  `json:"watchedAt"`
}
