// Package accounts implements registration, authentication, and profile
// management on top of the user repository.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/auth"
	"github.com/streamhub/backend/internal/models"
	"github.com/streamhub/backend/internal/repositories"
)

var (
	// ErrInvalidInput indicates a missing or empty required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials indicates a password that does not match the
	// stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service owns the persistent form of user records. All password writes pass
// through the hashing capability before they reach the repository.
type Service struct {
	users   repositories.UserRepository
	nowFunc func() time.Time
}

// NewService constructs an account service over the provided repository.
func NewService(users repositories.UserRepository) *Service {
	if users == nil {
		panic("accounts: user repository must not be nil")
	}
	return &Service{users: users, nowFunc: time.Now}
}

// WithNowFunc overrides the time source. Useful for tests.
func (s *Service) WithNowFunc(now func() time.Time) *Service {
	s.nowFunc = now
	return s
}

// RegisterParams carries the fields required to create an account. AvatarURL
// must point at an already-stored image; the avatar is mandatory, the cover
// image is not.
type RegisterParams struct {
	FullName      string
	Email         string
	Username      string
	Password      string
	AvatarURL     string
	CoverImageURL string
}

// Register validates and creates a new user. The username is stored
// lower-cased so lookups are case-insensitive. A record with the same
// username or email fails with repositories.ErrConflict.
func (s *Service) Register(ctx context.Context, p RegisterParams) (models.User, error) {
	fullName := strings.TrimSpace(p.FullName)
	email := strings.TrimSpace(strings.ToLower(p.Email))
	username := strings.TrimSpace(strings.ToLower(p.Username))

	if fullName == "" || email == "" || username == "" || strings.TrimSpace(p.Password) == "" {
		return models.User{}, fmt.Errorf("%w: full name, email, username, and password are required", ErrInvalidInput)
	}
	if strings.TrimSpace(p.AvatarURL) == "" {
		return models.User{}, fmt.Errorf("%w: avatar is required", ErrInvalidInput)
	}

	if _, err := s.users.FindByIdentifier(ctx, username); err == nil {
		return models.User{}, repositories.ErrConflict
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, err
	}
	if _, err := s.users.FindByIdentifier(ctx, email); err == nil {
		return models.User{}, repositories.ErrConflict
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, err
	}

	hashed, err := auth.HashPassword(p.Password)
	if err != nil {
		return models.User{}, err
	}

	now := s.nowFunc().UTC()
	user := models.User{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         email,
		FullName:      fullName,
		PasswordHash:  hashed,
		AvatarURL:     strings.TrimSpace(p.AvatarURL),
		CoverImageURL: strings.TrimSpace(p.CoverImageURL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Authenticate looks a user up by username or email and verifies the
// password. A lookup miss fails with repositories.ErrNotFound; a password
// mismatch with ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (models.User, error) {
	identifier = strings.TrimSpace(strings.ToLower(identifier))
	if identifier == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: identifier and password are required", ErrInvalidInput)
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return models.User{}, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// Get fetches a user by id.
func (s *Service) Get(ctx context.Context, userID string) (models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// ChangePassword re-hashes and stores the new password after verifying the
// old one. The stored hash is untouched when the old password does not match.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, userID, hashed)
}

// UpdateProfile changes the user's full name and email. Both fields are
// required.
func (s *Service) UpdateProfile(ctx context.Context, userID, fullName, email string) (models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(strings.ToLower(email))
	if fullName == "" || email == "" {
		return models.User{}, fmt.Errorf("%w: full name and email are required", ErrInvalidInput)
	}
	return s.users.UpdateProfile(ctx, userID, fullName, email)
}

// UpdateAvatar replaces the user's avatar. The new URL must be present before
// anything is written.
func (s *Service) UpdateAvatar(ctx context.Context, userID, avatarURL string) (models.User, error) {
	avatarURL = strings.TrimSpace(avatarURL)
	if avatarURL == "" {
		return models.User{}, fmt.Errorf("%w: avatar is required", ErrInvalidInput)
	}
	return s.users.UpdateAvatar(ctx, userID, avatarURL)
}

// UpdateCoverImage replaces the user's cover image. The new URL must be
// present before anything is written.
func (s *Service) UpdateCoverImage(ctx context.Context, userID, coverImageURL string) (models.User, error) {
	coverImageURL = strings.TrimSpace(coverImageURL)
	if coverImageURL == "" {
		return models.User{}, fmt.Errorf("%w: cover image is required", ErrInvalidInput)
	}
	return s.users.UpdateCoverImage(ctx, userID, coverImageURL)
}
