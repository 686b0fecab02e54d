package auth

import (
	"context"

	"github.com/streamhub/backend/internal/models"
)

// SessionStore is the authority for refresh-token rotation decisions. The
// stored value is the single currently-valid refresh token per user.
type SessionStore interface {
	// Record unconditionally overwrites the stored token. Used on login.
	Record(ctx context.Context, userID, token string) error
	// Rotate replaces the stored token with next only when presented matches
	// the current value. The compare and the swap must be one atomic
	// operation against the backing store; on mismatch (including no token
	// stored) it fails with ErrTokenRevoked.
	Rotate(ctx context.Context, userID, presented, next string) error
	// Clear removes the stored token. Clearing an absent token is not an
	// error.
	Clear(ctx context.Context, userID string) error
}

// Manager drives the per-user session lifecycle: issuing a token pair on
// login, rotating the refresh token on use, and revoking it on logout.
type Manager struct {
	tokens *TokenService
	store  SessionStore
}

// NewManager constructs a Manager around the token service and session store.
func NewManager(tokens *TokenService, store SessionStore) *Manager {
	if tokens == nil {
		panic("auth: token service must not be nil")
	}
	if store == nil {
		panic("auth: session store must not be nil")
	}
	return &Manager{tokens: tokens, store: store}
}

// Login issues a fresh token pair for the user and records the refresh token,
// superseding any previously issued one.
func (m *Manager) Login(ctx context.Context, userID string) (models.TokenPair, error) {
	pair, err := m.issuePair(userID)
	if err != nil {
		return models.TokenPair{}, err
	}
	if err := m.store.Record(ctx, userID, pair.RefreshToken); err != nil {
		return models.TokenPair{}, err
	}
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token must
// be well-formed, unexpired, of refresh kind, and must match the stored value
// for its subject. The new pair is generated before the store is touched so a
// signing failure never invalidates the current session.
func (m *Manager) Refresh(ctx context.Context, presented string) (models.TokenPair, error) {
	claims, err := m.tokens.Verify(presented, TokenKindRefresh)
	if err != nil {
		return models.TokenPair{}, err
	}

	pair, err := m.issuePair(claims.Subject)
	if err != nil {
		return models.TokenPair{}, err
	}

	if err := m.store.Rotate(ctx, claims.Subject, presented, pair.RefreshToken); err != nil {
		return models.TokenPair{}, err
	}

	return pair, nil
}

// Logout revokes the user's refresh token. Logging out an already logged-out
// user succeeds.
func (m *Manager) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	return m.store.Clear(ctx, userID)
}

func (m *Manager) issuePair(userID string) (models.TokenPair, error) {
	access, accessExp, err := m.tokens.Issue(userID, TokenKindAccess)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, refreshExp, err := m.tokens.Issue(userID, TokenKindRefresh)
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}
