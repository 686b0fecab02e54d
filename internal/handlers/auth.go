package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/mail"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/accounts"
	"github.com/streamhub/backend/internal/logging"
	"github.com/streamhub/backend/internal/middleware"
	"github.com/streamhub/backend/internal/models"
)

const maxUploadBytes = 32 << 20

// AuthHandler implements registration, login, refresh, and logout endpoints.
type AuthHandler struct {
	Accounts AccountService
	Sessions SessionManager
	Images   ImageStorage
	Limiter  RateLimiter
}

// Register handles POST /api/v1/auth/register. The request is multipart: text
// fields plus an avatar file (required) and a cover image (optional). Both
// images are stored before the user record is created, since registration
// requires a stored avatar URL.
func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Accounts == nil || h.Sessions == nil || h.Images == nil {
		logger.Error("registration dependencies unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, "registration services unavailable", nil)
		return
	}

	if !allowRequest(h.Limiter, r, "register") {
		respondJSON(ctx, w, http.StatusTooManyRequests, "too many registration attempts", nil)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.Warn("invalid registration payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, "invalid multipart request body", nil)
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			logger.Warn("registration invalid email", "email", email, "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, "invalid email address", nil)
			return
		}
	}

	avatarURL, err := h.storeFormImage(ctx, r, "avatar")
	if err != nil {
		logger.Error("store avatar", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, "failed to store avatar", nil)
		return
	}
	if avatarURL == "" {
		respondJSON(ctx, w, http.StatusBadRequest, "avatar file is required", nil)
		return
	}

	coverImageURL, err := h.storeFormImage(ctx, r, "coverImage")
	if err != nil {
		logger.Error("store cover image", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, "failed to store cover image", nil)
		return
	}

	user, err := h.Accounts.Register(ctx, accounts.RegisterParams{
		FullName:      r.FormValue("fullName"),
		Email:         email,
		Username:      r.FormValue("username"),
		Password:      r.FormValue("password"),
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
	})
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	logger.Info("user registered", "userId", user.ID, "username", user.Username)
	respondJSON(ctx, w, http.StatusCreated, "user registered successfully", map[string]any{
		"user": user.Public(),
	})
}

// Login handles POST /api/v1/auth/login.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Accounts == nil || h.Sessions == nil {
		logger.Error("authentication dependencies unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, "authentication services unavailable", nil)
		return
	}

	if !allowRequest(h.Limiter, r, "login") {
		respondJSON(ctx, w, http.StatusTooManyRequests, "too many login attempts", nil)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" || req.Password == "" {
		logger.Warn("login missing credentials")
		respondJSON(ctx, w, http.StatusBadRequest, "username or email and password are required", nil)
		return
	}

	user, err := h.Accounts.Authenticate(ctx, identifier, req.Password)
	if err != nil {
		logger.Warn("login failed", "identifier", identifier, "error", err)
		respondError(ctx, w, err)
		return
	}

	pair, err := h.Sessions.Login(ctx, user.ID)
	if err != nil {
		logger.Error("failed to create session", "error", err, "userId", user.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, "failed to create session", nil)
		return
	}

	public := user.Public()
	setTokenCookies(w, pair)
	respondJSON(ctx, w, http.StatusOK, "user logged in successfully", authPayload{
		User:   &public,
		Tokens: pair,
	})
}

// Refresh handles POST /api/v1/auth/refresh. The refresh token is read from
// the cookie first, falling back to the request body.
func (h AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Sessions == nil {
		logger.Error("session manager unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, "session service unavailable", nil)
		return
	}

	if !allowRequest(h.Limiter, r, "refresh") {
		respondJSON(ctx, w, http.StatusTooManyRequests, "too many refresh attempts", nil)
		return
	}

	presented := ""
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		presented = cookie.Value
	}
	if presented == "" && r.Body != nil {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			presented = strings.TrimSpace(req.RefreshToken)
		}
	}

	if presented == "" {
		logger.Warn("missing refresh token")
		respondJSON(ctx, w, http.StatusUnauthorized, "refresh token is required", nil)
		return
	}

	pair, err := h.Sessions.Refresh(ctx, presented)
	if err != nil {
		logger.Warn("refresh failed", "error", err)
		respondError(ctx, w, err)
		return
	}

	setTokenCookies(w, pair)
	respondJSON(ctx, w, http.StatusOK, "access token refreshed", authPayload{Tokens: pair})
}

// Logout handles POST /api/v1/auth/logout. Requires authentication.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	userID := middleware.UserIDFromContext(ctx)

	if err := h.Sessions.Logout(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("logout failed", "error", err, "userId", userID)
		respondJSON(ctx, w, http.StatusInternalServerError, "failed to log out", nil)
		return
	}

	clearTokenCookies(w)
	respondJSON(ctx, w, http.StatusOK, "user logged out successfully", nil)
}

// storeFormImage uploads the named multipart file and returns its public URL.
// A missing file is not an error; it returns an empty URL so the caller can
// decide whether the field was required.
func (h AuthHandler) storeFormImage(ctx context.Context, r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", fmt.Errorf("read %s upload: %w", field, err)
	}
	defer file.Close()

	return storeImage(ctx, h.Images, field, header, file)
}

func storeImage(ctx context.Context, images ImageStorage, kind string, header *multipart.FileHeader, file multipart.File) (string, error) {
	ext := path.Ext(header.Filename)
	key := fmt.Sprintf("%ss/%s%s", kind, uuid.NewString(), ext)

	url, err := images.Save(ctx, key, file)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", kind, err)
	}
	return url, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type authPayload struct {
	User   *models.PublicUser `json:"user,omitempty"`
	Tokens models.TokenPair   `json:"tokens"`
}
