package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/streamhub/backend/internal/logging"
	"github.com/streamhub/backend/internal/middleware"
)

// UserHandler implements endpoints operating on the authenticated user's own
// account.
type UserHandler struct {
	Accounts AccountService
	Images   ImageStorage
}

// Me handles GET and PATCH /api/v1/users/me: fetching the current user and
// updating the profile fields.
func (h UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.currentUser(w, r)
	case http.MethodPatch:
		h.updateProfile(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h UserHandler) currentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserIDFromContext(ctx)

	user, err := h.Accounts.Get(ctx, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "current user fetched successfully", user.Public())
}

func (h UserHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserIDFromContext(ctx)

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(ctx).Warn("invalid profile update payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, err := h.Accounts.UpdateProfile(ctx, userID, req.FullName, req.Email)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "account details updated successfully", user.Public())
}

// ChangePassword handles POST /api/v1/users/change-password.
func (h UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	userID := middleware.UserIDFromContext(ctx)

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(ctx).Warn("invalid change-password payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.Accounts.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "password changed successfully", nil)
}

// UpdateAvatar handles POST /api/v1/users/avatar with a multipart avatar file.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar")
}

// UpdateCoverImage handles POST /api/v1/users/cover-image with a multipart
// cover image file.
func (h UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage")
}

func (h UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.Warn("invalid image upload payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, "invalid multipart request body", nil)
		return
	}

	// The file must be present before anything is stored or written.
	file, header, err := r.FormFile(field)
	if err != nil {
		logger.Warn("image file missing", "field", field, "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, field+" file is required", nil)
		return
	}
	defer file.Close()

	url, err := storeImage(ctx, h.Images, field, header, file)
	if err != nil {
		logger.Error("store uploaded image", "field", field, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, "failed to store image", nil)
		return
	}

	switch field {
	case "avatar":
		updated, err := h.Accounts.UpdateAvatar(ctx, userID, url)
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, "avatar updated successfully", updated.Public())
	default:
		updated, err := h.Accounts.UpdateCoverImage(ctx, userID, url)
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, "cover image updated successfully", updated.Public())
	}
}

type updateProfileRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
