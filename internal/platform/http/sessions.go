package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nextprepbd/platform/internal/platform/domain"
	"github.com/nextprepbd/platform/internal/platform/service"
	"github.com/nextprepbd/platform/pkg/httpx"
	"github.com/nextprepbd/platform/pkg/platformsdk"
	"github.com/nextprepbd/platform/pkg/slogx"
)

func profileResponse(p domain.Profile) platformsdk.ProfileResponse {
	return platformsdk.ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Role:      p.Role.String(),
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// RegisterHandler handles POST /v1/register. Open endpoint; every new
// account starts as a student.
type RegisterHandler struct {
	SessionService *service.SessionService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req platformsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	profile, err := h.SessionService.Register(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRegistration):
			httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeInvalidRequest,
				ErrorDescription: "A valid email and a password of at least 8 characters are required",
			})
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			httpx.WriteJSON(w, http.StatusConflict, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeConflict,
				ErrorDescription: "Email already registered",
			})
		default:
			log.Error("failed to register account", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to register account",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, profileResponse(profile))
}

// SessionHandler handles POST /v1/sessions (sign-in).
type SessionHandler struct {
	SessionService *service.SessionService
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req platformsdk.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	token, profile, err := h.SessionService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteJSON(w, http.StatusUnauthorized, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeInvalidGrant,
				ErrorDescription: "Invalid email or password",
			})
			return
		}
		log.Error("failed to sign in", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to sign in",
		})
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, platformsdk.SessionResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.SessionService.TTL() / time.Second),
		Profile:     profileResponse(profile),
	})
}

// ProfileHandler handles GET /v1/profile for the signed-in user.
type ProfileHandler struct {
	SessionService *service.SessionService
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeUnauthorized,
			ErrorDescription: "Authentication required",
		})
		return
	}

	profile, err := h.SessionService.Profile(ctx, userID)
	if err != nil {
		log.Error("failed to fetch profile", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to fetch profile",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profileResponse(profile))
}

// PasswordChangeHandler handles PUT /v1/password for the signed-in user.
type PasswordChangeHandler struct {
	AccountService *service.AccountService
}

func (h *PasswordChangeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req platformsdk.PasswordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeUnauthorized,
			ErrorDescription: "Authentication required",
		})
		return
	}

	err := h.AccountService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteJSON(w, http.StatusUnauthorized, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeInvalidGrant,
				ErrorDescription: "Current password is incorrect",
			})
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeInvalidRequest,
				ErrorDescription: "New password must be at least 8 characters",
			})
		default:
			log.Error("failed to change password", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to change password",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
