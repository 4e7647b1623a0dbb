package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nextprepbd/platform/internal/platform/domain"
	"github.com/nextprepbd/platform/internal/platform/service"
	"github.com/nextprepbd/platform/pkg/httpx"
	"github.com/nextprepbd/platform/pkg/platformsdk"
	"github.com/nextprepbd/platform/pkg/slogx"
)

// AdminAccountsHandler exposes the service-tier account operations. The
// router wraps every route here in RequireServiceKey, so by the time these
// run the caller has presented the shared service key; the tier is still
// passed down explicitly so the service layer re-checks it.
type AdminAccountsHandler struct {
	AccountService *service.AccountService
}

func tierFromCtx(r *http.Request) domain.Tier {
	switch httpx.TierFromCtx(r.Context()) {
	case "service":
		return domain.TierService
	case "session":
		return domain.TierSession
	default:
		return domain.TierAnonymous
	}
}

func writeAccountError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeNotFound,
			ErrorDescription: "Account not found",
		})
	case errors.Is(err, service.ErrInsufficientTier):
		httpx.WriteJSON(w, http.StatusForbidden, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeForbidden,
			ErrorDescription: "Operation requires service trust",
		})
	case errors.Is(err, service.ErrSelfDemotion):
		httpx.WriteJSON(w, http.StatusConflict, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeConflict,
			ErrorDescription: "Cannot modify the acting account",
		})
	case errors.Is(err, service.ErrLastAdmin):
		httpx.WriteJSON(w, http.StatusConflict, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeConflict,
			ErrorDescription: "Cannot remove the last admin",
		})
	default:
		return false
	}
	return true
}

// HandlePasswordReset handles POST /v1/admin/accounts/{id}/password-reset.
func (h *AdminAccountsHandler) HandlePasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	password, err := h.AccountService.ForcePasswordReset(ctx, tierFromCtx(r), r.PathValue("id"))
	if err != nil {
		if !writeAccountError(w, err) {
			log.Error("failed to force password reset", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to reset password",
			})
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, platformsdk.PasswordResetResponse{Password: password})
}

// HandleRecovery handles POST /v1/admin/accounts/recovery: a service-tier
// way to kick off password recovery for a user, e.g. from a support tool.
func (h *AdminAccountsHandler) HandleRecovery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req platformsdk.RecoveryStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "email is required",
		})
		return
	}

	if err := h.AccountService.StartRecovery(ctx, req.Email); err != nil {
		if errors.Is(err, service.ErrNotificationFailed) {
			httpx.WriteJSON(w, http.StatusBadGateway, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeDeliveryFailed,
				ErrorDescription: "Failed to send recovery email",
			})
			return
		}
		log.Error("failed to start recovery", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to start recovery",
		})
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// HandleDelete handles DELETE /v1/admin/accounts/{id}.
func (h *AdminAccountsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	err := h.AccountService.DeleteAccount(ctx, tierFromCtx(r), httpx.UserIDFromCtx(ctx), r.PathValue("id"))
	if err != nil {
		if !writeAccountError(w, err) {
			log.Error("failed to delete account", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to delete account",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRoleChange handles PUT /v1/admin/accounts/{id}/role.
func (h *AdminAccountsHandler) HandleRoleChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req platformsdk.RoleChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	err := h.AccountService.SetRole(ctx, tierFromCtx(r), httpx.UserIDFromCtx(ctx), r.PathValue("id"), domain.Role(req.Role))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRole) {
			httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeInvalidRequest,
				ErrorDescription: "Invalid role",
			})
			return
		}
		if !writeAccountError(w, err) {
			log.Error("failed to change role", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to change role",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
