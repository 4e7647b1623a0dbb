package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nextprepbd/platform/internal/platform/service"
	"github.com/nextprepbd/platform/pkg/httpx"
	"github.com/nextprepbd/platform/pkg/platformsdk"
	"github.com/nextprepbd/platform/pkg/slogx"
)

// RecoveryHandler handles the self-service password recovery flow.
type RecoveryHandler struct {
	AccountService *service.AccountService
}

// HandleStart handles POST /v1/recovery. It always reports 202 for
// well-formed requests so the endpoint cannot confirm which emails exist.
func (h *RecoveryHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
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
			// A distinct status here would confirm the address has an
			// account. Delivery failures get the same 202 as unknown emails.
			log.Error("failed to send recovery email", "err", err)
			w.WriteHeader(http.StatusAccepted)
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

// HandleComplete handles POST /v1/recovery/complete.
func (h *RecoveryHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req platformsdk.RecoveryCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	err := h.AccountService.CompleteRecovery(ctx, req.RecoveryToken, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecoveryNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeNotFound,
				ErrorDescription: "Recovery token not found or expired",
			})
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeInvalidRequest,
				ErrorDescription: "New password must be at least 8 characters",
			})
		default:
			log.Error("failed to complete recovery", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to complete recovery",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
