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

// InvitationIssueHandler handles POST /v1/invitations. Admin sessions only;
// the router enforces the admin:write scope before this runs.
type InvitationIssueHandler struct {
	InviteService *service.InviteService
}

func (h *InvitationIssueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req platformsdk.InvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	if req.Email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "email is required",
		})
		return
	}
	if req.Role == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "role is required",
		})
		return
	}

	token, err := h.InviteService.Issue(ctx, req.Email, domain.Role(req.Role), httpx.EmailFromCtx(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotificationFailed):
			// The invitation record exists; tell the admin and hand back
			// the token so it can be delivered another way.
			httpx.WriteJSON(w, http.StatusBadGateway, invitationDeliveryFailure(req, token))
		case errors.Is(err, service.ErrInvalidInviteRequest):
			httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeInvalidRequest,
				ErrorDescription: "Invalid invitation parameters",
			})
		case errors.Is(err, service.ErrInvalidRole):
			httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeInvalidRequest,
				ErrorDescription: "Invalid role",
			})
		default:
			log.Error("failed to issue invitation", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to create invitation",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, platformsdk.InvitationResponse{
		Email:       req.Email,
		Role:        req.Role,
		InviteToken: token,
		Delivered:   true,
	})
}

// invitationDeliveryFailure is the 502 body for an invitation that was
// persisted but whose email could not be sent.
func invitationDeliveryFailure(req platformsdk.InvitationRequest, token string) platformsdk.InvitationResponse {
	return platformsdk.InvitationResponse{
		Email:       req.Email,
		Role:        req.Role,
		InviteToken: token,
		Delivered:   false,
	}
}

// InvitationListHandler handles GET /v1/invitations?email=... so admins can
// see what is outstanding for an address. Raw tokens are not recoverable.
type InvitationListHandler struct {
	InviteService *service.InviteService
}

func (h *InvitationListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	email := r.URL.Query().Get("email")
	if email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "email query parameter is required",
		})
		return
	}

	invites, err := h.InviteService.ListForEmail(ctx, email)
	if err != nil {
		log.Error("failed to list invitations", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to list invitations",
		})
		return
	}

	out := make([]platformsdk.InvitationResponse, 0, len(invites))
	for _, inv := range invites {
		out = append(out, platformsdk.InvitationResponse{
			Email:     inv.Email,
			Role:      inv.Role.String(),
			ExpiresAt: inv.ExpiresAt.UTC().Format(time.RFC3339),
			Delivered: true,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// InvitationAcceptHandler handles POST /v1/invitations/accept. Requires a
// signed-in session; the accepting account is the session's, never the body's.
type InvitationAcceptHandler struct {
	InviteService *service.InviteService
}

func (h *InvitationAcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req platformsdk.InvitationAcceptRequest
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

	role, err := h.InviteService.Accept(ctx, req.Email, req.InviteToken, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			// Covers the wrong token, the wrong email, expiry, and a lost
			// race against a concurrent redeemer. One answer for all of
			// them keeps the endpoint from being a probe.
			httpx.WriteJSON(w, http.StatusNotFound, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeNotFound,
				ErrorDescription: "Invitation not found or expired",
			})
		case errors.Is(err, service.ErrInvalidInviteRequest):
			httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeInvalidRequest,
				ErrorDescription: "email and invite_token are required",
			})
		case errors.Is(err, service.ErrGrantFailed):
			httpx.WriteJSON(w, http.StatusConflict, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeConflict,
				ErrorDescription: "Role grant failed; the invitation remains valid",
			})
		default:
			log.Error("failed to accept invitation", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to accept invitation",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, platformsdk.InvitationAcceptResponse{
		Role: role.String(),
	})
}
