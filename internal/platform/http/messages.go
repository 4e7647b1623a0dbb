package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nextprepbd/platform/internal/platform/service"
	"github.com/nextprepbd/platform/internal/platform/store"
	"github.com/nextprepbd/platform/pkg/httpx"
	"github.com/nextprepbd/platform/pkg/platformsdk"
	"github.com/nextprepbd/platform/pkg/slogx"
)

// MessagesHandler handles the contact-form endpoints.
type MessagesHandler struct {
	ContactService *service.ContactService
}

// HandleSubmit handles POST /v1/messages. Public endpoint.
func (h *MessagesHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req platformsdk.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	m, err := h.ContactService.Submit(ctx, req.Name, req.Email, req.Subject, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMessage) {
			httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeInvalidRequest,
				ErrorDescription: "name and body are required",
			})
			return
		}
		log.Error("failed to store message", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to store message",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, platformsdk.MessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Body:      m.Body,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// HandleList handles GET /v1/messages (admin:read).
func (h *MessagesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	messages, err := h.ContactService.List(ctx)
	if err != nil {
		log.Error("failed to list messages", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to list messages",
		})
		return
	}

	out := make([]platformsdk.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, platformsdk.MessageResponse{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Subject:   m.Subject,
			Body:      m.Body,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /v1/messages/{id} (admin:write).
func (h *MessagesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.ContactService.Delete(ctx, r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeNotFound,
				ErrorDescription: "Message not found",
			})
			return
		}
		log.Error("failed to delete message", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to delete message",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
