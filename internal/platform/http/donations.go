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

func donationResponse(d domain.Donation) platformsdk.DonationResponse {
	return platformsdk.DonationResponse{
		ID:          d.ID,
		Reference:   d.Reference,
		Name:        d.DonorName,
		Email:       d.DonorEmail,
		AmountCents: d.AmountCents,
		Currency:    d.Currency,
		Status:      string(d.Status),
		Note:        d.Note,
		CreatedAt:   d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// DonationsHandler handles the donation pledge and reconciliation endpoints.
type DonationsHandler struct {
	DonationService *service.DonationService
}

// HandlePledge handles POST /v1/donations. Public endpoint.
func (h *DonationsHandler) HandlePledge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req platformsdk.DonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	d, err := h.DonationService.Pledge(ctx, req.Name, req.Email, req.AmountCents, req.Currency, req.Note)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDonation) {
			httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeInvalidRequest,
				ErrorDescription: "name and a positive amount_cents are required",
			})
			return
		}
		log.Error("failed to record donation", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to record donation",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, donationResponse(d))
}

// HandleList handles GET /v1/donations (admin:read).
func (h *DonationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	donations, err := h.DonationService.List(ctx)
	if err != nil {
		log.Error("failed to list donations", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to list donations",
		})
		return
	}

	out := make([]platformsdk.DonationResponse, 0, len(donations))
	for _, d := range donations {
		out = append(out, donationResponse(d))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleResolve handles POST /v1/donations/{id}/resolve (admin:write).
func (h *DonationsHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req platformsdk.DonationResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	err := h.DonationService.Resolve(ctx, r.PathValue("id"), domain.DonationStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDonationNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeNotFound,
				ErrorDescription: "Donation not found",
			})
		case errors.Is(err, service.ErrBadStatusChange):
			httpx.WriteJSON(w, http.StatusConflict, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeConflict,
				ErrorDescription: "Donation is not pending or status is invalid",
			})
		default:
			log.Error("failed to resolve donation", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to resolve donation",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
