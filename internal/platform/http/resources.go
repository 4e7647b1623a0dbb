package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nextprepbd/platform/internal/platform/domain"
	"github.com/nextprepbd/platform/internal/platform/service"
	"github.com/nextprepbd/platform/pkg/httpx"
	"github.com/nextprepbd/platform/pkg/platformsdk"
	"github.com/nextprepbd/platform/pkg/slogx"
)

func resourceResponse(res domain.Resource) platformsdk.ResourceResponse {
	return platformsdk.ResourceResponse{
		ID:        res.ID,
		AuthorID:  res.AuthorID,
		CourseID:  res.CourseID,
		Title:     res.Title,
		URL:       res.URL,
		Kind:      res.Kind,
		CreatedAt: res.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ResourcesHandler handles study resource endpoints.
type ResourcesHandler struct {
	ContentService *service.ContentService
}

// HandleCreate handles POST /v1/resources (content:write).
func (h *ResourcesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req platformsdk.ResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	res, err := h.ContentService.CreateResource(ctx, httpx.UserIDFromCtx(ctx), domain.Resource{
		CourseID: req.CourseID,
		Title:    req.Title,
		URL:      req.URL,
		Kind:     req.Kind,
	})
	if err != nil {
		if !writeContentError(w, err) {
			log.Error("failed to create resource", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to create resource",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, resourceResponse(res))
}

// HandleListByCourse handles GET /v1/courses/{id}/resources.
func (h *ResourcesHandler) HandleListByCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	resources, err := h.ContentService.ListResourcesByCourse(ctx, r.PathValue("id"))
	if err != nil {
		log.Error("failed to list resources", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to list resources",
		})
		return
	}

	out := make([]platformsdk.ResourceResponse, 0, len(resources))
	for _, res := range resources {
		out = append(out, resourceResponse(res))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleListMine handles GET /v1/resources, listing the caller's own uploads
// regardless of whether they are attached to a course.
func (h *ResourcesHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	resources, err := h.ContentService.ListResourcesByAuthor(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		log.Error("failed to list resources", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to list resources",
		})
		return
	}

	out := make([]platformsdk.ResourceResponse, 0, len(resources))
	for _, res := range resources {
		out = append(out, resourceResponse(res))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /v1/resources/{id} (content:write).
func (h *ResourcesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.ContentService.DeleteResource(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id")); err != nil {
		if !writeContentError(w, err) {
			log.Error("failed to delete resource", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to delete resource",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
