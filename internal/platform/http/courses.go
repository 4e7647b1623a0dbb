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

func courseResponse(c domain.Course) platformsdk.CourseResponse {
	return platformsdk.CourseResponse{
		ID:          c.ID,
		TutorID:     c.TutorID,
		Title:       c.Title,
		Description: c.Description,
		Published:   c.Published,
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// writeContentError maps the shared content error cases; returns false when
// the error was not one of them.
func writeContentError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, service.ErrContentNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeNotFound,
			ErrorDescription: "Content not found",
		})
	case errors.Is(err, service.ErrNotOwner):
		httpx.WriteJSON(w, http.StatusForbidden, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeForbidden,
			ErrorDescription: "Not the owner of this content",
		})
	case errors.Is(err, service.ErrInvalidContent):
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid content",
		})
	default:
		return false
	}
	return true
}

// CoursesHandler handles course CRUD. Creation and mutation require the
// content:write scope (tutors and admins).
type CoursesHandler struct {
	ContentService *service.ContentService
}

// HandleCreate handles POST /v1/courses.
func (h *CoursesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req platformsdk.CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	course, err := h.ContentService.CreateCourse(ctx, httpx.UserIDFromCtx(ctx), req.Title, req.Description)
	if err != nil {
		if !writeContentError(w, err) {
			log.Error("failed to create course", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to create course",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, courseResponse(course))
}

// HandleList handles GET /v1/courses.
func (h *CoursesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	courses, err := h.ContentService.ListCourses(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		log.Error("failed to list courses", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeServerError,
			ErrorDescription: "Failed to list courses",
		})
		return
	}

	out := make([]platformsdk.CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, courseResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /v1/courses/{id}.
func (h *CoursesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	course, err := h.ContentService.GetCourse(ctx, r.PathValue("id"))
	if err != nil {
		if !writeContentError(w, err) {
			log.Error("failed to fetch course", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to fetch course",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, courseResponse(course))
}

// HandleUpdate handles PUT /v1/courses/{id}.
func (h *CoursesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req platformsdk.CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, platformsdk.ErrorResponse{
			Error:            platformsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	course, err := h.ContentService.UpdateCourse(ctx, httpx.UserIDFromCtx(ctx), domain.Course{
		ID:          r.PathValue("id"),
		Title:       req.Title,
		Description: req.Description,
		Published:   req.Published,
	})
	if err != nil {
		if !writeContentError(w, err) {
			log.Error("failed to update course", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to update course",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, courseResponse(course))
}

// HandleDelete handles DELETE /v1/courses/{id}.
func (h *CoursesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.ContentService.DeleteCourse(ctx, httpx.UserIDFromCtx(ctx), r.PathValue("id")); err != nil {
		if !writeContentError(w, err) {
			log.Error("failed to delete course", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, platformsdk.ErrorResponse{
				Error:            platformsdk.ErrorCodeServerError,
				ErrorDescription: "Failed to delete course",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
