package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/homedeco-shop/internal/service"
	"github.com/linemk/homedeco-shop/internal/storage"
)

// TestimonyRequest новый отзыв
type TestimonyRequest struct {
	Content string `json:"content" validate:"required,min=10"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

// ApprovalRequest решение модератора
type ApprovalRequest struct {
	IsApproved *bool `json:"is_approved" validate:"required"`
}

// PublicTestimoniesHandler GET /api/testimonies, последние одобренные
func PublicTestimoniesHandler(log *slog.Logger, testimonyService service.TestimonyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.PublicTestimoniesHandler"))

		list, err := testimonyService.ListPublic(r.Context())
		if err != nil {
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, list)
	}
}

// UserTestimoniesHandler GET /api/user/testimonies
func UserTestimoniesHandler(log *slog.Logger, testimonyService service.TestimonyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.UserTestimoniesHandler"))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		list, err := testimonyService.ListOwn(r.Context(), userID)
		if err != nil {
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, list)
	}
}

// SubmitTestimonyHandler POST /api/user/testimonies
func SubmitTestimonyHandler(log *slog.Logger, testimonyService service.TestimonyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SubmitTestimonyHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		var req TestimonyRequest
		if err := decodeRequest(r, &req); err != nil {
			writeDecodeError(logger, w, err)
			return
		}

		t, err := testimonyService.Submit(r.Context(), userID, req.Content, req.Rating)
		if err != nil {
			if errors.Is(err, service.ErrInvalidRequest) {
				writeError(logger, w, http.StatusUnprocessableEntity, "invalid testimony")
				return
			}
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusCreated, t)
	}
}

// DeleteTestimonyHandler DELETE /api/user/testimonies/{id}
func DeleteTestimonyHandler(log *slog.Logger, testimonyService service.TestimonyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteTestimonyHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}
		id, ok := idParam(r, "id")
		if !ok {
			writeError(logger, w, http.StatusNotFound, "testimony not found")
			return
		}

		if err := testimonyService.DeleteOwn(r.Context(), userID, id); err != nil {
			if errors.Is(err, storage.ErrTestimonyNotFound) {
				writeError(logger, w, http.StatusNotFound, "testimony not found")
				return
			}
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, MessageResponse{Message: "Testimony deleted successfully"})
	}
}

// TestimonyApprovalHandler PATCH /api/admin/testimonies/{id}/approval
func TestimonyApprovalHandler(log *slog.Logger, testimonyService service.TestimonyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.TestimonyApprovalHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			writeError(logger, w, http.StatusNotFound, "testimony not found")
			return
		}

		var req ApprovalRequest
		if err := decodeRequest(r, &req); err != nil {
			writeDecodeError(logger, w, err)
			return
		}

		if err := testimonyService.SetApproval(r.Context(), id, *req.IsApproved); err != nil {
			if errors.Is(err, storage.ErrTestimonyNotFound) {
				writeError(logger, w, http.StatusNotFound, "testimony not found")
				return
			}
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, MessageResponse{Message: "Testimony updated"})
	}
}
