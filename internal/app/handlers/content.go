package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/linemk/homedeco-shop/internal/service"
	"github.com/linemk/homedeco-shop/internal/storage"
)

// ContentBlockRequest тело PUT /api/admin/content/{key}
type ContentBlockRequest struct {
	Title        string          `json:"title" validate:"required,max=255"`
	Subtitle     string          `json:"subtitle"`
	SectionTitle string          `json:"section_title" validate:"max=255"`
	Body         string          `json:"body"`
	Image        string          `json:"image" validate:"omitempty,max=512"`
	Meta         json.RawMessage `json:"meta"`
}

// ContactRequest форма обратной связи
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=64"`
	Subject string `json:"subject" validate:"omitempty,max=255"`
	Message string `json:"message" validate:"required,min=10"`
}

// ContentBlockHandler GET /api/content/{key}
func ContentBlockHandler(log *slog.Logger, contentService service.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ContentBlockHandler"
		logger := log.With(slog.String("op", op))

		block, err := contentService.GetBlock(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			if errors.Is(err, storage.ErrContentNotFound) {
				writeError(logger, w, http.StatusNotFound, "content not found")
				return
			}
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, block)
	}
}

// SaveContentBlockHandler PUT /api/admin/content/{key}
func SaveContentBlockHandler(log *slog.Logger, contentService service.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SaveContentBlockHandler"
		logger := log.With(slog.String("op", op))

		var req ContentBlockRequest
		if err := decodeRequest(r, &req); err != nil {
			writeDecodeError(logger, w, err)
			return
		}

		block, err := contentService.SaveBlock(r.Context(), &models.ContentBlock{
			Key:          chi.URLParam(r, "key"),
			Title:        req.Title,
			Subtitle:     req.Subtitle,
			SectionTitle: req.SectionTitle,
			Body:         req.Body,
			Image:        req.Image,
			Meta:         req.Meta,
		})
		if err != nil {
			if errors.Is(err, service.ErrInvalidRequest) {
				writeError(logger, w, http.StatusUnprocessableEntity, "invalid content block")
				return
			}
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, block)
	}
}

// PricingPlansHandler GET /api/pricing-plans
func PricingPlansHandler(log *slog.Logger, contentService service.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.PricingPlansHandler"))

		plans, err := contentService.PricingPlans(r.Context())
		if err != nil {
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, plans)
	}
}

// ContactHandler POST /api/contact
func ContactHandler(log *slog.Logger, contentService service.ContentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ContactHandler"
		logger := log.With(slog.String("op", op))

		var req ContactRequest
		if err := decodeRequest(r, &req); err != nil {
			writeDecodeError(logger, w, err)
			return
		}

		err := contentService.SubmitContact(r.Context(), &models.ContactMessage{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Subject: req.Subject,
			Message: req.Message,
		})
		if err != nil {
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusCreated, MessageResponse{Message: "Thank you for your message. We will get back to you soon!"})
	}
}
