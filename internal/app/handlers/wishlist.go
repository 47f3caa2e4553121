package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/homedeco-shop/internal/service"
	"github.com/linemk/homedeco-shop/internal/storage"
)

// ToggleWishlistRequest тело POST /api/user/wishlist/toggle
type ToggleWishlistRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// ToggleWishlistResponse added=false означает, что товар убран из избранного
type ToggleWishlistResponse struct {
	Added   bool   `json:"added"`
	Message string `json:"message"`
}

// WishlistHandler GET /api/user/wishlist
func WishlistHandler(log *slog.Logger, wishlistService service.WishlistService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.WishlistHandler"))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		entries, err := wishlistService.List(r.Context(), userID)
		if err != nil {
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, entries)
	}
}

// ToggleWishlistHandler POST /api/user/wishlist/toggle
func ToggleWishlistHandler(log *slog.Logger, wishlistService service.WishlistService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ToggleWishlistHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		var req ToggleWishlistRequest
		if err := decodeRequest(r, &req); err != nil {
			writeDecodeError(logger, w, err)
			return
		}

		added, err := wishlistService.Toggle(r.Context(), userID, req.ProductID)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				writeError(logger, w, http.StatusUnprocessableEntity, "product not found")
				return
			}
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		msg := "Removed from wishlist"
		if added {
			msg = "Added to wishlist"
		}
		writeJSON(logger, w, http.StatusOK, ToggleWishlistResponse{Added: added, Message: msg})
	}
}
