package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/linemk/homedeco-shop/internal/service"
	"github.com/linemk/homedeco-shop/internal/storage"
)

// OrderStatusRequest тело PATCH /api/admin/orders/{id}/status
type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// UserOrdersHandler GET /api/user/orders
func UserOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UserOrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		orders, err := orderService.ListForUser(r.Context(), userID)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, orders)
	}
}

// OrderStatusHandler смена статуса заказа администратором
func OrderStatusHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderStatusHandler"
		logger := log.With(slog.String("op", op))

		orderID, ok := idParam(r, "id")
		if !ok {
			writeError(logger, w, http.StatusBadRequest, "invalid order id")
			return
		}

		var req OrderStatusRequest
		if err := decodeRequest(r, &req); err != nil {
			writeDecodeError(logger, w, err)
			return
		}

		if err := orderService.SetStatus(r.Context(), orderID, models.OrderStatus(req.Status)); err != nil {
			switch {
			case errors.Is(err, storage.ErrOrderNotFound):
				writeError(logger, w, http.StatusNotFound, "order not found")
			case errors.Is(err, service.ErrInvalidStatus):
				writeError(logger, w, http.StatusUnprocessableEntity, "invalid order status")
			default:
				logger.Error("failed to update order status", slog.Any("error", err))
				writeError(logger, w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(logger, w, http.StatusOK, MessageResponse{Message: "Order status updated"})
	}
}
