package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/linemk/homedeco-shop/internal/service"
	"github.com/linemk/homedeco-shop/internal/storage"
)

// CheckoutItemRequest строка корзины
type CheckoutItemRequest struct {
	ProductID int64 `json:"id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

// CheckoutRequest тело POST /api/checkout
type CheckoutRequest struct {
	Items           []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string                `json:"shipping_address" validate:"required"`
}

// CheckoutResponse ответ при успешном оформлении
type CheckoutResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
	Total   string `json:"total"`
}

// CheckoutHandler оформляет заказ из корзины.
// 201 при успехе, 422 при ошибке валидации, отсутствии товара или нехватке остатка.
func CheckoutHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(logger, w, r)
		if !ok {
			return
		}

		var req CheckoutRequest
		if err := decodeRequest(r, &req); err != nil {
			writeDecodeError(logger, w, err)
			return
		}

		items := make([]service.CheckoutItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, service.CheckoutItem{ProductID: item.ProductID, Quantity: item.Quantity})
		}

		res, err := checkoutService.Checkout(r.Context(), userID, items, req.ShippingAddress)
		if err != nil {
			var (
				notFound *service.ProductNotFoundError
				stockErr *storage.InsufficientStockError
			)
			switch {
			case errors.Is(err, service.ErrInvalidRequest):
				writeError(logger, w, http.StatusUnprocessableEntity, "invalid checkout request")
			case errors.As(err, &notFound):
				writeError(logger, w, http.StatusUnprocessableEntity, fmt.Sprintf("Product %d not found", notFound.ProductID))
			case errors.As(err, &stockErr):
				writeError(logger, w, http.StatusUnprocessableEntity, insufficientStockMessage(stockErr))
			default:
				logger.Error("checkout failed", slog.Any("error", err))
				writeError(logger, w, http.StatusInternalServerError, "Checkout failed. Please try again.")
			}
			return
		}

		writeJSON(logger, w, http.StatusCreated, CheckoutResponse{
			Message: "Order placed successfully",
			OrderID: res.OrderID,
			Total:   res.Total.StringFixed(2),
		})
	}
}

func insufficientStockMessage(e *storage.InsufficientStockError) string {
	product := fmt.Sprintf("product %d", e.ProductID)
	if e.ProductName != "" {
		product = e.ProductName
	}
	return fmt.Sprintf("Insufficient stock for %s: available %d, requested %d", product, e.Available, e.Requested)
}
