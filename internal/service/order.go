package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/linemk/homedeco-shop/internal/storage"
)

var ErrInvalidStatus = errors.New("invalid order status")

type OrderService interface {
	ListForUser(ctx context.Context, userID int64) ([]*models.Order, error)
	SetStatus(ctx context.Context, orderID int64, status models.OrderStatus) error
}

type orderService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
}

func NewOrderService(log *slog.Logger, orderRepo storage.OrderStorage) OrderService {
	return &orderService{log: log, orderRepo: orderRepo}
}

// ListForUser история заказов покупателя, новые первыми
func (s *orderService) ListForUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "service.OrderService.ListForUser"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	orders, err := s.orderRepo.ListOrdersForUser(ctx, userID)
	if err != nil {
		logger.Error("failed to list orders", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// SetStatus смена статуса администратором. Любой переход между значениями перечисления допустим.
func (s *orderService) SetStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	const op = "service.OrderService.SetStatus"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID), slog.String("status", string(status)))

	if !status.Valid() {
		logger.Warn("unknown status")
		return fmt.Errorf("%s: %w: %q", op, ErrInvalidStatus, status)
	}

	if err := s.orderRepo.SetStatus(ctx, orderID, status); err != nil {
		if !errors.Is(err, storage.ErrOrderNotFound) {
			logger.Error("failed to update status", slog.Any("error", err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("order status updated")
	return nil
}
