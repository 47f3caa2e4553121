package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/linemk/homedeco-shop/internal/lib/metrics"
	"github.com/linemk/homedeco-shop/internal/storage"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRequest - запрос отклонён до обращения к хранилищу.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrStorage - сбой инфраструктуры, транзакция откачена.
	ErrStorage = errors.New("storage failure")
)

// ProductNotFoundError - в корзине товар, которого нет в каталоге.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error {
	return storage.ErrProductNotFound
}

// CheckoutItem строка корзины
type CheckoutItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CheckoutResult итог успешного оформления
type CheckoutResult struct {
	OrderID int64           `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
}

// CheckoutRecorder принимает результат каждой попытки оформления.
type CheckoutRecorder interface {
	ObserveCheckout(result string, d time.Duration)
}

type CheckoutService interface {
	Checkout(ctx context.Context, userID int64, items []CheckoutItem, address string) (*CheckoutResult, error)
}

type checkoutService struct {
	log         *slog.Logger
	transactor  storage.Transactor
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
	recorder    CheckoutRecorder
}

func NewCheckoutService(log *slog.Logger, transactor storage.Transactor, productRepo storage.ProductStorage, orderRepo storage.OrderStorage, recorder CheckoutRecorder) CheckoutService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &checkoutService{
		log:         log,
		transactor:  transactor,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		recorder:    recorder,
	}
}

type nopRecorder struct{}

func (nopRecorder) ObserveCheckout(string, time.Duration) {}

// Checkout превращает корзину в заказ.
// Чтение товаров, проверка остатков, списание и запись заказа идут в одной транзакции:
// при любой ошибке каталог и заказы остаются нетронутыми.
func (s *checkoutService) Checkout(ctx context.Context, userID int64, items []CheckoutItem, address string) (*CheckoutResult, error) {
	const op = "service.CheckoutService.Checkout"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int("items", len(items)))
	start := time.Now()

	if err := validateCheckout(items, address); err != nil {
		s.recorder.ObserveCheckout(metrics.CheckoutInvalid, time.Since(start))
		logger.Warn("checkout rejected", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("starting checkout transaction")

	var result *CheckoutResult
	err := s.transactor.WithinTx(ctx, func(tx *sql.Tx) error {
		lines := make([]models.NewOrderItem, 0, len(items))
		names := make(map[int64]string, len(items))
		total := decimal.Zero

		// Получаем товары и проверяем остатки в порядке корзины
		for _, item := range items {
			product, err := s.productRepo.GetProduct(ctx, tx, item.ProductID)
			if err != nil {
				if errors.Is(err, storage.ErrProductNotFound) {
					return &ProductNotFoundError{ProductID: item.ProductID}
				}
				return fmt.Errorf("failed to get product %d: %w", item.ProductID, err)
			}
			if product.Stock < item.Quantity {
				return &storage.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   item.Quantity,
				}
			}
			names[product.ID] = product.Name

			// цена фиксируется в момент чтения
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			lines = append(lines, models.NewOrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
		}

		// Списываем остатки условным UPDATE
		for _, line := range lines {
			if err := s.productRepo.DecrementStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
				var stockErr *storage.InsufficientStockError
				if errors.As(err, &stockErr) {
					stockErr.ProductName = names[line.ProductID]
					return stockErr
				}
				if errors.Is(err, storage.ErrProductNotFound) {
					return &ProductNotFoundError{ProductID: line.ProductID}
				}
				return fmt.Errorf("failed to decrement stock of product %d: %w", line.ProductID, err)
			}
		}

		orderID, err := s.orderRepo.CreateOrder(ctx, tx, userID, total, address, lines)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		result = &CheckoutResult{OrderID: orderID, Total: total}
		return nil
	})
	if err != nil {
		var (
			notFound *ProductNotFoundError
			stockErr *storage.InsufficientStockError
		)
		switch {
		case errors.As(err, &notFound):
			s.recorder.ObserveCheckout(metrics.CheckoutNotFound, time.Since(start))
			logger.Warn("product not found", slog.Int64("productID", notFound.ProductID))
			return nil, fmt.Errorf("%s: %w", op, err)
		case errors.As(err, &stockErr):
			s.recorder.ObserveCheckout(metrics.CheckoutInsufficient, time.Since(start))
			logger.Warn("insufficient stock",
				slog.Int64("productID", stockErr.ProductID),
				slog.Int("available", stockErr.Available),
				slog.Int("requested", stockErr.Requested),
			)
			return nil, fmt.Errorf("%s: %w", op, err)
		default:
			s.recorder.ObserveCheckout(metrics.CheckoutError, time.Since(start))
			logger.Error("checkout transaction failed", slog.Any("error", err))
			return nil, fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
		}
	}

	s.recorder.ObserveCheckout(metrics.CheckoutSuccess, time.Since(start))
	logger.Info("checkout completed successfully",
		slog.Int64("orderID", result.OrderID),
		slog.String("total", result.Total.StringFixed(2)),
	)
	return result, nil
}

func validateCheckout(items []CheckoutItem, address string) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrInvalidRequest)
	}
	for i, item := range items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item %d: quantity must be at least 1", ErrInvalidRequest, i)
		}
	}
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("%w: shipping address is required", ErrInvalidRequest)
	}
	return nil
}
