package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/linemk/homedeco-shop/internal/storage"
)

type WishlistService interface {
	List(ctx context.Context, userID int64) ([]*models.WishlistEntry, error)
	// Toggle добавляет товар в избранное или убирает его оттуда; added сообщает, что получилось.
	Toggle(ctx context.Context, userID, productID int64) (added bool, err error)
}

type wishlistService struct {
	log          *slog.Logger
	wishlistRepo storage.WishlistStorage
	productRepo  storage.ProductStorage
}

func NewWishlistService(log *slog.Logger, wishlistRepo storage.WishlistStorage, productRepo storage.ProductStorage) WishlistService {
	return &wishlistService{log: log, wishlistRepo: wishlistRepo, productRepo: productRepo}
}

func (s *wishlistService) List(ctx context.Context, userID int64) ([]*models.WishlistEntry, error) {
	const op = "service.WishlistService.List"

	entries, err := s.wishlistRepo.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list wishlist", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}

func (s *wishlistService) Toggle(ctx context.Context, userID, productID int64) (bool, error) {
	const op = "service.WishlistService.Toggle"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("productID", productID))

	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	// Каждый вызов меняет состояние ровно один раз. Если между DELETE и INSERT
	// запись успел вставить параллельный запрос, повторяем удаление.
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		removed, err := s.wishlistRepo.Remove(ctx, userID, productID)
		if err != nil {
			logger.Error("failed to remove from wishlist", slog.Any("error", err))
			return false, fmt.Errorf("%s: %w", op, err)
		}
		if removed {
			logger.Debug("removed from wishlist")
			return false, nil
		}

		inserted, err := s.wishlistRepo.Add(ctx, userID, productID)
		if err != nil {
			logger.Error("failed to add to wishlist", slog.Any("error", err))
			return false, fmt.Errorf("%s: %w", op, err)
		}
		if inserted {
			logger.Debug("added to wishlist")
			return true, nil
		}
		logger.Debug("wishlist entry added concurrently, retrying")
	}

	logger.Warn("wishlist toggle did not settle")
	return false, fmt.Errorf("%s: %w: concurrent wishlist updates", op, ErrStorage)
}

const maxToggleAttempts = 3
