package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/linemk/homedeco-shop/internal/storage"
	"golang.org/x/sync/errgroup"
)

type StatsService interface {
	AdminStats(ctx context.Context) (*models.AdminStats, error)
	UserStats(ctx context.Context, userID int64) (*models.UserStats, error)
}

type statsService struct {
	log               *slog.Logger
	statsRepo         storage.StatsStorage
	lowStockThreshold int
	recentOrders      int
}

func NewStatsService(log *slog.Logger, statsRepo storage.StatsStorage, lowStockThreshold, recentOrders int) StatsService {
	return &statsService{
		log:               log,
		statsRepo:         statsRepo,
		lowStockThreshold: lowStockThreshold,
		recentOrders:      recentOrders,
	}
}

// AdminStats собирает сводку параллельными запросами.
// Выручка каждый раз считается заново по заказам, отдельно она не хранится.
func (s *statsService) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	const op = "service.StatsService.AdminStats"

	stats := &models.AdminStats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		revenue, err := s.statsRepo.Revenue(gctx)
		stats.Revenue = revenue
		return err
	})
	g.Go(func() error {
		n, err := s.statsRepo.CountActiveOrders(gctx)
		stats.ActiveOrders = n
		return err
	})
	g.Go(func() error {
		n, err := s.statsRepo.CountCustomers(gctx)
		stats.Customers = n
		return err
	})
	g.Go(func() error {
		n, err := s.statsRepo.CountLowStock(gctx, s.lowStockThreshold)
		stats.LowStock = n
		return err
	})
	g.Go(func() error {
		orders, err := s.statsRepo.RecentOrders(gctx, s.recentOrders)
		stats.RecentOrders = orders
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error("failed to collect admin stats", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

func (s *statsService) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	const op = "service.StatsService.UserStats"

	stats, err := s.statsRepo.UserStats(ctx, userID)
	if err != nil {
		s.log.Error("failed to collect user stats", slog.String("op", op), slog.Int64("userID", userID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}
