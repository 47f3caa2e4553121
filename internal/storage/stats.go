package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/shopspring/decimal"
)

// StatsStorage - агрегирующие запросы для панелей пользователя и администратора.
type StatsStorage interface {
	// Revenue - сумма total_price по всем заказам, кроме отменённых.
	Revenue(ctx context.Context) (decimal.Decimal, error)
	CountActiveOrders(ctx context.Context) (int, error)
	CountCustomers(ctx context.Context) (int, error)
	CountLowStock(ctx context.Context, threshold int) (int, error)
	RecentOrders(ctx context.Context, limit int) ([]*models.Order, error)
	UserStats(ctx context.Context, userID int64) (*models.UserStats, error)
}

type statsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) StatsStorage {
	return &statsRepository{db: db}
}

func (r *statsRepository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE status <> $1", models.OrderCancelled,
	).Scan(&revenue)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return revenue, nil
}

func (r *statsRepository) CountActiveOrders(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM orders WHERE status IN ($1, $2, $3)",
		models.OrderPending, models.OrderProcessing, models.OrderShipped)
}

func (r *statsRepository) CountCustomers(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM users WHERE role = $1", models.RoleUser)
}

func (r *statsRepository) CountLowStock(ctx context.Context, threshold int) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM products WHERE stock < $1", threshold)
}

func (r *statsRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}

func (r *statsRepository) RecentOrders(ctx context.Context, limit int) ([]*models.Order, error) {
	query := `
		SELECT o.id, o.user_id, u.name, o.total_price, o.status, o.shipping_address, o.created_at, o.updated_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		o := &models.Order{}
		if err := rows.Scan(&o.ID, &o.UserID, &o.CustomerName, &o.TotalPrice, &o.Status, &o.ShippingAddress,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *statsRepository) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM orders WHERE user_id = $1),
			(SELECT COUNT(*) FROM testimonies WHERE user_id = $1),
			(SELECT COUNT(*) FROM wishlists WHERE user_id = $1)`
	stats := &models.UserStats{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&stats.OrdersCount, &stats.TestimoniesCount, &stats.WishlistCount); err != nil {
		return nil, fmt.Errorf("failed to query user stats: %w", err)
	}
	return stats, nil
}
