package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/shopspring/decimal"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrder вставляет заказ со статусом pending и все его строки в рамках транзакции.
	CreateOrder(ctx context.Context, tx *sql.Tx, userID int64, total decimal.Decimal, address string, items []models.NewOrderItem) (int64, error)
	// ListOrdersForUser возвращает заказы пользователя, новые первыми, вместе со строками.
	ListOrdersForUser(ctx context.Context, userID int64) ([]*models.Order, error)
	// SetStatus меняет статус заказа (только администратор).
	SetStatus(ctx context.Context, orderID int64, status models.OrderStatus) error
}

// orderRepository конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, userID int64, total decimal.Decimal, address string, items []models.NewOrderItem) (int64, error) {
	var orderID int64
	query := `INSERT INTO orders (user_id, total_price, status, shipping_address, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING id`
	err := tx.QueryRowContext(ctx, query, userID, total, models.OrderPending, address).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)`
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, itemQuery, orderID, item.ProductID, item.Quantity, item.Price); err != nil {
			if isPQCode(err, pqCheckViolation) {
				return 0, fmt.Errorf("invalid order item (product_id: %d): %w", item.ProductID, err)
			}
			return 0, fmt.Errorf("failed to create order item (product_id: %d): %w", item.ProductID, err)
		}
	}
	return orderID, nil
}

// ListOrdersForUser читает заказы одним запросом, затем все строки одним запросом по массиву id.
// Имя и цена товара в строке - текущие, цена покупки хранится в order_items.price.
func (r *orderRepository) ListOrdersForUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	query := `
		SELECT id, user_id, total_price, status, shipping_address, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	byID := make(map[int64]*models.Order)
	var ids []int64
	for rows.Next() {
		o := &models.Order{}
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Items = []*models.OrderItem{}
		orders = append(orders, o)
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemsQuery := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, p.name, p.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.id`
	itemRows, err := r.db.QueryContext(ctx, itemsQuery, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item := &models.OrderItem{Product: &models.ProductRef{}}
		if err := itemRows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price,
			&item.Product.Name, &item.Product.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		item.Product.ID = item.ProductID
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) SetStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2", status, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
