package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/homedeco-shop/internal/domain/models"
)

// WishlistStorage - избранные товары пользователя.
type WishlistStorage interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.WishlistEntry, error)
	// Remove возвращает true, если запись существовала.
	Remove(ctx context.Context, userID, productID int64) (bool, error)
	// Add возвращает false, если запись уже была.
	Add(ctx context.Context, userID, productID int64) (bool, error)
}

type wishlistRepository struct {
	db *sql.DB
}

func NewWishlistRepository(db *sql.DB) WishlistStorage {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) ListByUser(ctx context.Context, userID int64) ([]*models.WishlistEntry, error) {
	query := `
		SELECT w.id, w.user_id, w.product_id, w.created_at,
		       p.id, p.name, p.slug, COALESCE(p.description, ''), COALESCE(p.category, ''), p.price, p.stock,
		       COALESCE(p.image, ''), p.is_featured, p.created_at, p.updated_at
		FROM wishlists w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	entries := []*models.WishlistEntry{}
	for rows.Next() {
		e := &models.WishlistEntry{Product: &models.Product{}}
		p := e.Product
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProductID, &e.CreatedAt,
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Category, &p.Price, &p.Stock,
			&p.Image, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2", userID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Add не падает на повторной вставке благодаря уникальному индексу (user_id, product_id).
func (r *wishlistRepository) Add(ctx context.Context, userID, productID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO wishlists (user_id, product_id, created_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id, product_id) DO NOTHING`, userID, productID)
	if err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return false, ErrProductNotFound
		}
		return false, fmt.Errorf("failed to add to wishlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
