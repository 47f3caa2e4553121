package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/homedeco-shop/internal/domain/models"
)

var ErrTestimonyNotFound = errors.New("testimony not found")

// TestimonyStorage - отзывы покупателей и флаг модерации.
type TestimonyStorage interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.Testimony, error)
	Create(ctx context.Context, t *models.Testimony) (*models.Testimony, error)
	// DeleteOwned удаляет отзыв, только если он принадлежит userID.
	DeleteOwned(ctx context.Context, id, userID int64) error
	ListApproved(ctx context.Context, limit int) ([]*models.Testimony, error)
	SetApproved(ctx context.Context, id int64, approved bool) error
}

type testimonyRepository struct {
	db *sql.DB
}

func NewTestimonyRepository(db *sql.DB) TestimonyStorage {
	return &testimonyRepository{db: db}
}

func (r *testimonyRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Testimony, error) {
	query := `
		SELECT id, user_id, content, rating, is_approved, created_at
		FROM testimonies
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query testimonies: %w", err)
	}
	defer rows.Close()

	testimonies := []*models.Testimony{}
	for rows.Next() {
		t := &models.Testimony{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Content, &t.Rating, &t.IsApproved, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan testimony: %w", err)
		}
		testimonies = append(testimonies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return testimonies, nil
}

func (r *testimonyRepository) Create(ctx context.Context, t *models.Testimony) (*models.Testimony, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO testimonies (user_id, content, rating, is_approved, created_at)
		 VALUES ($1, $2, $3, FALSE, NOW()) RETURNING id, created_at`,
		t.UserID, t.Content, t.Rating,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create testimony: %w", err)
	}
	t.IsApproved = false
	return t, nil
}

func (r *testimonyRepository) DeleteOwned(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM testimonies WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete testimony: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTestimonyNotFound
	}
	return nil
}

// ListApproved - последние одобренные отзывы с именем автора для главной страницы.
func (r *testimonyRepository) ListApproved(ctx context.Context, limit int) ([]*models.Testimony, error) {
	query := `
		SELECT t.id, t.user_id, u.name, t.content, t.rating, t.is_approved, t.created_at
		FROM testimonies t
		JOIN users u ON u.id = t.user_id
		WHERE t.is_approved = TRUE
		ORDER BY t.created_at DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved testimonies: %w", err)
	}
	defer rows.Close()

	testimonies := []*models.Testimony{}
	for rows.Next() {
		t := &models.Testimony{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.AuthorName, &t.Content, &t.Rating, &t.IsApproved, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan testimony: %w", err)
		}
		testimonies = append(testimonies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return testimonies, nil
}

func (r *testimonyRepository) SetApproved(ctx context.Context, id int64, approved bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE testimonies SET is_approved = $1 WHERE id = $2", approved, id)
	if err != nil {
		return fmt.Errorf("failed to update testimony: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTestimonyNotFound
	}
	return nil
}
