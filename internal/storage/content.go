package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/linemk/homedeco-shop/internal/domain/models"
)

var ErrContentNotFound = errors.New("content block not found")

// ContentStorage - контентные блоки, тарифы и сообщения обратной связи.
type ContentStorage interface {
	GetBlock(ctx context.Context, key string) (*models.ContentBlock, error)
	UpsertBlock(ctx context.Context, block *models.ContentBlock) (*models.ContentBlock, error)
	ListPricingPlans(ctx context.Context) ([]*models.PricingPlan, error)
	CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error
}

type contentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) ContentStorage {
	return &contentRepository{db: db}
}

func (r *contentRepository) GetBlock(ctx context.Context, key string) (*models.ContentBlock, error) {
	query := `
		SELECT id, key, title, COALESCE(subtitle, ''), COALESCE(section_title, ''), COALESCE(body, ''),
		       COALESCE(image, ''), meta, updated_at
		FROM content_blocks
		WHERE key = $1`
	b := &models.ContentBlock{}
	var meta []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&b.ID, &b.Key, &b.Title, &b.Subtitle, &b.SectionTitle,
		&b.Body, &b.Image, &meta, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	if len(meta) > 0 {
		b.Meta = json.RawMessage(meta)
	}
	return b, nil
}

func (r *contentRepository) UpsertBlock(ctx context.Context, b *models.ContentBlock) (*models.ContentBlock, error) {
	var meta []byte
	if len(b.Meta) > 0 {
		meta = []byte(b.Meta)
	}
	query := `
		INSERT INTO content_blocks (key, title, subtitle, section_title, body, image, meta, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (key) DO UPDATE SET
			title = EXCLUDED.title, subtitle = EXCLUDED.subtitle, section_title = EXCLUDED.section_title,
			body = EXCLUDED.body, image = EXCLUDED.image, meta = EXCLUDED.meta, updated_at = NOW()
		RETURNING id, updated_at`
	err := r.db.QueryRowContext(ctx, query, b.Key, b.Title, b.Subtitle, b.SectionTitle, b.Body, b.Image, meta).
		Scan(&b.ID, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert content block: %w", err)
	}
	return b, nil
}

func (r *contentRepository) ListPricingPlans(ctx context.Context) ([]*models.PricingPlan, error) {
	query := `
		SELECT id, name, price, period, description, features, is_popular, sort_order
		FROM pricing_plans
		ORDER BY sort_order ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pricing plans: %w", err)
	}
	defer rows.Close()

	plans := []*models.PricingPlan{}
	for rows.Next() {
		p := &models.PricingPlan{}
		var features []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Period, &p.Description, &features, &p.IsPopular, &p.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan pricing plan: %w", err)
		}
		p.Features = []string{}
		if len(features) > 0 {
			if err := json.Unmarshal(features, &p.Features); err != nil {
				return nil, fmt.Errorf("failed to decode features of plan %d: %w", p.ID, err)
			}
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *contentRepository) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO contact_messages (name, email, phone, subject, message, is_read, created_at)
		 VALUES ($1, $2, $3, $4, $5, FALSE, NOW()) RETURNING id, created_at`,
		msg.Name, msg.Email, msg.Phone, msg.Subject, msg.Message,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}
