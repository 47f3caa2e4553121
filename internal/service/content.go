package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/linemk/homedeco-shop/internal/storage"
)

type ContentService interface {
	GetBlock(ctx context.Context, key string) (*models.ContentBlock, error)
	SaveBlock(ctx context.Context, block *models.ContentBlock) (*models.ContentBlock, error)
	PricingPlans(ctx context.Context) ([]*models.PricingPlan, error)
	SubmitContact(ctx context.Context, msg *models.ContactMessage) error
}

type contentService struct {
	log         *slog.Logger
	contentRepo storage.ContentStorage
}

func NewContentService(log *slog.Logger, contentRepo storage.ContentStorage) ContentService {
	return &contentService{log: log, contentRepo: contentRepo}
}

func (s *contentService) GetBlock(ctx context.Context, key string) (*models.ContentBlock, error) {
	const op = "service.ContentService.GetBlock"

	block, err := s.contentRepo.GetBlock(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrContentNotFound) {
			s.log.Error("failed to get content block", slog.String("op", op), slog.String("key", key), slog.Any("error", err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return block, nil
}

// SaveBlock создаёт блок или перезаписывает существующий с тем же ключом.
func (s *contentService) SaveBlock(ctx context.Context, block *models.ContentBlock) (*models.ContentBlock, error) {
	const op = "service.ContentService.SaveBlock"
	logger := s.log.With(slog.String("op", op), slog.String("key", block.Key))

	if strings.TrimSpace(block.Key) == "" || strings.TrimSpace(block.Title) == "" {
		return nil, fmt.Errorf("%s: %w: key and title are required", op, ErrInvalidRequest)
	}
	if len(block.Meta) > 0 && !json.Valid(block.Meta) {
		return nil, fmt.Errorf("%s: %w: meta must be valid JSON", op, ErrInvalidRequest)
	}

	saved, err := s.contentRepo.UpsertBlock(ctx, block)
	if err != nil {
		logger.Error("failed to save content block", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("content block saved")
	return saved, nil
}

func (s *contentService) PricingPlans(ctx context.Context) ([]*models.PricingPlan, error) {
	const op = "service.ContentService.PricingPlans"

	plans, err := s.contentRepo.ListPricingPlans(ctx)
	if err != nil {
		s.log.Error("failed to list pricing plans", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plans, nil
}

func (s *contentService) SubmitContact(ctx context.Context, msg *models.ContactMessage) error {
	const op = "service.ContentService.SubmitContact"
	logger := s.log.With(slog.String("op", op), slog.String("email", msg.Email))

	if err := s.contentRepo.CreateContactMessage(ctx, msg); err != nil {
		logger.Error("failed to save contact message", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("contact message received", slog.Int64("messageID", msg.ID))
	return nil
}
