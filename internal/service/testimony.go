package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/linemk/homedeco-shop/internal/storage"
)

const minTestimonyLength = 10

type TestimonyService interface {
	ListOwn(ctx context.Context, userID int64) ([]*models.Testimony, error)
	Submit(ctx context.Context, userID int64, content string, rating int) (*models.Testimony, error)
	DeleteOwn(ctx context.Context, userID, testimonyID int64) error
	ListPublic(ctx context.Context) ([]*models.Testimony, error)
	SetApproval(ctx context.Context, testimonyID int64, approved bool) error
}

type testimonyService struct {
	log           *slog.Logger
	testimonyRepo storage.TestimonyStorage
	publicLimit   int
}

func NewTestimonyService(log *slog.Logger, testimonyRepo storage.TestimonyStorage, publicLimit int) TestimonyService {
	if publicLimit <= 0 {
		publicLimit = 3
	}
	return &testimonyService{log: log, testimonyRepo: testimonyRepo, publicLimit: publicLimit}
}

func (s *testimonyService) ListOwn(ctx context.Context, userID int64) ([]*models.Testimony, error) {
	const op = "service.TestimonyService.ListOwn"

	list, err := s.testimonyRepo.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list testimonies", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Submit ставит отзыв в очередь модерации, публично он появится только после одобрения.
func (s *testimonyService) Submit(ctx context.Context, userID int64, content string, rating int) (*models.Testimony, error) {
	const op = "service.TestimonyService.Submit"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) < minTestimonyLength {
		return nil, fmt.Errorf("%s: %w: content must be at least %d characters", op, ErrInvalidRequest, minTestimonyLength)
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%s: %w: rating must be between 1 and 5", op, ErrInvalidRequest)
	}

	t, err := s.testimonyRepo.Create(ctx, &models.Testimony{UserID: userID, Content: content, Rating: rating})
	if err != nil {
		logger.Error("failed to create testimony", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("testimony submitted for moderation", slog.Int64("testimonyID", t.ID))
	return t, nil
}

// DeleteOwn чужой отзыв для покупателя выглядит как несуществующий.
func (s *testimonyService) DeleteOwn(ctx context.Context, userID, testimonyID int64) error {
	const op = "service.TestimonyService.DeleteOwn"

	if err := s.testimonyRepo.DeleteOwned(ctx, testimonyID, userID); err != nil {
		if !errors.Is(err, storage.ErrTestimonyNotFound) {
			s.log.Error("failed to delete testimony", slog.String("op", op), slog.Any("error", err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *testimonyService) ListPublic(ctx context.Context) ([]*models.Testimony, error) {
	const op = "service.TestimonyService.ListPublic"

	list, err := s.testimonyRepo.ListApproved(ctx, s.publicLimit)
	if err != nil {
		s.log.Error("failed to list approved testimonies", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (s *testimonyService) SetApproval(ctx context.Context, testimonyID int64, approved bool) error {
	const op = "service.TestimonyService.SetApproval"
	logger := s.log.With(slog.String("op", op), slog.Int64("testimonyID", testimonyID))

	if err := s.testimonyRepo.SetApproved(ctx, testimonyID, approved); err != nil {
		if !errors.Is(err, storage.ErrTestimonyNotFound) {
			logger.Error("failed to set approval", slog.Any("error", err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("testimony moderated", slog.Bool("approved", approved))
	return nil
}
