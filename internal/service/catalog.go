package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/linemk/homedeco-shop/internal/storage"
	"github.com/shopspring/decimal"
)

type CatalogService interface {
	ListProducts(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
}

type catalogService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
	pageSize    int
}

func NewCatalogService(log *slog.Logger, productRepo storage.ProductStorage, pageSize int) CatalogService {
	if pageSize <= 0 {
		pageSize = 12
	}
	return &catalogService{log: log, productRepo: productRepo, pageSize: pageSize}
}

// ListProducts страница каталога. Номер страницы меньше 1 считается первой страницей.
func (s *catalogService) ListProducts(ctx context.Context, filter models.ProductFilter) (*models.ProductPage, error) {
	const op = "service.CatalogService.ListProducts"

	if filter.Page < 1 {
		filter.Page = 1
	}
	filter.PerPage = s.pageSize
	filter.Search = strings.TrimSpace(filter.Search)

	products, total, err := s.productRepo.ListProducts(ctx, filter)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lastPage := (total + filter.PerPage - 1) / filter.PerPage
	if lastPage < 1 {
		lastPage = 1
	}
	return &models.ProductPage{
		Data:        products,
		CurrentPage: filter.Page,
		PerPage:     filter.PerPage,
		Total:       total,
		LastPage:    lastPage,
	}, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.CatalogService.GetProduct"

	p, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	const op = "service.CatalogService.CreateProduct"
	logger := s.log.With(slog.String("op", op), slog.String("slug", p.Slug))

	if err := validateProduct(p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.productRepo.CreateProduct(ctx, p)
	if err != nil {
		if !errors.Is(err, storage.ErrSlugTaken) {
			logger.Error("failed to create product", slog.Any("error", err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product created", slog.Int64("productID", created.ID))
	return created, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	const op = "service.CatalogService.UpdateProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", p.ID))

	if err := validateProduct(p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.productRepo.UpdateProduct(ctx, p); err != nil {
		if !errors.Is(err, storage.ErrProductNotFound) && !errors.Is(err, storage.ErrSlugTaken) {
			logger.Error("failed to update product", slog.Any("error", err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product updated")
	return s.productRepo.GetProductByID(ctx, p.ID)
}

func validateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Slug) == "" {
		return fmt.Errorf("%w: name and slug are required", ErrInvalidRequest)
	}
	if p.Price.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidRequest)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidRequest)
	}
	return nil
}
