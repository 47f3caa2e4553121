package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/linemk/homedeco-shop/internal/domain/models"
	"github.com/linemk/homedeco-shop/internal/service"
	"github.com/linemk/homedeco-shop/internal/storage"
	"github.com/shopspring/decimal"
)

// ProductRequest тело создания и изменения товара
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Slug        string          `json:"slug" validate:"required,max=255"`
	Description string          `json:"description"`
	Category    string          `json:"category" validate:"max=100"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"min=0"`
	Image       string          `json:"image" validate:"omitempty,max=512"`
	IsFeatured  bool            `json:"is_featured"`
}

func (req ProductRequest) toModel() *models.Product {
	return &models.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       req.Image,
		IsFeatured:  req.IsFeatured,
	}
}

// ListProductsHandler GET /api/products?search=&category=&page=
func ListProductsHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))

		res, err := catalogService.ListProducts(r.Context(), models.ProductFilter{
			Search:   q.Get("search"),
			Category: q.Get("category"),
			Page:     page,
		})
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, res)
	}
}

// GetProductHandler GET /api/products/{id}
func GetProductHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			writeError(logger, w, http.StatusNotFound, "product not found")
			return
		}

		p, err := catalogService.GetProduct(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				writeError(logger, w, http.StatusNotFound, "product not found")
				return
			}
			logger.Error("failed to get product", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(logger, w, http.StatusOK, p)
	}
}

// CreateProductHandler POST /api/admin/products
func CreateProductHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"
		logger := log.With(slog.String("op", op))

		var req ProductRequest
		if err := decodeRequest(r, &req); err != nil {
			writeDecodeError(logger, w, err)
			return
		}

		p, err := catalogService.CreateProduct(r.Context(), req.toModel())
		if err != nil {
			writeProductError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusCreated, p)
	}
}

// UpdateProductHandler PUT /api/admin/products/{id}
func UpdateProductHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProductHandler"
		logger := log.With(slog.String("op", op))

		id, ok := idParam(r, "id")
		if !ok {
			writeError(logger, w, http.StatusNotFound, "product not found")
			return
		}

		var req ProductRequest
		if err := decodeRequest(r, &req); err != nil {
			writeDecodeError(logger, w, err)
			return
		}

		model := req.toModel()
		model.ID = id
		p, err := catalogService.UpdateProduct(r.Context(), model)
		if err != nil {
			writeProductError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, p)
	}
}

func writeProductError(logger *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(logger, w, http.StatusUnprocessableEntity, "invalid product")
	case errors.Is(err, storage.ErrSlugTaken):
		writeError(logger, w, http.StatusUnprocessableEntity, "slug already exists")
	case errors.Is(err, storage.ErrProductNotFound):
		writeError(logger, w, http.StatusNotFound, "product not found")
	default:
		logger.Error("failed to save product", slog.Any("error", err))
		writeError(logger, w, http.StatusInternalServerError, "internal server error")
	}
}
