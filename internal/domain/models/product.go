package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product представляет товар каталога
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"` // уникальный, для URL
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"` // NUMERIC(10,2)
	Stock       int             `json:"stock"` // никогда не бывает отрицательным
	Image       string          `json:"image,omitempty"`
	IsFeatured  bool            `json:"is_featured"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductFilter параметры поиска по каталогу
type ProductFilter struct {
	Search   string
	Category string
	Page     int
	PerPage  int
}

// ProductPage страница результатов каталога
type ProductPage struct {
	Data        []*Product `json:"data"`
	CurrentPage int        `json:"current_page"`
	PerPage     int        `json:"per_page"`
	Total       int        `json:"total"`
	LastPage    int        `json:"last_page"`
}
