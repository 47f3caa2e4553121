package models

import (
	"encoding/json"
	"time"
)

// ContentBlock редактируемый маркетинговый блок (например, страница "О нас")
type ContentBlock struct {
	ID           int64           `json:"id"`
	Key          string          `json:"key"`
	Title        string          `json:"title"`
	Subtitle     string          `json:"subtitle,omitempty"`
	SectionTitle string          `json:"section_title,omitempty"`
	Body         string          `json:"body,omitempty"`
	Image        string          `json:"image,omitempty"`
	Meta         json.RawMessage `json:"meta,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PricingPlan тарифный план услуг дизайнера
type PricingPlan struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"` // строка для отображения, например "$150"
	Period      string   `json:"period"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	IsPopular   bool     `json:"is_popular"`
	SortOrder   int      `json:"sort_order"`
}

// ContactMessage сообщение из формы обратной связи
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
