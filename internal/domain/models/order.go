package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid проверяет, что статус входит в перечисление
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order представляет заказ, созданный при оформлении корзины.
// TotalPrice считается один раз при создании и больше не пересчитывается.
type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	CustomerName    string          `json:"customer_name,omitempty"` // заполняется через JOIN с users
	TotalPrice      decimal.Decimal `json:"total_price"`
	Status          OrderStatus     `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Items           []*OrderItem    `json:"items,omitempty"`
}

// OrderItem строка заказа. Price - цена на момент покупки, не меняется вместе с товаром.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Product   *ProductRef     `json:"product,omitempty"`
}

// ProductRef текущее состояние товара, на который ссылается строка заказа
type ProductRef struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// NewOrderItem строка, которую checkout передаёт в CreateOrder
type NewOrderItem struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}
