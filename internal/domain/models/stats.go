package models

import "github.com/shopspring/decimal"

// AdminStats сводка для панели администратора.
// Revenue - производное значение, считается запросом при каждом обращении.
type AdminStats struct {
	Revenue      decimal.Decimal `json:"revenue"`
	ActiveOrders int             `json:"active_orders"`
	Customers    int             `json:"customers"`
	LowStock     int             `json:"low_stock"`
	RecentOrders []*Order        `json:"recent_orders"`
}

// UserStats сводка для личного кабинета
type UserStats struct {
	OrdersCount      int `json:"orders_count"`
	TestimoniesCount int `json:"testimonies_count"`
	WishlistCount    int `json:"wishlist_count"`
}
