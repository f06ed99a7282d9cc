package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderModel is the persistence shape of a shop order.
type OrderModel struct {
	ID         uint            `gorm:"primaryKey"`
	CustomerID uint            `gorm:"index;not null"`
	Total      decimal.Decimal `gorm:"type:decimal(19,4);not null"`
	Currency   string          `gorm:"size:3;not null"`
	Status     string          `gorm:"size:20;not null;index"`
	Meta       datatypes.JSONMap
	PaidAt     *time.Time
	Version    int `gorm:"not null;default:1"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID"`
	Notes []OrderNoteModel `gorm:"foreignKey:OrderID"`
}

func (OrderModel) TableName() string {
	return "orders"
}

type OrderItemModel struct {
	ID           uint `gorm:"primaryKey"`
	OrderID      uint `gorm:"index;not null"`
	ProductID    uint `gorm:"index;not null"`
	Quantity     int  `gorm:"not null"`
	Downloadable bool `gorm:"not null;default:false"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// OrderNoteModel rows are insert-only.
type OrderNoteModel struct {
	ID              uint   `gorm:"primaryKey"`
	OrderID         uint   `gorm:"index;not null"`
	Content         string `gorm:"type:text;not null"`
	CustomerVisible bool   `gorm:"not null;default:false"`
	CreatedAt       time.Time
}

func (OrderNoteModel) TableName() string {
	return "order_notes"
}
