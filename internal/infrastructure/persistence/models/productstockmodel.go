package models

import "time"

// ProductStockModel tracks on-hand quantity for products with managed stock.
type ProductStockModel struct {
	ProductID   uint `gorm:"primaryKey;autoIncrement:false"`
	Quantity    int  `gorm:"not null;default:0"`
	ManageStock bool `gorm:"not null"`
	UpdatedAt   time.Time
}

func (ProductStockModel) TableName() string {
	return "product_stocks"
}
