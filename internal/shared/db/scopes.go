package db

import (
	"gorm.io/gorm"
)

// AtVersion restricts an update to rows still carrying the expected
// optimistic-lock version.
//
// Example usage:
//
//	tx.Model(&OrderModel{}).Scopes(db.AtVersion(o.Version())).Where("id = ?", id).Updates(values)
func AtVersion(version int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("version = ?", version)
	}
}

// OldestFirst orders rows by ascending primary key.
func OldestFirst() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}
}
