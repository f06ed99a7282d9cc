package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/azampay/momo-checkout/internal/domain/order"
	"github.com/azampay/momo-checkout/internal/infrastructure/persistence/models"
	"github.com/azampay/momo-checkout/internal/shared/biztime"
	"github.com/azampay/momo-checkout/internal/shared/db"
)

// StockRepository decrements managed stock for order lines. Products without
// a stock row, or with stock management off, are skipped.
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) ReduceStock(ctx context.Context, o *order.Order) error {
	return db.RunInTx(ctx, r.db, func(tx *gorm.DB) error {
		for _, it := range o.Items() {
			err := tx.Model(&models.ProductStockModel{}).
				Where("product_id = ? AND manage_stock = ?", it.ProductID, true).
				Updates(map[string]interface{}{
					"quantity":   gorm.Expr("quantity - ?", it.Quantity),
					"updated_at": biztime.NowUTC(),
				}).Error
			if err != nil {
				return fmt.Errorf("failed to reduce stock for product %d: %w", it.ProductID, err)
			}
		}
		return nil
	})
}
