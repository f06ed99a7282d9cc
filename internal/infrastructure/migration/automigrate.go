package migration

import (
	"github.com/azampay/momo-checkout/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.OrderNoteModel{},
		&models.ProductStockModel{},
	}
}
