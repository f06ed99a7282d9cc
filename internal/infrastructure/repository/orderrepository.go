package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/azampay/momo-checkout/internal/domain/order"
	"github.com/azampay/momo-checkout/internal/infrastructure/persistence/mappers"
	"github.com/azampay/momo-checkout/internal/infrastructure/persistence/models"
	"github.com/azampay/momo-checkout/internal/shared/db"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Ensure OrderRepository implements order.Repository
var _ order.Repository = (*OrderRepository)(nil)

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := mappers.OrderToModel(o)
	if model.Version == 0 {
		model.Version = 1
	}

	var saved []models.OrderNoteModel
	err := db.RunInTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		saved = mappers.NotesToModels(model.ID, o.PendingNotes())
		if len(saved) == 0 {
			return nil
		}
		if err := tx.Create(&saved).Error; err != nil {
			return fmt.Errorf("failed to create order notes: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Write back the auto-generated ID to the domain object
	o.SetID(model.ID)
	o.MarkPersisted(model.Version, mappers.NotesToDomain(saved))

	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*order.Order, error) {
	var model models.OrderModel

	err := db.GetTxFromContext(ctx, r.db).
		Preload("Items").
		Preload("Notes", db.OldestFirst()).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return mappers.OrderToDomain(&model)
}

// Update writes status, metadata, paid time and pending notes only if the
// stored row still carries the version the order was loaded at.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	model := mappers.OrderToModel(o)
	nextVersion := o.Version() + 1

	var saved []models.OrderNoteModel
	err := db.RunInTx(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Model(&models.OrderModel{}).
			Scopes(db.AtVersion(o.Version())).
			Where("id = ?", o.ID()).
			Updates(map[string]interface{}{
				"status":     model.Status,
				"meta":       model.Meta,
				"paid_at":    model.PaidAt,
				"version":    nextVersion,
				"updated_at": model.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return order.ErrConcurrentUpdate
		}

		saved = mappers.NotesToModels(o.ID(), o.PendingNotes())
		if len(saved) == 0 {
			return nil
		}
		if err := tx.Create(&saved).Error; err != nil {
			return fmt.Errorf("failed to append order notes: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	o.MarkPersisted(nextVersion, mappers.NotesToDomain(saved))
	return nil
}
