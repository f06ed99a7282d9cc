package mappers

import (
	"fmt"

	"gorm.io/datatypes"

	"github.com/azampay/momo-checkout/internal/domain/order"
	vo "github.com/azampay/momo-checkout/internal/domain/order/valueobjects"
	"github.com/azampay/momo-checkout/internal/infrastructure/persistence/models"
)

// OrderToModel maps the order header and its lines. Notes are written
// separately because they are append-only.
func OrderToModel(o *order.Order) *models.OrderModel {
	model := &models.OrderModel{
		ID:         o.ID(),
		CustomerID: o.CustomerID(),
		Total:      o.Total(),
		Currency:   o.Currency(),
		Status:     o.Status().String(),
		Meta:       MetaToModel(o.Metadata()),
		PaidAt:     o.PaidAt(),
		Version:    o.Version(),
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
	}

	for _, it := range o.Items() {
		model.Items = append(model.Items, models.OrderItemModel{
			ID:           it.ID,
			OrderID:      o.ID(),
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			Downloadable: it.Downloadable,
		})
	}

	return model
}

func OrderToDomain(model *models.OrderModel) (*order.Order, error) {
	status, err := vo.NewOrderStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", model.ID, err)
	}

	items := make([]order.Item, 0, len(model.Items))
	for _, it := range model.Items {
		items = append(items, order.Item{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			Downloadable: it.Downloadable,
		})
	}

	return order.ReconstructOrder(order.OrderReconstructParams{
		ID:         model.ID,
		CustomerID: model.CustomerID,
		Total:      model.Total,
		Currency:   model.Currency,
		Status:     status,
		Items:      items,
		Meta:       MetaToDomain(model.Meta),
		Notes:      NotesToDomain(model.Notes),
		PaidAt:     model.PaidAt,
		Version:    model.Version,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}), nil
}

func NotesToModels(orderID uint, notes []order.Note) []models.OrderNoteModel {
	out := make([]models.OrderNoteModel, 0, len(notes))
	for _, n := range notes {
		out = append(out, models.OrderNoteModel{
			OrderID:         orderID,
			Content:         n.Content,
			CustomerVisible: n.CustomerVisible,
			CreatedAt:       n.CreatedAt,
		})
	}
	return out
}

func NotesToDomain(rows []models.OrderNoteModel) []order.Note {
	out := make([]order.Note, 0, len(rows))
	for _, n := range rows {
		out = append(out, order.Note{
			ID:              n.ID,
			Content:         n.Content,
			CustomerVisible: n.CustomerVisible,
			CreatedAt:       n.CreatedAt,
		})
	}
	return out
}

func MetaToModel(meta map[string]string) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}

// MetaToDomain flattens stored values to strings. Rows written by other tools
// may hold numbers or booleans.
func MetaToDomain(meta datatypes.JSONMap) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
