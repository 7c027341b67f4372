// Package repositories contains the PostgreSQL data access layer.
package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/infradyn/delivery-engine/pkg/database"
	"github.com/infradyn/delivery-engine/pkg/models"
)

// LineItemRepository defines data access for purchase order line items.
type LineItemRepository interface {
	// ListByProject returns every line item across the project's
	// purchase orders, with the order reference attached.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.LineItem, error)
}

type lineItemRepository struct {
	db *database.DB
}

// NewLineItemRepository creates a new line item repository.
func NewLineItemRepository(db *database.DB) LineItemRepository {
	return &lineItemRepository{db: db}
}

func (r *lineItemRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.LineItem, error) {
	query := `
		SELECT li.id, li.purchase_order_id, li.item_number, li.description, li.unit,
		       li.ordered_qty, li.delivered_qty, li.required_by_date, li.unit_price,
		       li.discipline, li.material_class, li.created_at, li.updated_at,
		       po.reference
		FROM line_items li
		JOIN purchase_orders po ON po.id = li.purchase_order_id
		WHERE po.project_id = $1
		ORDER BY po.reference, li.item_number, li.id`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	defer rows.Close()

	var items []*models.LineItem
	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(
			&item.ID,
			&item.PurchaseOrderID,
			&item.ItemNumber,
			&item.Description,
			&item.Unit,
			&item.OrderedQty,
			&item.DeliveredQty,
			&item.RequiredByDate,
			&item.UnitPrice,
			&item.Discipline,
			&item.MaterialClass,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.PurchaseOrderRef,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate line items: %w", err)
	}

	return items, nil
}
