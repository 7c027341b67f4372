package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/infradyn/delivery-engine/pkg/database"
	"github.com/infradyn/delivery-engine/pkg/models"
)

// OrderTotals aggregates purchase order figures for a project.
type OrderTotals struct {
	Orders         int
	ActiveOrders   int
	CommittedValue decimal.Decimal
	RetentionHeld  decimal.Decimal
}

// PurchaseOrderRepository defines data access for purchase orders.
type PurchaseOrderRepository interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.PurchaseOrder, error)

	// TotalsByProject aggregates order counts and committed value for
	// the financial and progress KPIs. Active means ACTIVE or APPROVED.
	TotalsByProject(ctx context.Context, projectID uuid.UUID) (*OrderTotals, error)
}

type purchaseOrderRepository struct {
	db *database.DB
}

// NewPurchaseOrderRepository creates a new purchase order repository.
func NewPurchaseOrderRepository(db *database.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.PurchaseOrder, error) {
	query := `
		SELECT id, project_id, reference, supplier_name, status,
		       total_value, retention_percentage, created_at, updated_at
		FROM purchase_orders
		WHERE project_id = $1
		ORDER BY reference, id`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.PurchaseOrder
	for rows.Next() {
		var order models.PurchaseOrder
		if err := rows.Scan(
			&order.ID,
			&order.ProjectID,
			&order.Reference,
			&order.SupplierName,
			&order.Status,
			&order.TotalValue,
			&order.RetentionPercentage,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchase orders: %w", err)
	}

	return orders, nil
}

func (r *purchaseOrderRepository) TotalsByProject(ctx context.Context, projectID uuid.UUID) (*OrderTotals, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status IN ('ACTIVE', 'APPROVED')),
		       COALESCE(SUM(total_value), 0),
		       COALESCE(SUM(total_value * retention_percentage / 100), 0)
		FROM purchase_orders
		WHERE project_id = $1`

	var totals OrderTotals
	err := r.db.QueryRow(ctx, query, projectID).Scan(
		&totals.Orders,
		&totals.ActiveOrders,
		&totals.CommittedValue,
		&totals.RetentionHeld,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate purchase orders: %w", err)
	}

	return &totals, nil
}
