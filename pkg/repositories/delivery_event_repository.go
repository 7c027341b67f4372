package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/infradyn/delivery-engine/pkg/database"
	"github.com/infradyn/delivery-engine/pkg/models"
)

// DeliveryStats aggregates delivery event counts for a project.
type DeliveryStats struct {
	Total     int
	Delivered int
	Pending   int
	OnTime    int
	Late      int
}

// DeliveryEventRepository defines data access for delivery events.
type DeliveryEventRepository interface {
	// ListByProject returns every delivery event across the project's
	// line items.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.DeliveryEvent, error)

	// StatsByProject aggregates delivery counts for the logistics KPIs.
	// A delivery with no expected date counts as on time once received.
	StatsByProject(ctx context.Context, projectID uuid.UUID) (*DeliveryStats, error)
}

type deliveryEventRepository struct {
	db *database.DB
}

// NewDeliveryEventRepository creates a new delivery event repository.
func NewDeliveryEventRepository(db *database.DB) DeliveryEventRepository {
	return &deliveryEventRepository{db: db}
}

func (r *deliveryEventRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.DeliveryEvent, error) {
	query := `
		SELECT de.id, de.line_item_id, de.reference, de.quantity,
		       de.expected_date, de.received_date, de.created_at
		FROM delivery_events de
		JOIN line_items li ON li.id = de.line_item_id
		JOIN purchase_orders po ON po.id = li.purchase_order_id
		WHERE po.project_id = $1
		ORDER BY de.created_at, de.id`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery events: %w", err)
	}
	defer rows.Close()

	var events []*models.DeliveryEvent
	for rows.Next() {
		var event models.DeliveryEvent
		if err := rows.Scan(
			&event.ID,
			&event.LineItemID,
			&event.Reference,
			&event.Quantity,
			&event.ExpectedDate,
			&event.ReceivedDate,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan delivery event: %w", err)
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate delivery events: %w", err)
	}

	return events, nil
}

func (r *deliveryEventRepository) StatsByProject(ctx context.Context, projectID uuid.UUID) (*DeliveryStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE de.received_date IS NOT NULL),
		       COUNT(*) FILTER (WHERE de.received_date IS NULL),
		       COUNT(*) FILTER (WHERE de.received_date IS NOT NULL
		           AND (de.expected_date IS NULL OR de.received_date <= de.expected_date)),
		       COUNT(*) FILTER (WHERE de.received_date IS NOT NULL
		           AND de.expected_date IS NOT NULL AND de.received_date > de.expected_date)
		FROM delivery_events de
		JOIN line_items li ON li.id = de.line_item_id
		JOIN purchase_orders po ON po.id = li.purchase_order_id
		WHERE po.project_id = $1`

	var stats DeliveryStats
	err := r.db.QueryRow(ctx, query, projectID).Scan(
		&stats.Total,
		&stats.Delivered,
		&stats.Pending,
		&stats.OnTime,
		&stats.Late,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate delivery stats: %w", err)
	}

	return &stats, nil
}
