// Package services contains the application services between the HTTP
// handlers and the repositories.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/infradyn/delivery-engine/pkg/apperrors"
	"github.com/infradyn/delivery-engine/pkg/models"
	"github.com/infradyn/delivery-engine/pkg/readiness"
	"github.com/infradyn/delivery-engine/pkg/repositories"
	"github.com/infradyn/delivery-engine/pkg/taxonomy"
)

// ReadinessService serves the three-level delivery readiness rollup
// for a project.
type ReadinessService interface {
	// DisciplineSummary is the top-level rollup, one row per discipline.
	DisciplineSummary(ctx context.Context, projectID uuid.UUID, asOf time.Time) ([]readiness.DisciplineSummaryRow, error)

	// MaterialClassSummary drills into one discipline. The discipline
	// parameter accepts a canonical key, a label, or a recognisable
	// variant of either.
	MaterialClassSummary(ctx context.Context, projectID uuid.UUID, discipline string, asOf time.Time) ([]readiness.MaterialClassRow, error)

	// WeeklyBatches drills into one discipline and material class. An
	// empty class selects the uncategorised class bucket.
	WeeklyBatches(ctx context.Context, projectID uuid.UUID, discipline, class string, asOf time.Time) ([]readiness.WeeklyBatchRow, error)
}

type readinessService struct {
	lineItems  repositories.LineItemRepository
	deliveries repositories.DeliveryEventRepository
	engine     *readiness.Engine
	logger     *zap.Logger
}

// NewReadinessService creates a new readiness service.
func NewReadinessService(
	lineItems repositories.LineItemRepository,
	deliveries repositories.DeliveryEventRepository,
	engine *readiness.Engine,
	logger *zap.Logger,
) ReadinessService {
	return &readinessService{
		lineItems:  lineItems,
		deliveries: deliveries,
		engine:     engine,
		logger:     logger.Named("readiness-service"),
	}
}

var _ ReadinessService = (*readinessService)(nil)

func (s *readinessService) DisciplineSummary(ctx context.Context, projectID uuid.UUID, asOf time.Time) ([]readiness.DisciplineSummaryRow, error) {
	items, events, err := s.loadSnapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}

	rows := s.engine.DisciplineSummary(items, events, asOf)
	s.logger.Debug("Computed discipline summary",
		zap.String("project_id", projectID.String()),
		zap.Int("items", len(items)),
		zap.Int("rows", len(rows)))
	return rows, nil
}

func (s *readinessService) MaterialClassSummary(ctx context.Context, projectID uuid.UUID, discipline string, asOf time.Time) ([]readiness.MaterialClassRow, error) {
	d, err := ResolveDiscipline(discipline)
	if err != nil {
		return nil, err
	}

	items, events, err := s.loadSnapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return s.engine.MaterialClassSummary(d, items, events, asOf), nil
}

func (s *readinessService) WeeklyBatches(ctx context.Context, projectID uuid.UUID, discipline, class string, asOf time.Time) ([]readiness.WeeklyBatchRow, error) {
	d, err := ResolveDiscipline(discipline)
	if err != nil {
		return nil, err
	}

	if class != "" && class != taxonomy.UncategorisedClass && !taxonomy.HasClass(d, class) {
		if normalized, ok := taxonomy.NormalizeMaterialClass(d, class); ok {
			class = normalized
		}
	}

	items, events, err := s.loadSnapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return s.engine.WeeklyBatches(d, class, items, events, asOf), nil
}

// loadSnapshot fetches the project's line items and delivery events
// and maps them onto the engine's projections, normalizing the stored
// discipline and material class strings onto the canonical taxonomy.
func (s *readinessService) loadSnapshot(ctx context.Context, projectID uuid.UUID) ([]readiness.LineItem, []readiness.DeliveryEvent, error) {
	items, err := s.lineItems.ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load line items: %w", err)
	}
	events, err := s.deliveries.ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load delivery events: %w", err)
	}

	projected := make([]readiness.LineItem, 0, len(items))
	for _, item := range items {
		projected = append(projected, toProjection(item))
	}

	projectedEvents := make([]readiness.DeliveryEvent, 0, len(events))
	for _, event := range events {
		projectedEvents = append(projectedEvents, readiness.DeliveryEvent{
			ID:         event.ID.String(),
			ItemID:     event.LineItemID.String(),
			Quantity:   event.Quantity,
			ReceivedAt: event.ReceivedDate,
		})
	}

	return projected, projectedEvents, nil
}

func toProjection(item *models.LineItem) readiness.LineItem {
	var d taxonomy.Discipline
	if item.Discipline != nil {
		if known, ok := taxonomy.NormalizeDiscipline(*item.Discipline); ok {
			d = known
		}
	}

	class := ""
	if item.MaterialClass != nil {
		class = *item.MaterialClass
		if d != "" {
			if known, ok := taxonomy.NormalizeMaterialClass(d, class); ok {
				class = known
			}
		}
	}

	return readiness.LineItem{
		ID:            item.ID.String(),
		ItemNumber:    item.ItemNumber,
		Description:   item.Description,
		Unit:          item.Unit,
		OrderedQty:    item.OrderedQty,
		DeliveredQty:  item.DeliveredQty,
		RequiredBy:    item.RequiredByDate,
		UnitPrice:     item.UnitPrice,
		Discipline:    d,
		MaterialClass: class,
		OrderID:       item.PurchaseOrderID.String(),
		OrderRef:      item.PurchaseOrderRef,
	}
}

// ResolveDiscipline maps a request parameter onto a canonical
// discipline. It accepts the key itself, the display label, or any
// variant the taxonomy normalizer recognises.
func ResolveDiscipline(raw string) (taxonomy.Discipline, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty discipline", apperrors.ErrInvalidInput)
	}

	key := taxonomy.Discipline(strings.ToUpper(trimmed))
	if taxonomy.IsKnown(key) || key == taxonomy.Uncategorised {
		return key, nil
	}
	if d, ok := taxonomy.NormalizeDiscipline(trimmed); ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownDiscipline, raw)
}
