package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/infradyn/delivery-engine/pkg/readiness"
	"github.com/infradyn/delivery-engine/pkg/repositories"
)

// FinancialKPIs summarises committed spend and exposure for a project.
type FinancialKPIs struct {
	TotalCommitted decimal.Decimal `json:"totalCommitted"`
	RetentionHeld  decimal.Decimal `json:"retentionHeld"`
	ValueAtRisk    decimal.Decimal `json:"valueAtRisk"`
}

// ProgressKPIs summarises procurement progress for a project.
type ProgressKPIs struct {
	TotalOrders    int     `json:"totalOrders"`
	ActiveOrders   int     `json:"activeOrders"`
	TotalItems     int     `json:"totalItems"`
	OnTrackItems   int     `json:"onTrackItems"`
	AtRiskItems    int     `json:"atRiskItems"`
	LateItems      int     `json:"lateItems"`
	NoROSItems     int     `json:"noRosItems"`
	DeliveredRatio float64 `json:"deliveredRatio"`
}

// LogisticsKPIs summarises delivery performance for a project.
type LogisticsKPIs struct {
	TotalDeliveries   int     `json:"totalDeliveries"`
	Delivered         int     `json:"delivered"`
	Pending           int     `json:"pending"`
	DeliveredOnTime   int     `json:"deliveredOnTime"`
	DelayedDeliveries int     `json:"delayedDeliveries"`
	OnTimeRate        float64 `json:"onTimeRate"`
}

// DashboardKPIs is the combined KPI payload.
type DashboardKPIs struct {
	Financial FinancialKPIs `json:"financial"`
	Progress  ProgressKPIs  `json:"progress"`
	Logistics LogisticsKPIs `json:"logistics"`
	AsOf      time.Time     `json:"asOf"`
}

// DashboardService computes the project KPI dashboard.
type DashboardService interface {
	Dashboard(ctx context.Context, projectID uuid.UUID, asOf time.Time) (*DashboardKPIs, error)
	Financial(ctx context.Context, projectID uuid.UUID, asOf time.Time) (*FinancialKPIs, error)
	Logistics(ctx context.Context, projectID uuid.UUID) (*LogisticsKPIs, error)
}

type dashboardService struct {
	orders     repositories.PurchaseOrderRepository
	lineItems  repositories.LineItemRepository
	deliveries repositories.DeliveryEventRepository
	engine     *readiness.Engine
	logger     *zap.Logger
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(
	orders repositories.PurchaseOrderRepository,
	lineItems repositories.LineItemRepository,
	deliveries repositories.DeliveryEventRepository,
	engine *readiness.Engine,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		orders:     orders,
		lineItems:  lineItems,
		deliveries: deliveries,
		engine:     engine,
		logger:     logger.Named("dashboard-service"),
	}
}

var _ DashboardService = (*dashboardService)(nil)

func (s *dashboardService) Dashboard(ctx context.Context, projectID uuid.UUID, asOf time.Time) (*DashboardKPIs, error) {
	financial, progress, err := s.financialAndProgress(ctx, projectID, asOf)
	if err != nil {
		return nil, err
	}
	logistics, err := s.Logistics(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &DashboardKPIs{
		Financial: *financial,
		Progress:  *progress,
		Logistics: *logistics,
		AsOf:      asOf,
	}, nil
}

func (s *dashboardService) Financial(ctx context.Context, projectID uuid.UUID, asOf time.Time) (*FinancialKPIs, error) {
	financial, _, err := s.financialAndProgress(ctx, projectID, asOf)
	return financial, err
}

func (s *dashboardService) Logistics(ctx context.Context, projectID uuid.UUID) (*LogisticsKPIs, error) {
	stats, err := s.deliveries.StatsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery stats: %w", err)
	}

	onTimeRate := 0.0
	if stats.Delivered > 0 {
		onTimeRate = float64(stats.OnTime) / float64(stats.Delivered)
	}

	return &LogisticsKPIs{
		TotalDeliveries:   stats.Total,
		Delivered:         stats.Delivered,
		Pending:           stats.Pending,
		DeliveredOnTime:   stats.OnTime,
		DelayedDeliveries: stats.Late,
		OnTimeRate:        onTimeRate,
	}, nil
}

// financialAndProgress shares one snapshot load between the two KPI
// groups that both walk the line items.
func (s *dashboardService) financialAndProgress(ctx context.Context, projectID uuid.UUID, asOf time.Time) (*FinancialKPIs, *ProgressKPIs, error) {
	totals, err := s.orders.TotalsByProject(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order totals: %w", err)
	}

	items, err := s.lineItems.ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load line items: %w", err)
	}

	progress := &ProgressKPIs{
		TotalOrders:  totals.Orders,
		ActiveOrders: totals.ActiveOrders,
		TotalItems:   len(items),
	}

	valueAtRisk := decimal.Zero
	ordered, delivered := decimal.Zero, decimal.Zero
	for _, item := range items {
		projected := toProjection(item)
		status, _ := s.engine.ItemStatus(projected, asOf)
		switch status {
		case readiness.StatusOnTrack:
			progress.OnTrackItems++
		case readiness.StatusAtRisk:
			progress.AtRiskItems++
		case readiness.StatusLate:
			progress.LateItems++
		case readiness.StatusNoROS:
			progress.NoROSItems++
		}

		ordered = ordered.Add(item.OrderedQty)
		delivered = delivered.Add(item.DeliveredQty)
		if status == readiness.StatusLate || status == readiness.StatusAtRisk {
			outstanding := item.OrderedQty.Sub(item.DeliveredQty)
			if outstanding.IsPositive() {
				valueAtRisk = valueAtRisk.Add(item.UnitPrice.Mul(outstanding))
			}
		}
	}

	if ordered.IsPositive() {
		ratio, _ := delivered.Div(ordered).Float64()
		progress.DeliveredRatio = ratio
	}

	financial := &FinancialKPIs{
		TotalCommitted: totals.CommittedValue,
		RetentionHeld:  totals.RetentionHeld,
		ValueAtRisk:    valueAtRisk,
	}
	return financial, progress, nil
}
