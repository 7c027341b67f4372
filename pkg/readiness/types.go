// Package readiness computes the three-level delivery readiness
// rollup (discipline → material class → weekly batch) from an
// in-memory snapshot of line items and delivery events.
//
// The engine is a pure, synchronous computation: it holds no state
// between calls, performs no I/O, and recomputes every result from
// the snapshot handed to it.
package readiness

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/infradyn/delivery-engine/pkg/taxonomy"
)

// Status is the delivery health of an item or an aggregated group.
type Status string

const (
	StatusLate    Status = "LATE"
	StatusAtRisk  Status = "AT_RISK"
	StatusOnTrack Status = "ON_TRACK"
	StatusNoROS   Status = "NO_ROS"
)

// Trend is the direction of delivery activity for a taxonomy bucket,
// comparing the trailing 7 days against the 7 days before that.
type Trend string

const (
	TrendImproving     Trend = "IMPROVING"
	TrendDeteriorating Trend = "DETERIORATING"
	TrendStable        Trend = "STABLE"
	TrendUnknown       Trend = "UNKNOWN"
)

// DeliveryStatus flags a single delivery event against its expected
// date.
type DeliveryStatus string

const (
	DeliveryOnTime       DeliveryStatus = "ON_TIME"
	DeliveryLate         DeliveryStatus = "LATE"
	DeliveryNotDelivered DeliveryStatus = "NOT_DELIVERED"
)

// LineItem is the engine's read-only projection of an order line.
// DeliveredQty is the caller-maintained cumulative received quantity;
// the engine trusts it rather than re-deriving it from events, except
// in the trend and weekly computations which work on the event stream.
type LineItem struct {
	ID            string
	ItemNumber    string
	Description   string
	Unit          string
	OrderedQty    decimal.Decimal
	DeliveredQty  decimal.Decimal
	RequiredBy    *time.Time
	UnitPrice     decimal.Decimal
	Discipline    taxonomy.Discipline
	MaterialClass string
	OrderID       string
	OrderRef      string
}

// DeliveryEvent is one (possibly partial) fulfilment of a line item.
// ReceivedAt is nil while the delivery is still expected.
type DeliveryEvent struct {
	ID         string
	ItemID     string
	Quantity   decimal.Decimal
	ReceivedAt *time.Time
}

// DisciplineSummaryRow is one L1 rollup row.
type DisciplineSummaryRow struct {
	Discipline         taxonomy.Discipline `json:"discipline"`
	DisciplineLabel    string              `json:"disciplineLabel"`
	OrderedQty         decimal.Decimal     `json:"orderedQty"`
	RequiredQty        decimal.Decimal     `json:"requiredQty"`
	DeliveredQty       decimal.Decimal     `json:"deliveredQty"`
	UncategorisedCount int                 `json:"uncategorisedCount"`
	Status             Status              `json:"status"`
	LateDays           int                 `json:"lateDays"`
	ValueAtRisk        decimal.Decimal     `json:"valueAtRisk"`
	ItemCount          int                 `json:"itemCount"`
	Trend              Trend               `json:"trend"`
}

// PurchaseOrderRef pairs an order id with its human reference, for
// drill-through from uncategorised rows.
type PurchaseOrderRef struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
}

// MaterialClassRow is one L2 rollup row within a discipline.
type MaterialClassRow struct {
	MaterialClass    string              `json:"materialClass"`
	Discipline       taxonomy.Discipline `json:"discipline"`
	OrderedQty       decimal.Decimal     `json:"orderedQty"`
	RequiredQty      decimal.Decimal     `json:"requiredQty"`
	DeliveredQty     decimal.Decimal     `json:"deliveredQty"`
	Status           Status              `json:"status"`
	LateDays         int                 `json:"lateDays"`
	ItemCount        int                 `json:"itemCount"`
	PurchaseOrderIDs []string            `json:"purchaseOrderIds"`
	PurchaseOrders   []PurchaseOrderRef  `json:"purchaseOrders,omitempty"`
	Trend            Trend               `json:"trend"`
}

// WeeklyBatchRow is one L3 row: a Monday-aligned delivery week (or the
// unscheduled bucket, which has nil week bounds).
type WeeklyBatchRow struct {
	WeekStart    *time.Time          `json:"weekStart"`
	WeekEnd      *time.Time          `json:"weekEnd"`
	Label        string              `json:"label"`
	RequiredQty  decimal.Decimal     `json:"requiredQty"`
	DeliveredQty decimal.Decimal     `json:"deliveredQty"`
	Status       Status              `json:"status"`
	LateDays     int                 `json:"lateDays"`
	Deliveries   []DeliveryDetailRow `json:"deliveries"`
}

// DeliveryDetailRow is one delivery event inside a weekly batch.
type DeliveryDetailRow struct {
	DeliveryID     string          `json:"deliveryId"`
	OrderReference string          `json:"orderReference"`
	ItemNumber     string          `json:"itemNumber"`
	Description    string          `json:"description"`
	Unit           string          `json:"unit"`
	ExpectedDate   *time.Time      `json:"expectedDate"`
	ActualDate     *time.Time      `json:"actualDate"`
	Qty            decimal.Decimal `json:"qty"`
	Status         DeliveryStatus  `json:"status"`
}
