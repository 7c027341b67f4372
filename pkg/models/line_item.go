package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one BOQ line of a purchase order. Discipline and
// MaterialClass hold whatever the upstream classification produced
// (manual entry or AI extraction); they are normalized onto the
// canonical taxonomy at read time, never rejected at write time.
type LineItem struct {
	ID              uuid.UUID       `json:"id"`
	PurchaseOrderID uuid.UUID       `json:"purchase_order_id"`
	ItemNumber      string          `json:"item_number"`
	Description     string          `json:"description"`
	Unit            string          `json:"unit"`
	OrderedQty      decimal.Decimal `json:"ordered_qty"`
	DeliveredQty    decimal.Decimal `json:"delivered_qty"`
	RequiredByDate  *time.Time      `json:"required_by_date"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Discipline      *string         `json:"discipline"`
	MaterialClass   *string         `json:"material_class"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// PurchaseOrderRef is the human order reference, populated by the
	// project-scoped list queries for drill-through display.
	PurchaseOrderRef string `json:"purchase_order_ref,omitempty"`
}
