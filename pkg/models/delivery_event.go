package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryEvent is one expected or received delivery against a line
// item. ReceivedDate is nil while the delivery is outstanding. The
// quantities of an item's events sum to its cumulative DeliveredQty,
// maintained by the ingestion side.
type DeliveryEvent struct {
	ID           uuid.UUID       `json:"id"`
	LineItemID   uuid.UUID       `json:"line_item_id"`
	Reference    string          `json:"reference"`
	Quantity     decimal.Decimal `json:"quantity"`
	ExpectedDate *time.Time      `json:"expected_date"`
	ReceivedDate *time.Time      `json:"received_date"`
	CreatedAt    time.Time       `json:"created_at"`
}
