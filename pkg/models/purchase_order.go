// Package models contains domain types for the delivery engine.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase order lifecycle states.
const (
	POStatusDraft     = "DRAFT"
	POStatusApproved  = "APPROVED"
	POStatusActive    = "ACTIVE"
	POStatusCompleted = "COMPLETED"
	POStatusCancelled = "CANCELLED"
)

// PurchaseOrder is a supplier order within a project. Line items hang
// off it; the readiness engine only reads orders for references and
// committed value.
type PurchaseOrder struct {
	ID                  uuid.UUID       `json:"id"`
	ProjectID           uuid.UUID       `json:"project_id"`
	Reference           string          `json:"reference"`
	SupplierName        string          `json:"supplier_name"`
	Status              string          `json:"status"`
	TotalValue          decimal.Decimal `json:"total_value"`
	RetentionPercentage decimal.Decimal `json:"retention_percentage"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
