package dto

import "time"

// CreateAuditRequest body para POST /api/audits.
type CreateAuditRequest struct {
	AuditDate time.Time `json:"audit_date"`
	Notes     string    `json:"notes,omitempty"`
}

// AddAuditItemRequest body para POST /api/audits/:id/items.
type AddAuditItemRequest struct {
	ProductID      string `json:"product_id"`
	ActualQuantity int    `json:"actual_quantity"`
}

// AuditResponse representación HTTP de una auditoría.
type AuditResponse struct {
	ID            string    `json:"id"`
	BranchID      string    `json:"branch_id"`
	AuditDate     time.Time `json:"audit_date"`
	Status        string    `json:"status"`
	TotalItems    int       `json:"total_items"`
	CountedItems  int       `json:"counted_items"`
	Discrepancies int       `json:"discrepancies"`
	Notes         string    `json:"notes,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AuditItemResponse representación HTTP de un ítem de auditoría.
type AuditItemResponse struct {
	ID               string     `json:"id"`
	AuditID          string     `json:"audit_id"`
	ProductID        string     `json:"product_id"`
	ExpectedQuantity int        `json:"expected_quantity"`
	ActualQuantity   int        `json:"actual_quantity"`
	Difference       int        `json:"difference"`
	Reconciled       bool       `json:"reconciled"`
	ReconciledAt     *time.Time `json:"reconciled_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// AuditDetailResponse auditoría con sus ítems.
type AuditDetailResponse struct {
	Audit AuditResponse       `json:"audit"`
	Items []AuditItemResponse `json:"items"`
}

// AuditListResponse listado paginado de auditorías.
type AuditListResponse struct {
	Items []AuditResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
