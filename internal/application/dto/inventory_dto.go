package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
// Direction es obligatoria para type=adjustment ("increase" o "decrease");
// para in/out/transfer puede omitirse (queda implícita por el tipo).
type RegisterMovementRequest struct {
	ProductID       string `json:"product_id"`
	Type            string `json:"type"`
	Direction       string `json:"direction,omitempty"`
	Quantity        int    `json:"quantity"`
	Reason          string `json:"reason"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// MovementResponse representación HTTP de un movimiento confirmado.
type MovementResponse struct {
	ID               string    `json:"id"`
	BranchID         string    `json:"branch_id"`
	ProductID        string    `json:"product_id"`
	Type             string    `json:"type"`
	Quantity         int       `json:"quantity"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	Reason           string    `json:"reason"`
	ReferenceNumber  string    `json:"reference_number,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
