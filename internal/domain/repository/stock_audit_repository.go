package repository

import (
	"time"

	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
)

// StockAuditRepository define el puerto de persistencia para auditorías
// físicas y sus ítems. El recuento de un producto es delete+recreate del ítem
// (nunca edición in-place) para preservar el rastro de auditoría.
type StockAuditRepository interface {
	CreateAudit(audit *entity.StockAudit) error
	GetAuditByID(id string) (*entity.StockAudit, error)
	UpdateAudit(audit *entity.StockAudit) error
	ListAuditsByBranch(branchID, status string, limit, offset int) ([]*entity.StockAudit, error)

	CreateItem(item *entity.StockAuditItem) error
	GetItemByProduct(auditID, productID string) (*entity.StockAuditItem, error)
	ListItems(auditID string) ([]*entity.StockAuditItem, error)
	DeleteItem(id string) error
	MarkItemReconciled(id string, at time.Time) error
}
