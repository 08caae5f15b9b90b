package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

var _ repository.StockAuditRepository = (*StockAuditRepo)(nil)

const auditColumns = `id, branch_id, audit_date, status, total_items, counted_items, discrepancies,
		notes, created_by, created_at, updated_at`

const auditItemColumns = `id, audit_id, product_id, expected_quantity, actual_quantity, difference,
		reconciled, reconciled_at, created_at`

// StockAuditRepo implementación del puerto StockAuditRepository sobre
// PostgreSQL (usable con pool o tx).
type StockAuditRepo struct {
	q Querier
}

// NewStockAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAuditRepository(q Querier) *StockAuditRepo {
	return &StockAuditRepo{q: q}
}

// CreateAudit persiste una nueva auditoría.
func (r *StockAuditRepo) CreateAudit(audit *entity.StockAudit) error {
	query := `
		INSERT INTO stock_audits (id, branch_id, audit_date, status, total_items, counted_items,
			discrepancies, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		audit.ID, audit.BranchID, audit.AuditDate, audit.Status,
		audit.TotalItems, audit.CountedItems, audit.Discrepancies,
		audit.Notes, audit.CreatedBy, audit.CreatedAt, audit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

// GetAuditByID obtiene una auditoría por ID.
func (r *StockAuditRepo) GetAuditByID(id string) (*entity.StockAudit, error) {
	query := `SELECT ` + auditColumns + ` FROM stock_audits WHERE id = $1`
	var a entity.StockAudit
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.BranchID, &a.AuditDate, &a.Status, &a.TotalItems, &a.CountedItems,
		&a.Discrepancies, &a.Notes, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit: %w", err)
	}
	return &a, nil
}

// UpdateAudit actualiza estado y contadores derivados de una auditoría.
func (r *StockAuditRepo) UpdateAudit(audit *entity.StockAudit) error {
	query := `
		UPDATE stock_audits
		SET status = $2, total_items = $3, counted_items = $4, discrepancies = $5,
			notes = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		audit.ID, audit.Status, audit.TotalItems, audit.CountedItems,
		audit.Discrepancies, audit.Notes, audit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update audit: %w", err)
	}
	return nil
}

// ListAuditsByBranch lista auditorías de una sucursal, opcionalmente por estado.
func (r *StockAuditRepo) ListAuditsByBranch(branchID, status string, limit, offset int) ([]*entity.StockAudit, error) {
	query := `SELECT ` + auditColumns + ` FROM stock_audits WHERE branch_id = $1`
	args := []any{branchID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY audit_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAudit
	for rows.Next() {
		var a entity.StockAudit
		if err := rows.Scan(
			&a.ID, &a.BranchID, &a.AuditDate, &a.Status, &a.TotalItems, &a.CountedItems,
			&a.Discrepancies, &a.Notes, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// CreateItem persiste un ítem de conteo.
func (r *StockAuditRepo) CreateItem(item *entity.StockAuditItem) error {
	query := `
		INSERT INTO stock_audit_items (id, audit_id, product_id, expected_quantity, actual_quantity,
			difference, reconciled, reconciled_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.AuditID, item.ProductID, item.ExpectedQuantity, item.ActualQuantity,
		item.Difference, item.Reconciled, item.ReconciledAt, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit item: %w", err)
	}
	return nil
}

// GetItemByProduct obtiene el ítem de un producto dentro de una auditoría.
func (r *StockAuditRepo) GetItemByProduct(auditID, productID string) (*entity.StockAuditItem, error) {
	query := `SELECT ` + auditItemColumns + `
		FROM stock_audit_items WHERE audit_id = $1 AND product_id = $2`
	var it entity.StockAuditItem
	err := r.q.QueryRow(context.Background(), query, auditID, productID).Scan(
		&it.ID, &it.AuditID, &it.ProductID, &it.ExpectedQuantity, &it.ActualQuantity,
		&it.Difference, &it.Reconciled, &it.ReconciledAt, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit item: %w", err)
	}
	return &it, nil
}

// ListItems lista los ítems de una auditoría en orden de conteo.
func (r *StockAuditRepo) ListItems(auditID string) ([]*entity.StockAuditItem, error) {
	query := `SELECT ` + auditItemColumns + `
		FROM stock_audit_items WHERE audit_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, auditID)
	if err != nil {
		return nil, fmt.Errorf("list audit items: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAuditItem
	for rows.Next() {
		var it entity.StockAuditItem
		if err := rows.Scan(
			&it.ID, &it.AuditID, &it.ProductID, &it.ExpectedQuantity, &it.ActualQuantity,
			&it.Difference, &it.Reconciled, &it.ReconciledAt, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// DeleteItem elimina un ítem (solo como parte del recuento delete+recreate).
func (r *StockAuditRepo) DeleteItem(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_audit_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete audit item: %w", err)
	}
	return nil
}

// MarkItemReconciled marca el ítem como conciliado.
func (r *StockAuditRepo) MarkItemReconciled(id string, at time.Time) error {
	query := `UPDATE stock_audit_items SET reconciled = true, reconciled_at = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, at)
	if err != nil {
		return fmt.Errorf("mark item reconciled: %w", err)
	}
	return nil
}
