package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, branch_id, sku, name, description, stock_quantity, min_stock_level,
		max_stock_level, reorder_point, unit_price, cost_price, status, version, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
// Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. El stock inicia en 0.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, branch_id, sku, name, description, stock_quantity, min_stock_level,
			max_stock_level, reorder_point, unit_price, cost_price, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.BranchID, product.SKU, product.Name, product.Description,
		product.StockQuantity, product.MinStockLevel, product.MaxStockLevel, product.ReorderPoint,
		product.UnitPrice, product.CostPrice, product.Status, product.Version,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product")
}

// GetByBranchAndSKU obtiene un producto por sucursal y SKU.
func (r *ProductRepo) GetByBranchAndSKU(branchID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE branch_id = $1 AND sku = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, branchID, sku), "get product by sku")
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE) para
// el ciclo leer-calcular-escribir del libro de movimientos.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product for update")
}

// ApplyQuantity confirma la nueva cantidad solo si la versión leída sigue
// vigente; una versión obsoleta devuelve domain.ErrConflict.
func (r *ProductRepo) ApplyQuantity(id string, newQuantity, version int) error {
	query := `
		UPDATE products
		SET stock_quantity = $2, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $3`
	tag, err := r.q.Exec(context.Background(), query, id, newQuantity, version)
	if err != nil {
		return fmt.Errorf("apply quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// Update actualiza los campos de catálogo. stock_quantity y version quedan
// fuera a propósito: solo ApplyQuantity los escribe.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, min_stock_level = $4, max_stock_level = $5,
			reorder_point = $6, unit_price = $7, cost_price = $8, status = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.MinStockLevel, product.MaxStockLevel,
		product.ReorderPoint, product.UnitPrice, product.CostPrice, product.Status, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// ListByBranch lista productos de una sucursal con paginación.
func (r *ProductRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE branch_id = $1
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListLowStock lista productos activos en o bajo el nivel mínimo o punto de reorden.
func (r *ProductRepo) ListLowStock(branchID string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE branch_id = $1 AND status = 'active'
			AND (stock_quantity <= min_stock_level OR stock_quantity <= reorder_point)
		ORDER BY stock_quantity ASC`
	rows, err := r.q.Query(context.Background(), query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.BranchID, &p.SKU, &p.Name, &p.Description, &p.StockQuantity,
		&p.MinStockLevel, &p.MaxStockLevel, &p.ReorderPoint, &p.UnitPrice, &p.CostPrice,
		&p.Status, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func (r *ProductRepo) scanMany(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.BranchID, &p.SKU, &p.Name, &p.Description, &p.StockQuantity,
			&p.MinStockLevel, &p.MaxStockLevel, &p.ReorderPoint, &p.UnitPrice, &p.CostPrice,
			&p.Status, &p.Version, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
