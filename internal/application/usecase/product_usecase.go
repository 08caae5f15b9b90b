package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos. StockQuantity nunca
// se modifica por aquí: las existencias entran y salen solo por movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto con stock 0 y estado active.
func (uc *ProductUseCase) Create(branchID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if branchID == "" || in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MinStockLevel < 0 || in.MaxStockLevel < 0 || in.ReorderPoint < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice.LessThan(decimal.Zero) || in.CostPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByBranchAndSKU(branchID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		BranchID:      branchID,
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		StockQuantity: 0,
		MinStockLevel: in.MinStockLevel,
		MaxStockLevel: in.MaxStockLevel,
		ReorderPoint:  in.ReorderPoint,
		UnitPrice:     in.UnitPrice,
		CostPrice:     in.CostPrice,
		Status:        entity.ProductStatusActive,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto validando la sucursal del caller.
func (uc *ProductUseCase) GetByID(id, branchID string) (*dto.ProductResponse, error) {
	product, err := uc.scopedProduct(id, branchID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetQuantity devuelve la cantidad actual de stock del producto.
func (uc *ProductUseCase) GetQuantity(id, branchID string) (int, error) {
	product, err := uc.scopedProduct(id, branchID)
	if err != nil {
		return 0, err
	}
	return product.StockQuantity, nil
}

// Update actualiza campos del catálogo. No permite tocar StockQuantity (se
// maneja vía movimientos) ni salir del estado discontinued (terminal).
func (uc *ProductUseCase) Update(id, branchID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.scopedProduct(id, branchID)
	if err != nil {
		return nil, err
	}
	if product.Status == entity.ProductStatusDiscontinued {
		return nil, domain.ErrInvalidState
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStockLevel = *in.MinStockLevel
	}
	if in.MaxStockLevel != nil {
		if *in.MaxStockLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MaxStockLevel = *in.MaxStockLevel
	}
	if in.ReorderPoint != nil {
		if *in.ReorderPoint < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.ReorderPoint = *in.ReorderPoint
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.UnitPrice = *in.UnitPrice
	}
	if in.CostPrice != nil {
		if in.CostPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.CostPrice = *in.CostPrice
	}
	if in.Status != nil {
		switch *in.Status {
		case entity.ProductStatusActive, entity.ProductStatusInactive, entity.ProductStatusDiscontinued:
			product.Status = *in.Status
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Discontinue marca el producto como discontinued (baja lógica). Nunca hay
// borrado físico: los movimientos del libro lo siguen referenciando.
func (uc *ProductUseCase) Discontinue(id, branchID string) (*dto.ProductResponse, error) {
	product, err := uc.scopedProduct(id, branchID)
	if err != nil {
		return nil, err
	}
	if product.Status == entity.ProductStatusDiscontinued {
		return nil, domain.ErrInvalidState
	}
	product.Status = entity.ProductStatusDiscontinued
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos de la sucursal con paginación.
func (uc *ProductUseCase) List(branchID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByBranch(branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ListLowStock lista los productos activos en o bajo el nivel mínimo o punto
// de reorden (lista de reposición).
func (uc *ProductUseCase) ListLowStock(branchID string) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock(branchID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

func (uc *ProductUseCase) scopedProduct(id, branchID string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.BranchID != branchID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		BranchID:      p.BranchID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		MaxStockLevel: p.MaxStockLevel,
		ReorderPoint:  p.ReorderPoint,
		UnitPrice:     p.UnitPrice,
		CostPrice:     p.CostPrice,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
