package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-pro/internal/application/audit"
	"github.com/tu-usuario/farmacia-pro/internal/application/auth"
	"github.com/tu-usuario/farmacia-pro/internal/application/inventory"
	"github.com/tu-usuario/farmacia-pro/internal/application/stats"
	"github.com/tu-usuario/farmacia-pro/internal/application/usecase"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ProductUC        *usecase.ProductUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	AuditUC          *audit.AuditUseCase
	StatsUC          *stats.StatsUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.ListLowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/quantity", productHandler.GetQuantity)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleFarmaceuta), productHandler.Discontinue)

	// Inventory movements (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListByBranch)
	invGroup.Get("/movements/product/:productId", inventoryHandler.ListByProduct)

	// Stock audits (protegido; conciliar exige rol con autoridad sobre stock)
	audits := protected.Group("/audits")
	auditHandler := NewAuditHandler(deps.AuditUC)
	audits.Post("/", auditHandler.Create)
	audits.Get("/", auditHandler.List)
	audits.Get("/:id", auditHandler.GetByID)
	audits.Post("/:id/items", auditHandler.AddItem)
	audits.Post("/:id/complete", auditHandler.Complete)
	audits.Post("/:id/cancel", auditHandler.Cancel)
	audits.Post("/:id/reconcile/:productId", RequireRole(entity.RoleAdmin, entity.RoleFarmaceuta), auditHandler.Reconcile)

	// Stats (protegido)
	statsHandler := NewStatsHandler(deps.StatsUC)
	protected.Get("/stats", statsHandler.GetStats)
}
