package http

import (
	"github.com/gofiber/fiber/v2"
	appinv "github.com/tu-usuario/almacen-pae/internal/application/inventory"
	"github.com/tu-usuario/almacen-pae/internal/application/usecase"
)

// Roles de la operación de alimentación escolar.
const (
	RoleAlmacenista = "almacenista"
	RoleSupervisor  = "supervisor"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC           *usecase.ItemUseCase
	RecordMovement   *appinv.RecordMovementUseCase
	SubmitBatch      *appinv.SubmitBatchUseCase
	ApproveMovement  *appinv.ApproveMovementUseCase
	MovementQueries  *appinv.MovementQueryUseCase
	LowStock         *appinv.LowStockUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de ítems (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)

	// Ledger de movimientos (protegido)
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(
		deps.RecordMovement, deps.SubmitBatch, deps.ApproveMovement,
		deps.MovementQueries, deps.LowStock,
	)
	inv.Post("/movements", inventoryHandler.RecordMovement)
	inv.Post("/movements/batch", inventoryHandler.SubmitBatch)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Get("/movements/:id", inventoryHandler.GetMovement)
	// Solo supervisores dan el visto bueno.
	inv.Post("/movements/:id/approve", RequireRole(RoleSupervisor), inventoryHandler.ApproveMovement)
	inv.Get("/low-stock", inventoryHandler.GetLowStock)
}
