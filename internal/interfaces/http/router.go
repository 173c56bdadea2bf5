package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-costeo/internal/application/inventory"
	"github.com/jhoicas/inventario-costeo/internal/application/uom"
	"github.com/jhoicas/inventario-costeo/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Units            *uom.UnitUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Transfers        *inventory.TransferCoordinator
	Production       *inventory.ProductionUseCase
	Counts           *inventory.CountReconciler
	Valuation        *inventory.ValuationUseCase
	JWTSecret        string
	ServiceName      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleWarehouse, jwt.RoleAuditor)
	operators := RequireRole(jwt.RoleAdmin, jwt.RoleWarehouse)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Unidades de medida
	units := protected.Group("/units")
	unitHandler := NewUnitHandler(deps.Units)
	units.Get("/", anyRole, unitHandler.List)
	units.Get("/resolve", anyRole, unitHandler.Resolve)
	units.Post("/", adminOnly, unitHandler.Create)

	// Inventario: mutaciones y consultas
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Transfers, deps.Production, deps.Valuation)
	invGroup.Post("/movements", operators, inventoryHandler.RegisterMovement)
	invGroup.Post("/transfers", operators, inventoryHandler.Transfer)
	invGroup.Post("/productions", operators, inventoryHandler.Produce)
	invGroup.Get("/valuation", anyRole, inventoryHandler.GetValuation)
	invGroup.Get("/history", anyRole, inventoryHandler.GetHistory)
	invGroup.Get("/stock", anyRole, inventoryHandler.GetStock)

	// Conteos físicos
	counts := invGroup.Group("/counts")
	countHandler := NewCountHandler(deps.Counts)
	counts.Post("/", anyRole, countHandler.Create)
	counts.Get("/", anyRole, countHandler.List)
	counts.Get("/:id", anyRole, countHandler.GetByID)
	counts.Put("/:id/lines", anyRole, countHandler.UpdateLines)
	counts.Post("/:id/prepare", anyRole, countHandler.Prepare)
	counts.Post("/:id/lock", operators, countHandler.Lock)
	counts.Post("/:id/reject", operators, countHandler.Reject)
	counts.Post("/:id/apply", adminOnly, countHandler.Apply)
}
