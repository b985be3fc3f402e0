package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-movimientos/internal/application/analytics"
	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/application/usecase"
	"github.com/jhoicas/inventario-movimientos/pkg/config"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterMovement *inventory.RegisterMovementUseCase
	StockQuery       *inventory.StockQueryUseCase
	ProductUC        *usecase.ProductUseCase
	StatsUC          *analytics.StatsUseCase
	ReplenishmentUC  *inventory.ReplenishmentUseCase
	HTTP             config.HTTPConfig
	Log              *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api",
		RequestID(),
		RequestLogger(log.Component("http")),
		RequestTimeout(deps.HTTP.RequestTimeout),
		WriteRateLimit(deps.HTTP.WriteRateLimit),
	)

	// Movimientos
	movementHandler := NewMovementHandler(deps.RegisterMovement, deps.StockQuery)
	movements := api.Group("/movements")
	movements.Post("/", movementHandler.Register)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)

	// Stock y estadísticas
	stockHandler := NewStockHandler(deps.StockQuery, deps.StatsUC, deps.ReplenishmentUC, deps.RegisterMovement.Locations())
	api.Get("/stock/balance", stockHandler.Balance)
	api.Get("/stock/replenishment", stockHandler.Replenishment)
	api.Get("/stock", stockHandler.Summary)
	api.Get("/stats", stockHandler.Stats)
	api.Get("/locations", stockHandler.Locations)

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
}
