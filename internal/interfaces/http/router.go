package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-stock-api/internal/application/directory"
	"github.com/jhoicas/pos-stock-api/internal/application/session"
	"github.com/jhoicas/pos-stock-api/internal/application/stock"
	"github.com/jhoicas/pos-stock-api/internal/application/stocktake"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC     *stock.StockUseCase
	StockTakeUC *stocktake.StockTakeUseCase
	DirectoryUC *directory.DirectoryUseCase
	Manager     *session.Manager
	Authority   *session.Authority
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público; refresh y logout requieren Bearer)
	authHandler := NewAuthHandler(deps.Manager, deps.Authority)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", AuthMiddleware(deps.Authority), authHandler.Refresh)
	authGroup.Post("/logout", AuthMiddleware(deps.Authority), authHandler.Logout)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Authority))

	// Stock (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/adjustments", stockHandler.Adjust)
	stockGroup.Post("/transfers", stockHandler.Transfer)
	stockGroup.Get("/products/:product_id/levels", stockHandler.GetLevels)
	stockGroup.Get("/products/:product_id/summary", stockHandler.GetSummary)
	stockGroup.Get("/products/:product_id/history", stockHandler.GetHistory)
	stockGroup.Get("/locations/:location_id", stockHandler.GetByLocation)
	stockGroup.Get("/locations/:location_id/low", stockHandler.GetLowStock)

	// Conteos físicos (protegido)
	stockTakes := protected.Group("/stock-takes")
	stockTakeHandler := NewStockTakeHandler(deps.StockTakeUC)
	stockTakes.Post("/", stockTakeHandler.Create)
	stockTakes.Get("/", stockTakeHandler.List)
	stockTakes.Get("/:id", stockTakeHandler.GetByID)
	stockTakes.Put("/:id/details", stockTakeHandler.UpdateDetail)
	stockTakes.Post("/:id/complete", stockTakeHandler.Complete)
	stockTakes.Post("/:id/cancel", stockTakeHandler.Cancel)

	// Directorio (protegido)
	directoryHandler := NewDirectoryHandler(deps.DirectoryUC)
	products := protected.Group("/products")
	products.Get("/", directoryHandler.ListProducts)
	products.Get("/:id", directoryHandler.GetProduct)
	protected.Get("/locations", directoryHandler.ListLocations)
}
