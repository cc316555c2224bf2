package routes

import (
	"stock-app/config"
	"stock-app/controllers"
	"stock-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupInventoryRoutes(app *fiber.App, db *gorm.DB) {
	inventoryController := controllers.NewInventoryController(db)
	api := app.Group(config.MAIN_ROUTES+"/inventory", middleware.AuthMiddleware)

	api.Post("/receive", inventoryController.Receive)
	api.Post("/confirm-receipt", inventoryController.ConfirmReceipt)
	api.Post("/package", inventoryController.Package)
	api.Post("/unpack", inventoryController.Unpack)
	api.Post("/ship", inventoryController.Ship)
	api.Post("/assemble", inventoryController.Assemble)
	api.Post("/disassemble", inventoryController.Disassemble)
	api.Post("/combo-ship", inventoryController.ShipCombo)

	api.Get("/max-quantity", inventoryController.MaxQuantity)
	api.Get("/packaging-availability", inventoryController.PackagingAvailability)
	api.Get("/stock", inventoryController.GetStock)
	api.Get("/stock/excel", inventoryController.ExportExcel)
	api.Get("/combo-stock", inventoryController.GetComboStock)
	api.Get("/summary", inventoryController.GetSummary)
	api.Get("/transactions", inventoryController.GetTransactions)
}
