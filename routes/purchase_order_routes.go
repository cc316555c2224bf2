package routes

import (
	"stock-app/config"
	"stock-app/controllers"
	"stock-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPurchaseOrderRoutes(app *fiber.App, db *gorm.DB) {
	poController := controllers.NewPurchaseOrderController(db)
	api := app.Group(config.MAIN_ROUTES+"/purchase-orders", middleware.AuthMiddleware)

	api.Get("/", poController.GetAll)
	api.Get("/:id", poController.GetByID)
	api.Post("/", poController.Create)
	api.Post("/:id/receive", poController.Receive)
}
