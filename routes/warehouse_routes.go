package routes

import (
	"stock-app/config"
	"stock-app/controllers"
	"stock-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupWarehouseRoutes(app *fiber.App, db *gorm.DB) {
	warehouseController := controllers.NewWarehouseController(db)
	api := app.Group(config.MAIN_ROUTES+"/warehouses", middleware.AuthMiddleware)

	api.Get("/", warehouseController.GetAll)
	api.Get("/:id", warehouseController.GetByID)
	api.Post("/", warehouseController.Create)
	api.Put("/:id", warehouseController.Update)
	api.Delete("/:id", warehouseController.Delete)
}
