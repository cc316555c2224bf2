package routes

import (
	"stock-app/config"
	"stock-app/controllers"
	"stock-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupSupplierRoutes(app *fiber.App, db *gorm.DB) {
	supplierController := controllers.NewSupplierController(db)
	api := app.Group(config.MAIN_ROUTES+"/suppliers", middleware.AuthMiddleware)

	api.Get("/", supplierController.GetAll)
	api.Get("/:id", supplierController.GetByID)
	api.Post("/", supplierController.Create)
	api.Put("/:id", supplierController.Update)
	api.Delete("/:id", supplierController.Delete)
}
