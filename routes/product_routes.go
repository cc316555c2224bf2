package routes

import (
	"stock-app/config"
	"stock-app/controllers"
	"stock-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupProductRoutes(app *fiber.App, db *gorm.DB) {
	productController := controllers.NewProductController(db)
	api := app.Group(config.MAIN_ROUTES+"/products", middleware.AuthMiddleware)

	api.Get("/", productController.GetAll)
	api.Get("/excel", productController.ExportExcel)
	api.Post("/excel", productController.ImportExcel)
	api.Get("/:id", productController.GetByID)
	api.Post("/", productController.Create)
	api.Put("/:id", productController.Update)
	api.Delete("/:id", productController.Delete)

	api.Get("/:id/packaging", productController.GetPackaging)
	api.Put("/:id/packaging", productController.SetPackaging)
}
