package routes

import (
	"stock-app/config"
	"stock-app/controllers"
	"stock-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupComboRoutes(app *fiber.App, db *gorm.DB) {
	comboController := controllers.NewComboController(db)
	api := app.Group(config.MAIN_ROUTES+"/combo-products", middleware.AuthMiddleware)

	api.Get("/", comboController.GetAll)
	api.Get("/:id", comboController.GetByID)
	api.Post("/", comboController.Create)
	api.Put("/:id", comboController.Update)
	api.Delete("/:id", comboController.Delete)
}
