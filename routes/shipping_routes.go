package routes

import (
	"stock-app/config"
	"stock-app/controllers"
	"stock-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupShippingRoutes(app *fiber.App, db *gorm.DB) {
	batchController := controllers.NewBatchShippingController(db)
	api := app.Group(config.MAIN_ROUTES+"/shipping", middleware.AuthMiddleware)

	api.Post("/batch", batchController.Ship)
	api.Get("/batch/:batch_id", batchController.GetBatch)
}
