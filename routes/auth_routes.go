package routes

import (
	"stock-app/config"
	"stock-app/controllers"
	"stock-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controllers.NewAuthController(db)
	api := app.Group(config.MAIN_ROUTES + "/auth")

	api.Post("/login", authController.Login)
	api.Post("/logout", authController.Logout)
	api.Get("/profile", middleware.AuthMiddleware, authController.Profile)
}
