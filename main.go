package main

import (
	"fmt"
	"log"

	"stock-app/config"
	"stock-app/controllers/idgen"
	"stock-app/database"
	"stock-app/migration"
	"stock-app/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {

	config.LoadConfig()

	app := fiber.New()

	database.EnsureDatabaseExists(config.DBName)

	db, err := database.OpenDatabaseConnection(config.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	config.SetupCORS(app)

	routes.SetupAuthRoutes(app, db)
	routes.SetupDashboardRoutes(app, db)
	routes.SetupProductRoutes(app, db)
	routes.SetupComboRoutes(app, db)
	routes.SetupWarehouseRoutes(app, db)
	routes.SetupSupplierRoutes(app, db)
	routes.SetupPurchaseOrderRoutes(app, db)
	routes.SetupInventoryRoutes(app, db)
	routes.SetupShippingRoutes(app, db)

	port := config.APP_PORT
	fmt.Println("🚀 Server listening on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
