package main

import (
	"fmt"
	"labstock/config"
	"labstock/controllers/idgen"
	"labstock/database"
	"labstock/routes"
	"labstock/utils"
	"log"

	"github.com/gofiber/fiber/v2"
)

func main() {

	config.LoadConfig()

	// Connect to database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate models
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	database.SeedAdmin(db)

	idgen.Init()

	app := fiber.New()

	// Setup CORS middleware
	config.SetupCORS(app)

	clock := utils.RealClock{}

	// Setup routes
	routes.SetupAuthRoutes(app, db)
	routes.SetupUserRoutes(app, db)
	routes.SetupLabRoutes(app, db)
	routes.SetupToolRoutes(app, db)
	routes.SetupConsumableRoutes(app, db)
	routes.SetupBorrowingRoutes(app, db, clock)
	routes.SetupMaterialRequestRoutes(app, db, clock)

	port := config.APP_PORT
	fmt.Println("🚀 Server berjalan di port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
