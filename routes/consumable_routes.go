package routes

import (
	"labstock/config"
	"labstock/controllers"
	"labstock/middleware"
	"labstock/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupConsumableRoutes(app *fiber.App, db *gorm.DB) {

	stock := repositories.NewStockRepository(db)
	consumableController := controllers.NewConsumableController(db, stock)

	api := app.Group(config.MAIN_ROUTES+"/consumables", middleware.AuthMiddleware)

	api.Post("/", consumableController.CreateConsumable)
	api.Get("/", consumableController.GetAllConsumables)
	api.Post("/:id/stock-in", consumableController.StockIn)
	api.Post("/:id/adjust", consumableController.Adjust)
	api.Get("/:id/movements", consumableController.GetMovements)
}
