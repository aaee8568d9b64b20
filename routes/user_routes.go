package routes

import (
	"labstock/config"
	"labstock/controllers"
	"labstock/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupUserRoutes(app *fiber.App, db *gorm.DB) {

	userController := controllers.NewUserController(db)

	api := app.Group(config.MAIN_ROUTES+"/users", middleware.AuthMiddleware)

	api.Post("/", userController.CreateUser)
	api.Get("/", userController.GetAllUsers)
	api.Put("/:id/deactivate", userController.DeactivateUser)
}
