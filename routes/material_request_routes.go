package routes

import (
	"labstock/config"
	"labstock/controllers"
	"labstock/middleware"
	"labstock/repositories"
	"labstock/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupMaterialRequestRoutes(app *fiber.App, db *gorm.DB, clock utils.Clock) {

	repo := repositories.NewMaterialRequestRepository(db, clock)
	materialRequestController := controllers.NewMaterialRequestController(db, repo)

	api := app.Group(config.MAIN_ROUTES+"/material-requests", middleware.AuthMiddleware)

	api.Post("/", materialRequestController.CreateRequest)
	api.Get("/", materialRequestController.GetAllRequests)
	api.Get("/:code", materialRequestController.GetRequestByCode)
	api.Post("/:code/approve", materialRequestController.Approve)
	api.Post("/:code/reject", materialRequestController.Reject)
	api.Post("/:code/fulfill", materialRequestController.Fulfill)
}
