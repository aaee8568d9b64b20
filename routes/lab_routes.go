package routes

import (
	"labstock/config"
	"labstock/controllers"
	"labstock/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupLabRoutes(app *fiber.App, db *gorm.DB) {

	labController := controllers.NewLabController(db)

	api := app.Group(config.MAIN_ROUTES+"/labs", middleware.AuthMiddleware)

	api.Post("/", labController.CreateLab)
	api.Get("/", labController.GetAllLabs)
	api.Put("/:id/deactivate", labController.DeactivateLab)
	api.Get("/:id/approval-matrix", labController.GetApprovalMatrix)
	api.Put("/:id/approval-matrix", labController.UpsertApprovalMatrix)
	api.Post("/:id/officers", labController.AssignOfficer)
}
