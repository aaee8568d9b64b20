package routes

import (
	"labstock/config"
	"labstock/controllers"
	"labstock/mailer"
	"labstock/middleware"
	"labstock/repositories"
	"labstock/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupBorrowingRoutes(app *fiber.App, db *gorm.DB, clock utils.Clock) {

	repo := repositories.NewBorrowingRepository(db, clock, config.CampusLocation())
	borrowingController := controllers.NewBorrowingController(db, repo, mailer.New())

	api := app.Group(config.MAIN_ROUTES+"/borrowings", middleware.AuthMiddleware)

	api.Post("/", borrowingController.CreateRequest)
	api.Get("/", borrowingController.GetAllBorrowings)
	api.Get("/:code", borrowingController.GetBorrowingByCode)
	api.Post("/:code/approve", borrowingController.Approve)
	api.Post("/:code/reject", borrowingController.Reject)
	api.Post("/:code/cancel", borrowingController.Cancel)
	api.Post("/:code/handover", borrowingController.Handover)
	api.Post("/:code/return", borrowingController.ReturnBatch)
	api.Post("/:code/items/:item_id/return", borrowingController.ReturnItem)
}
