package routes

import (
	"labstock/config"
	"labstock/controllers"
	"labstock/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupToolRoutes(app *fiber.App, db *gorm.DB) {

	toolController := controllers.NewToolController(db)

	api := app.Group(config.MAIN_ROUTES+"/tools", middleware.AuthMiddleware)

	api.Post("/models", toolController.CreateToolModel)
	api.Get("/models", toolController.GetAllToolModels)
	api.Put("/models/:id", toolController.UpdateToolModel)
	api.Post("/assets", toolController.CreateToolAsset)
	api.Put("/assets/:id/deactivate", toolController.DeactivateToolAsset)
	api.Get("/assets/qr/:qr", toolController.GetToolAssetByQr)
}
