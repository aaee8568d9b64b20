package controllers

import (
	"labstock/apperr"
	"labstock/models"
	"labstock/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MaterialRequestController struct {
	DB   *gorm.DB
	Repo *repositories.MaterialRequestRepository
}

func NewMaterialRequestController(DB *gorm.DB, repo *repositories.MaterialRequestRepository) *MaterialRequestController {
	return &MaterialRequestController{DB: DB, Repo: repo}
}

type createMaterialRequestInput struct {
	LabID   uint   `json:"lab_id" validate:"required"`
	Purpose string `json:"purpose" validate:"required,min=5"`
	Lines   []struct {
		ConsumableItemID uint `json:"consumable_item_id" validate:"required"`
		Qty              int  `json:"qty" validate:"required,min=1"`
	} `json:"lines" validate:"required,min=1,dive"`
}

func (c *MaterialRequestController) CreateRequest(ctx *fiber.Ctx) error {
	var input createMaterialRequestInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	lines := make([]repositories.MaterialLineInput, 0, len(input.Lines))
	for _, line := range input.Lines {
		lines = append(lines, repositories.MaterialLineInput{
			ConsumableItemID: line.ConsumableItemID,
			Qty:              line.Qty,
		})
	}

	req, err := c.Repo.CreateRequest(repositories.CreateMaterialRequestInput{
		LabID:       input.LabID,
		RequesterID: actorID(ctx),
		Purpose:     input.Purpose,
		Lines:       lines,
	})
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Permintaan bahan dibuat",
		"data":    req,
	})
}

func (c *MaterialRequestController) GetAllRequests(ctx *fiber.Ctx) error {
	labID := uint(ctx.QueryInt("lab_id", 0))

	// Mahasiswa hanya melihat permintaannya sendiri
	var requesterID uint
	if role, _ := ctx.Locals("role").(string); role == models.RoleMahasiswa {
		requesterID = actorID(ctx)
	}

	rows, err := c.Repo.List(ctx.Query("status"), labID, requesterID)
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": rows})
}

func (c *MaterialRequestController) GetRequestByCode(ctx *fiber.Ctx) error {
	req, err := c.Repo.GetByCode(ctx.Params("code"))
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": req})
}

func (c *MaterialRequestController) Approve(ctx *fiber.Ctx) error {
	var input decisionRequest
	_ = ctx.BodyParser(&input)

	req, err := c.Repo.Approve(ctx.Params("code"), actorID(ctx), input.Note)
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Permintaan disetujui",
		"data":    fiber.Map{"code": req.Code, "status": req.Status},
	})
}

func (c *MaterialRequestController) Reject(ctx *fiber.Ctx) error {
	var input decisionRequest
	_ = ctx.BodyParser(&input)

	req, err := c.Repo.Reject(ctx.Params("code"), actorID(ctx), input.Note)
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Permintaan ditolak",
		"data":    fiber.Map{"code": req.Code, "status": req.Status},
	})
}

func (c *MaterialRequestController) Fulfill(ctx *fiber.Ctx) error {
	req, err := c.Repo.Fulfill(ctx.Params("code"), actorID(ctx))
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Permintaan dipenuhi",
		"data":    fiber.Map{"code": req.Code, "status": req.Status},
	})
}
