package controllers

import (
	"labstock/apperr"
	"labstock/mailer"
	"labstock/models"
	"labstock/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BorrowingController struct {
	DB     *gorm.DB
	Repo   *repositories.BorrowingRepository
	Mailer *mailer.Mailer
}

func NewBorrowingController(DB *gorm.DB, repo *repositories.BorrowingRepository, m *mailer.Mailer) *BorrowingController {
	return &BorrowingController{DB: DB, Repo: repo, Mailer: m}
}

func actorID(ctx *fiber.Ctx) uint {
	id, _ := ctx.Locals("userID").(float64)
	return uint(id)
}

type borrowingConsumableLine struct {
	ConsumableItemID uint `json:"consumable_item_id" validate:"required"`
	Qty              int  `json:"qty" validate:"required,min=1"`
}

type createBorrowingRequest struct {
	LabID        uint                      `json:"lab_id" validate:"required"`
	Purpose      string                    `json:"purpose" validate:"required,min=5"`
	CourseName   string                    `json:"course_name"`
	CourseCode   string                    `json:"course_code"`
	ToolAssetIDs []uint                    `json:"tool_asset_ids"`
	Consumables  []borrowingConsumableLine `json:"consumables"`
}

func (c *BorrowingController) CreateRequest(ctx *fiber.Ctx) error {
	var input createBorrowingRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	lines := make([]repositories.ConsumableLineInput, 0, len(input.Consumables))
	for _, line := range input.Consumables {
		lines = append(lines, repositories.ConsumableLineInput{
			ConsumableItemID: line.ConsumableItemID,
			Qty:              line.Qty,
		})
	}

	trx, err := c.Repo.CreateRequest(repositories.CreateBorrowingInput{
		LabID:        input.LabID,
		RequesterID:  actorID(ctx),
		Purpose:      input.Purpose,
		CourseName:   input.CourseName,
		CourseCode:   input.CourseCode,
		ToolAssetIDs: input.ToolAssetIDs,
		Consumables:  lines,
	})
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Pengajuan peminjaman dibuat",
		"data":    trx,
	})
}

func (c *BorrowingController) GetAllBorrowings(ctx *fiber.Ctx) error {
	filter := repositories.BorrowingFilter{
		Status: ctx.Query("status"),
	}
	if labID := ctx.QueryInt("lab_id", 0); labID > 0 {
		filter.LabID = uint(labID)
	}
	// Mahasiswa hanya melihat pengajuannya sendiri
	if role, _ := ctx.Locals("role").(string); role == models.RoleMahasiswa {
		filter.RequesterID = actorID(ctx)
	}

	rows, err := c.Repo.List(filter)
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": rows})
}

func (c *BorrowingController) GetBorrowingByCode(ctx *fiber.Ctx) error {
	trx, err := c.Repo.GetByCode(ctx.Params("code"))
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"transaction":    trx,
			"display_status": c.Repo.DisplayStatus(trx),
		},
	})
}

type decisionRequest struct {
	Note string `json:"note"`
}

func (c *BorrowingController) Approve(ctx *fiber.Ctx) error {
	var input decisionRequest
	_ = ctx.BodyParser(&input)

	trx, err := c.Repo.Approve(ctx.Params("code"), actorID(ctx), input.Note)
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if trx.Status == models.BorrowingStatusApprovedWaitingHandover {
		c.notifyRequester(trx, "disetujui, menunggu serah terima")
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Persetujuan dicatat",
		"data":    fiber.Map{"code": trx.Code, "status": trx.Status},
	})
}

func (c *BorrowingController) Reject(ctx *fiber.Ctx) error {
	var input decisionRequest
	_ = ctx.BodyParser(&input)

	trx, err := c.Repo.Reject(ctx.Params("code"), actorID(ctx), input.Note)
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	c.notifyRequester(trx, "ditolak: "+trx.RejectionReason)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Pengajuan ditolak",
		"data":    fiber.Map{"code": trx.Code, "status": trx.Status},
	})
}

func (c *BorrowingController) Cancel(ctx *fiber.Ctx) error {
	trx, err := c.Repo.Cancel(ctx.Params("code"), actorID(ctx))
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Pengajuan dibatalkan",
		"data":    fiber.Map{"code": trx.Code, "status": trx.Status},
	})
}

type handoverRequest struct {
	DueDate string `json:"due_date" validate:"required"`
	Note    string `json:"note"`
}

func (c *BorrowingController) Handover(ctx *fiber.Ctx) error {
	var input handoverRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	trx, err := c.Repo.Handover(ctx.Params("code"), actorID(ctx), input.DueDate, input.Note)
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	c.notifyRequester(trx, "diserahterimakan, jatuh tempo "+input.DueDate)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Serah terima dicatat",
		"data":    fiber.Map{"code": trx.Code, "status": trx.Status, "due_date": trx.DueDate},
	})
}

type returnItemRequest struct {
	Condition string `json:"condition" validate:"required"`
	Note      string `json:"note"`
}

func (c *BorrowingController) ReturnItem(ctx *fiber.Ctx) error {
	itemID, err := ctx.ParamsInt("item_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var input returnItemRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	trx, err := c.Repo.ReturnToolItems(ctx.Params("code"), actorID(ctx), []repositories.ReturnLineInput{
		{BorrowingItemID: uint(itemID), Condition: input.Condition},
	}, input.Note)
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Pengembalian dicatat",
		"data":    fiber.Map{"code": trx.Code, "status": trx.Status},
	})
}

type returnBatchRequest struct {
	Items []struct {
		BorrowingItemID uint   `json:"borrowing_item_id" validate:"required"`
		Condition       string `json:"condition" validate:"required"`
	} `json:"items" validate:"required,min=1,dive"`
	Note string `json:"note"`
}

// ReturnBatch menerima beberapa baris pengembalian sekaligus dalam satu
// kejadian pengembalian.
func (c *BorrowingController) ReturnBatch(ctx *fiber.Ctx) error {
	var input returnBatchRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	lines := make([]repositories.ReturnLineInput, 0, len(input.Items))
	for _, item := range input.Items {
		lines = append(lines, repositories.ReturnLineInput{
			BorrowingItemID: item.BorrowingItemID,
			Condition:       item.Condition,
		})
	}

	trx, err := c.Repo.ReturnToolItems(ctx.Params("code"), actorID(ctx), lines, input.Note)
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Pengembalian dicatat",
		"data":    fiber.Map{"code": trx.Code, "status": trx.Status},
	})
}

func (c *BorrowingController) notifyRequester(trx *models.BorrowingTransaction, detail string) {
	if c.Mailer == nil {
		return
	}
	var requester models.User
	if err := c.DB.First(&requester, trx.RequesterID).Error; err != nil {
		return
	}
	c.Mailer.NotifyBorrowingStatus(requester.Email, trx.Code, trx.Status, detail)
}
