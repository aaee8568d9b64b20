package controllers

import (
	"errors"

	"labstock/apperr"
	"labstock/models"
	"labstock/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ConsumableController struct {
	DB    *gorm.DB
	Stock *repositories.StockRepository
}

func NewConsumableController(DB *gorm.DB, stock *repositories.StockRepository) *ConsumableController {
	return &ConsumableController{DB: DB, Stock: stock}
}

type consumableInput struct {
	LabID       uint   `json:"lab_id" validate:"required"`
	Code        string `json:"code" validate:"required,min=3"`
	Name        string `json:"name" validate:"required,min=3"`
	Unit        string `json:"unit" validate:"required"`
	MinStockQty int    `json:"min_stock_qty" validate:"min=0"`
}

func (c *ConsumableController) CreateConsumable(ctx *fiber.Ctx) error {
	var input consumableInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var lab models.Lab
	if err := c.DB.First(&lab, input.LabID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lab not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	item := models.ConsumableItem{
		LabID:       input.LabID,
		Code:        input.Code,
		Name:        input.Name,
		Unit:        input.Unit,
		StockQty:    0,
		MinStockQty: input.MinStockQty,
		IsActive:    true,
		CreatedBy:   int(actorID(ctx)),
	}
	if err := c.DB.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Kode bahan sudah dipakai"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Consumable created successfully",
		"data":    item,
	})
}

func (c *ConsumableController) GetAllConsumables(ctx *fiber.Ctx) error {
	query := c.DB.Model(&models.ConsumableItem{})
	if labID := ctx.QueryInt("lab_id", 0); labID > 0 {
		query = query.Where("lab_id = ?", labID)
	}
	// Filter bahan di bawah stok minimum untuk dashboard pengadaan
	if ctx.Query("below_min") == "true" {
		query = query.Where("stock_qty < min_stock_qty")
	}

	var items []models.ConsumableItem
	if err := query.Order("code ASC").Find(&items).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": items})
}

type stockInInput struct {
	Qty     int    `json:"qty" validate:"required,min=1"`
	Remarks string `json:"remarks"`
}

func (c *ConsumableController) StockIn(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input stockInInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	movement, err := c.Stock.StockIn(uint(id), input.Qty, actorID(ctx), input.Remarks)
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Stok masuk dicatat",
		"data":    movement,
	})
}

type adjustInput struct {
	Delta   int    `json:"delta" validate:"required"`
	Remarks string `json:"remarks" validate:"required,min=5"`
}

func (c *ConsumableController) Adjust(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input adjustInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	movement, err := c.Stock.ManualAdjustment(uint(id), input.Delta, actorID(ctx), input.Remarks)
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Penyesuaian stok dicatat",
		"data":    movement,
	})
}

func (c *ConsumableController) GetMovements(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	movements, err := c.Stock.Movements(uint(id))
	if err != nil {
		return ctx.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": movements})
}
