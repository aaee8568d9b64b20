package controllers

import (
	"errors"

	"labstock/controllers/idgen"
	"labstock/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ToolController struct {
	DB *gorm.DB
}

func NewToolController(DB *gorm.DB) *ToolController {
	return &ToolController{DB: DB}
}

type toolModelInput struct {
	LabID    uint   `json:"lab_id" validate:"required"`
	Code     string `json:"code" validate:"required,min=3"`
	Name     string `json:"name" validate:"required,min=3"`
	Category string `json:"category"`
}

func (c *ToolController) CreateToolModel(ctx *fiber.Ctx) error {
	var input toolModelInput
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

	toolModel := models.ToolModel{
		LabID:     input.LabID,
		Code:      input.Code,
		Name:      input.Name,
		Category:  input.Category,
		CreatedBy: int(actorID(ctx)),
	}
	if err := c.DB.Create(&toolModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Kode alat sudah dipakai"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Tool model created successfully",
		"data":    toolModel,
	})
}

func (c *ToolController) GetAllToolModels(ctx *fiber.Ctx) error {
	query := c.DB.Preload("Assets")
	if labID := ctx.QueryInt("lab_id", 0); labID > 0 {
		query = query.Where("lab_id = ?", labID)
	}

	var toolModels []models.ToolModel
	if err := query.Find(&toolModels).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": toolModels})
}

func (c *ToolController) UpdateToolModel(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var toolModel models.ToolModel
	if err := c.DB.First(&toolModel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tool model not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var input struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.Name != "" {
		toolModel.Name = input.Name
	}
	if input.Category != "" {
		toolModel.Category = input.Category
	}
	toolModel.UpdatedBy = int(actorID(ctx))

	if err := c.DB.Save(&toolModel).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": toolModel})
}

type toolAssetInput struct {
	ToolModelID uint   `json:"tool_model_id" validate:"required"`
	AssetCode   string `json:"asset_code" validate:"required,min=3"`
	Condition   string `json:"condition"`
}

func (c *ToolController) CreateToolAsset(ctx *fiber.Ctx) error {
	var input toolAssetInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var toolModel models.ToolModel
	if err := c.DB.First(&toolModel, input.ToolModelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tool model not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	condition := input.Condition
	if condition == "" {
		condition = models.ConditionBaik
	}
	if models.StatusForCondition(condition) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Kondisi tidak dikenal"})
	}

	asset := models.ToolAsset{
		ToolModelID: input.ToolModelID,
		AssetCode:   input.AssetCode,
		QrCode:      idgen.GenerateString(),
		Status:      models.AssetStatusAvailable,
		Condition:   condition,
		IsActive:    true,
		CreatedBy:   int(actorID(ctx)),
	}
	if err := c.DB.Create(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Kode aset sudah dipakai"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Tool asset created successfully",
		"data":    asset,
	})
}

// DeactivateToolAsset menonaktifkan unit tanpa hard-delete. Unit yang
// sedang dipinjam tidak bisa dinonaktifkan.
func (c *ToolController) DeactivateToolAsset(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	res := c.DB.Model(&models.ToolAsset{}).
		Where("id = ? AND status <> ?", id, models.AssetStatusBorrowed).
		Updates(map[string]interface{}{
			"status":     models.AssetStatusInactive,
			"is_active":  false,
			"updated_by": int(actorID(ctx)),
		})
	if res.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Unit tidak ditemukan atau sedang dipinjam",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Tool asset deactivated",
	})
}

func (c *ToolController) GetToolAssetByQr(ctx *fiber.Ctx) error {
	var asset models.ToolAsset
	if err := c.DB.Preload("ToolModel").
		Where("qr_code = ?", ctx.Params("qr")).
		First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Asset not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": asset})
}
