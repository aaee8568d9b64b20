package controllers

import (
	"errors"

	"labstock/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LabController struct {
	DB *gorm.DB
}

func NewLabController(DB *gorm.DB) *LabController {
	return &LabController{DB: DB}
}

type labInput struct {
	Code     string `json:"code" validate:"required,min=3"`
	Name     string `json:"name" validate:"required,min=3"`
	Location string `json:"location"`
}

func (c *LabController) CreateLab(ctx *fiber.Ctx) error {
	var input labInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	lab := models.Lab{
		Code:      input.Code,
		Name:      input.Name,
		Location:  input.Location,
		IsActive:  true,
		CreatedBy: int(actorID(ctx)),
	}
	if err := c.DB.Create(&lab).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Kode lab sudah dipakai"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Lab created successfully",
		"data":    lab,
	})
}

func (c *LabController) GetAllLabs(ctx *fiber.Ctx) error {
	var labs []models.Lab
	if err := c.DB.Order("code ASC").Find(&labs).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": labs})
}

// DeactivateLab: lab yang sudah pernah dirujuk transaksi tidak dihapus,
// hanya dinonaktifkan.
func (c *LabController) DeactivateLab(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	res := c.DB.Model(&models.Lab{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_by": int(actorID(ctx)),
		})
	if res.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lab not found"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Lab deactivated"})
}

func (c *LabController) GetApprovalMatrix(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var matrix models.ApprovalMatrix
	if err := c.DB.Preload("Step1Approver").
		Preload("Step2Approver").
		Where("lab_id = ?", id).
		First(&matrix).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Approval matrix not configured"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"matrix": matrix,
			"ready":  matrix.IsReady(),
		},
	})
}

type approvalMatrixInput struct {
	Step1ApproverID uint `json:"step1_approver_id" validate:"required"`
	Step2ApproverID uint `json:"step2_approver_id" validate:"required"`
	IsActive        bool `json:"is_active"`
}

// UpsertApprovalMatrix menetapkan dosen langkah-1 dan PLP langkah-2 untuk
// sebuah lab. Peran masing-masing penyetuju divalidasi di sini.
func (c *LabController) UpsertApprovalMatrix(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input approvalMatrixInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var lab models.Lab
	if err := c.DB.First(&lab, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lab not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var step1 models.User
	if err := c.DB.First(&step1, input.Step1ApproverID).Error; err != nil ||
		step1.Role != models.RoleDosen {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Penyetuju langkah 1 harus dosen"})
	}
	var step2 models.User
	if err := c.DB.First(&step2, input.Step2ApproverID).Error; err != nil ||
		step2.Role != models.RolePLP {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Penyetuju langkah 2 harus PLP"})
	}

	var matrix models.ApprovalMatrix
	err = c.DB.Where("lab_id = ?", lab.ID).First(&matrix).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	matrix.LabID = lab.ID
	matrix.Step1ApproverID = &input.Step1ApproverID
	matrix.Step2ApproverID = &input.Step2ApproverID
	matrix.IsActive = input.IsActive
	if matrix.ID == 0 {
		matrix.CreatedBy = int(actorID(ctx))
		err = c.DB.Create(&matrix).Error
	} else {
		matrix.UpdatedBy = int(actorID(ctx))
		err = c.DB.Save(&matrix).Error
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Approval matrix saved",
		"data":    matrix,
	})
}

type assignLabInput struct {
	UserID uint `json:"user_id" validate:"required"`
}

// AssignOfficer menugaskan PLP ke lab (relasi user_lab_assignments).
func (c *LabController) AssignOfficer(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input assignLabInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var lab models.Lab
	if err := c.DB.First(&lab, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lab not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := c.DB.First(&user, input.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if user.Role != models.RolePLP {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Hanya PLP yang bisa ditugaskan ke lab"})
	}

	if err := c.DB.Model(&user).Association("Labs").Append(&lab); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Officer assigned to lab",
	})
}
