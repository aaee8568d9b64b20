package controllers

import (
	"errors"

	"labstock/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var knownRoles = []string{
	models.RoleMahasiswa,
	models.RoleDosen,
	models.RolePLP,
	models.RoleAdmin,
}

type UserController struct {
	DB *gorm.DB
}

func NewUserController(DB *gorm.DB) *UserController {
	return &UserController{DB: DB}
}

// requireAdmin: pengelolaan akun hanya oleh admin.
func requireAdmin(ctx *fiber.Ctx) bool {
	role, _ := ctx.Locals("role").(string)
	return role == models.RoleAdmin
}

type createUserInput struct {
	Name       string `json:"name" validate:"required,min=3"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required"`
	IdentityNo string `json:"identity_no"`
}

func (c *UserController) CreateUser(ctx *fiber.Ctx) error {
	if !requireAdmin(ctx) {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Hanya admin yang dapat mengelola akun"})
	}

	var input createUserInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !slices.Contains(knownRoles, input.Role) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Peran tidak dikenal"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	user := models.User{
		Name:       input.Name,
		Email:      input.Email,
		Password:   string(hash),
		Role:       input.Role,
		IdentityNo: input.IdentityNo,
		IsActive:   true,
		CreatedBy:  int(actorID(ctx)),
	}
	if err := c.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email sudah terdaftar"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"data":    user,
	})
}

func (c *UserController) GetAllUsers(ctx *fiber.Ctx) error {
	if !requireAdmin(ctx) {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Hanya admin yang dapat mengelola akun"})
	}

	query := c.DB.Preload("Labs")
	if role := ctx.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Order("name ASC").Find(&users).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": users})
}

func (c *UserController) DeactivateUser(ctx *fiber.Ctx) error {
	if !requireAdmin(ctx) {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Hanya admin yang dapat mengelola akun"})
	}

	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}
	if uint(id) == actorID(ctx) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Tidak bisa menonaktifkan akun sendiri"})
	}

	res := c.DB.Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_by": int(actorID(ctx)),
		})
	if res.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "User deactivated"})
}
