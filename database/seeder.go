package database

import (
	"log"

	"labstock/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin membuat akun admin pertama jika belum ada user sama sekali.
func SeedAdmin(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		log.Println("Warning: failed to count users:", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Println("Warning: failed to hash admin password:", err)
		return
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    "admin@labstock.local",
		Password: string(hash),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Println("Warning: failed to seed admin user:", err)
		return
	}
	log.Println("Seeded default admin user: admin@labstock.local")
}
