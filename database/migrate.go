package database

import (
	"labstock/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserSession{},
		&models.Lab{},
		&models.ApprovalMatrix{},
		&models.ToolModel{},
		&models.ToolAsset{},
		&models.ConsumableItem{},
		&models.StockMovement{},
		&models.BorrowingTransaction{},
		&models.BorrowingItem{},
		&models.BorrowingApproval{},
		&models.BorrowingHandover{},
		&models.BorrowingHandoverLine{},
		&models.BorrowingReturn{},
		&models.BorrowingReturnItem{},
		&models.MaterialRequest{},
		&models.MaterialRequestLine{},
		&models.AuditLog{},
	)
}
