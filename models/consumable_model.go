package models

import (
	"gorm.io/gorm"
)

const (
	MovementStockIn                = "stock_in"
	MovementMaterialRequestFulfill = "material_request_fulfill"
	MovementBorrowingHandoverIssue = "borrowing_handover_issue"
	MovementManualAdjustment       = "manual_adjustment"
)

type ConsumableItem struct {
	gorm.Model
	LabID       uint   `json:"lab_id" gorm:"index;not null"`
	Lab         Lab    `json:"lab,omitempty"`
	Code        string `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name        string `json:"name" gorm:"size:100;not null"`
	Unit        string `json:"unit" gorm:"size:20;not null;default:'pcs'"`
	StockQty    int    `json:"stock_qty" gorm:"not null;default:0"`
	MinStockQty int    `json:"min_stock_qty" gorm:"not null;default:0"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
	CreatedBy   int
	UpdatedBy   int
}

// StockMovement adalah baris ledger yang tidak pernah diubah atau dihapus.
// Setiap perubahan StockQty menghasilkan tepat satu baris dengan
// qty_after - qty_before == qty_delta.
type StockMovement struct {
	gorm.Model
	ConsumableItemID uint           `json:"consumable_item_id" gorm:"index;not null"`
	ConsumableItem   ConsumableItem `json:"consumable_item,omitempty"`
	MovementType     string         `json:"movement_type" gorm:"size:40;not null"`
	QtyDelta         int            `json:"qty_delta" gorm:"not null"`
	QtyBefore        int            `json:"qty_before" gorm:"not null"`
	QtyAfter         int            `json:"qty_after" gorm:"not null"`
	// Token referensi unik per pergerakan (snowflake base58)
	MovementRef string `json:"movement_ref" gorm:"size:30;uniqueIndex"`
	// Dokumen asal pergerakan, misal kode transaksi peminjaman
	ReferenceType string `json:"reference_type" gorm:"size:30"`
	ReferenceCode string `json:"reference_code" gorm:"size:30;index"`
	Remarks       string `json:"remarks" gorm:"size:255"`
	CreatedBy     int
}
