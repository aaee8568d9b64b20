package models

import (
	"gorm.io/gorm"
)

const (
	AssetStatusAvailable   = "available"
	AssetStatusBorrowed    = "borrowed"
	AssetStatusMaintenance = "maintenance"
	AssetStatusDamaged     = "damaged"
	AssetStatusInactive    = "inactive"
)

const (
	ConditionBaik        = "baik"
	ConditionMaintenance = "maintenance"
	ConditionDamaged     = "damaged"
)

// ToolModel adalah entri katalog alat milik sebuah lab.
type ToolModel struct {
	gorm.Model
	LabID     uint        `json:"lab_id" gorm:"index;not null"`
	Lab       Lab         `json:"lab,omitempty"`
	Code      string      `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name      string      `json:"name" gorm:"size:100;not null"`
	Category  string      `json:"category" gorm:"size:50"`
	Assets    []ToolAsset `json:"assets,omitempty"`
	CreatedBy int
	UpdatedBy int
}

// ToolAsset adalah satu unit fisik dari ToolModel. Kolom status adalah
// satu-satunya sumber kebenaran ketersediaan unit.
type ToolAsset struct {
	gorm.Model
	ToolModelID uint      `json:"tool_model_id" gorm:"index;not null"`
	ToolModel   ToolModel `json:"tool_model,omitempty"`
	AssetCode   string    `json:"asset_code" gorm:"size:50;uniqueIndex;not null"`
	QrCode      string    `json:"qr_code" gorm:"size:50;uniqueIndex"`
	Status      string    `json:"status" gorm:"size:20;not null;default:'available'"`
	Condition   string    `json:"condition" gorm:"size:20;not null;default:'baik'"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedBy   int
	UpdatedBy   int
}

// StatusForCondition memetakan kondisi alat saat pengembalian ke status unit.
func StatusForCondition(condition string) string {
	switch condition {
	case ConditionBaik:
		return AssetStatusAvailable
	case ConditionMaintenance:
		return AssetStatusMaintenance
	case ConditionDamaged:
		return AssetStatusDamaged
	}
	return ""
}
