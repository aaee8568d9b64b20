package models

import (
	"gorm.io/gorm"
)

const (
	RoleMahasiswa = "mahasiswa"
	RoleDosen     = "dosen"
	RolePLP       = "plp"
	RoleAdmin     = "admin"
)

type User struct {
	gorm.Model
	Name     string `json:"name" gorm:"size:100;not null"`
	Email    string `json:"email" gorm:"size:100;uniqueIndex;not null"`
	Password string `json:"-" gorm:"size:255;not null"`
	Role     string `json:"role" gorm:"size:20;not null;default:'mahasiswa'"`
	// Nomor induk (NIM/NIP), opsional
	IdentityNo string `json:"identity_no" gorm:"size:30"`
	IsActive   bool   `json:"is_active" gorm:"default:true"`
	// Penugasan lab untuk PLP
	Labs      []Lab `json:"labs,omitempty" gorm:"many2many:user_lab_assignments;"`
	CreatedBy int
	UpdatedBy int
}

type UserSession struct {
	gorm.Model
	UserID         uint   `json:"user_id" gorm:"index;not null"`
	SessionID      string `json:"session_id" gorm:"size:64;uniqueIndex;not null"`
	IsActive       bool   `json:"is_active" gorm:"default:true"`
	LastActivityAt int64  `json:"last_activity_at"`
}
