package models

import (
	"gorm.io/gorm"
)

// AuditLog menyimpan satu kejadian audit dengan payload bertipe
// (di-serialize dari struct event, bukan blob bebas).
type AuditLog struct {
	gorm.Model
	EventType     string `json:"event_type" gorm:"size:50;not null;index"`
	ActorID       uint   `json:"actor_id" gorm:"index"`
	ReferenceType string `json:"reference_type" gorm:"size:30"`
	ReferenceID   uint   `json:"reference_id" gorm:"index"`
	Payload       string `json:"payload" gorm:"type:text"`
}
