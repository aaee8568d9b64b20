package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MaterialRequestPending   = "pending"
	MaterialRequestApproved  = "approved"
	MaterialRequestFulfilled = "fulfilled"
	MaterialRequestRejected  = "rejected"
)

// MaterialRequest: alur paralel yang lebih sederhana khusus bahan habis
// pakai, pending -> approved -> fulfilled, atau rejected.
type MaterialRequest struct {
	gorm.Model
	Code            string     `json:"code" gorm:"size:30;uniqueIndex;not null"`
	LabID           uint       `json:"lab_id" gorm:"index;not null"`
	Lab             Lab        `json:"lab,omitempty"`
	RequesterID     uint       `json:"requester_id" gorm:"index;not null"`
	Requester       User       `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Purpose         string     `json:"purpose" gorm:"size:255"`
	Status          string     `json:"status" gorm:"size:20;not null;index"`
	RequestedAt     time.Time  `json:"requested_at"`
	ApprovedBy      *uint      `json:"approved_by"`
	ApprovedAt      *time.Time `json:"approved_at"`
	FulfilledBy     *uint      `json:"fulfilled_by"`
	FulfilledAt     *time.Time `json:"fulfilled_at"`
	RejectionReason string     `json:"rejection_reason" gorm:"size:255"`

	Lines []MaterialRequestLine `json:"lines,omitempty" gorm:"foreignKey:RequestID"`

	CreatedBy int
	UpdatedBy int
}

type MaterialRequestLine struct {
	gorm.Model
	RequestID        uint           `json:"request_id" gorm:"index;not null"`
	ConsumableItemID uint           `json:"consumable_item_id" gorm:"not null"`
	ConsumableItem   ConsumableItem `json:"consumable_item,omitempty"`
	QtyRequested     int            `json:"qty_requested" gorm:"not null"`
	QtyFulfilled     int            `json:"qty_fulfilled" gorm:"not null;default:0"`
}
