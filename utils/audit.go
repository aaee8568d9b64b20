package utils

import (
	"encoding/json"
	"log"

	"labstock/models"

	"gorm.io/gorm"
)

// AuditEvent adalah union bertipe dari payload kejadian audit yang dikenal.
// Setiap transisi engine menulis satu event dengan bentuk payload tetap.
type AuditEvent interface {
	EventType() string
}

type BorrowingRequested struct {
	TransactionCode string `json:"transaction_code"`
	LabID           uint   `json:"lab_id"`
	RequesterID     uint   `json:"requester_id"`
	TotalItems      int    `json:"total_items"`
}

func (BorrowingRequested) EventType() string { return "borrowing.requested" }

type ApprovalGranted struct {
	TransactionCode string `json:"transaction_code"`
	ApproverID      uint   `json:"approver_id"`
	ApproverRole    string `json:"approver_role"`
	FullyApproved   bool   `json:"fully_approved"`
}

func (ApprovalGranted) EventType() string { return "borrowing.approved" }

type BorrowingRejected struct {
	TransactionCode string `json:"transaction_code"`
	ApproverID      uint   `json:"approver_id"`
	Reason          string `json:"reason"`
}

func (BorrowingRejected) EventType() string { return "borrowing.rejected" }

type BorrowingCancelled struct {
	TransactionCode string `json:"transaction_code"`
	CancelledBy     uint   `json:"cancelled_by"`
}

func (BorrowingCancelled) EventType() string { return "borrowing.cancelled" }

type HandoverIssued struct {
	TransactionCode string `json:"transaction_code"`
	HandedOverBy    uint   `json:"handed_over_by"`
	DueDate         string `json:"due_date"`
	AssetCount      int    `json:"asset_count"`
	ConsumableLines int    `json:"consumable_lines"`
}

func (HandoverIssued) EventType() string { return "borrowing.handover" }

type ToolReturned struct {
	TransactionCode string `json:"transaction_code"`
	AssetID         uint   `json:"asset_id"`
	Condition       string `json:"condition"`
	StatusAfter     string `json:"status_after"`
}

func (ToolReturned) EventType() string { return "borrowing.returned" }

type StockAdjusted struct {
	ConsumableItemID uint   `json:"consumable_item_id"`
	MovementType     string `json:"movement_type"`
	QtyDelta         int    `json:"qty_delta"`
	QtyAfter         int    `json:"qty_after"`
}

func (StockAdjusted) EventType() string { return "stock.adjusted" }

type MaterialRequestDecided struct {
	RequestCode string `json:"request_code"`
	DecidedBy   uint   `json:"decided_by"`
	Status      string `json:"status"`
}

func (MaterialRequestDecided) EventType() string { return "material_request.decided" }

type MaterialRequestFulfilled struct {
	RequestCode string `json:"request_code"`
	FulfilledBy uint   `json:"fulfilled_by"`
	TotalLines  int    `json:"total_lines"`
}

func (MaterialRequestFulfilled) EventType() string { return "material_request.fulfilled" }

// WriteAudit menulis satu baris audit_logs dalam tx pemanggil.
func WriteAudit(tx *gorm.DB, actorID uint, refType string, refID uint, ev AuditEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Println("Warning: failed to marshal audit payload:", err)
		return
	}
	row := models.AuditLog{
		EventType:     ev.EventType(),
		ActorID:       actorID,
		ReferenceType: refType,
		ReferenceID:   refID,
		Payload:       string(payload),
	}
	if err := tx.Create(&row).Error; err != nil {
		log.Println("Warning: failed to write audit log:", err)
	}
}
