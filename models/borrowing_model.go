package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BorrowingStatusSubmitted               = "submitted"
	BorrowingStatusPendingApproval         = "pending_approval"
	BorrowingStatusApprovedWaitingHandover = "approved_waiting_handover"
	BorrowingStatusActive                  = "active"
	BorrowingStatusPartiallyReturned       = "partially_returned"
	BorrowingStatusCompleted               = "completed"
	BorrowingStatusRejected                = "rejected"
	BorrowingStatusCancelled               = "cancelled"
	// Status tampilan turunan, tidak pernah disimpan ke kolom status
	BorrowingStatusOverdue = "overdue"
)

const (
	ItemTypeToolAsset  = "tool_asset"
	ItemTypeConsumable = "consumable"
)

const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// BorrowingTransaction adalah aggregate root satu pengajuan peminjaman.
type BorrowingTransaction struct {
	gorm.Model
	Code            string     `json:"code" gorm:"size:30;uniqueIndex;not null"`
	LabID           uint       `json:"lab_id" gorm:"index;not null"`
	Lab             Lab        `json:"lab,omitempty"`
	RequesterID     uint       `json:"requester_id" gorm:"index;not null"`
	Requester       User       `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Purpose         string     `json:"purpose" gorm:"size:255"`
	CourseName      string     `json:"course_name" gorm:"size:100"`
	CourseCode      string     `json:"course_code" gorm:"size:30"`
	Status          string     `json:"status" gorm:"size:30;not null;index"`
	RequestedAt     time.Time  `json:"requested_at"`
	ApprovedAt      *time.Time `json:"approved_at"`
	HandedOverAt    *time.Time `json:"handed_over_at"`
	DueDate         *time.Time `json:"due_date"`
	RejectionReason string     `json:"rejection_reason" gorm:"size:255"`

	Items     []BorrowingItem     `json:"items,omitempty" gorm:"foreignKey:TransactionID"`
	Approvals []BorrowingApproval `json:"approvals,omitempty" gorm:"foreignKey:TransactionID"`
	Handover  *BorrowingHandover  `json:"handover,omitempty" gorm:"foreignKey:TransactionID"`
	Returns   []BorrowingReturn   `json:"returns,omitempty" gorm:"foreignKey:TransactionID"`

	CreatedBy int
	UpdatedBy int
}

// DisplayStatus menghitung status tampilan: overdue murni turunan dari
// due_date, tidak pernah menjadi status tersimpan.
func (t *BorrowingTransaction) DisplayStatus(now time.Time) string {
	if t.DueDate != nil && t.DueDate.Before(now) &&
		(t.Status == BorrowingStatusActive || t.Status == BorrowingStatusPartiallyReturned) {
		return BorrowingStatusOverdue
	}
	return t.Status
}

// BorrowingItem adalah satu baris pengajuan: satu unit alat, atau satu
// bahan habis pakai dengan jumlah diminta. Tidak berubah setelah dibuat
// kecuali flag returned untuk baris alat.
type BorrowingItem struct {
	gorm.Model
	TransactionID    uint            `json:"transaction_id" gorm:"index;not null;uniqueIndex:uniq_trx_asset"`
	ItemType         string          `json:"item_type" gorm:"size:20;not null"`
	ToolAssetID      *uint           `json:"tool_asset_id" gorm:"uniqueIndex:uniq_trx_asset"`
	ToolAsset        *ToolAsset      `json:"tool_asset,omitempty"`
	ConsumableItemID *uint           `json:"consumable_item_id"`
	ConsumableItem   *ConsumableItem `json:"consumable_item,omitempty"`
	QtyRequested     int             `json:"qty_requested" gorm:"not null;default:1"`
	IsReturned       bool            `json:"is_returned" gorm:"default:false"`
}

// BorrowingApproval menyimpan satu keputusan penyetuju. Unik per
// (transaksi, penyetuju): submit ganda serentak harus gagal di constraint,
// bukan lolos diam-diam.
type BorrowingApproval struct {
	gorm.Model
	TransactionID uint   `json:"transaction_id" gorm:"not null;uniqueIndex:uniq_trx_approver"`
	ApproverID    uint   `json:"approver_id" gorm:"not null;uniqueIndex:uniq_trx_approver"`
	Approver      User   `json:"approver,omitempty" gorm:"foreignKey:ApproverID"`
	ApproverRole  string `json:"approver_role" gorm:"size:20;not null"`
	Decision      string `json:"decision" gorm:"size:20;not null"`
	Note          string `json:"note" gorm:"size:255"`
}

// BorrowingHandover mencatat serah terima tunggal per transaksi.
type BorrowingHandover struct {
	gorm.Model
	TransactionID uint                    `json:"transaction_id" gorm:"uniqueIndex;not null"`
	HandedOverBy  uint                    `json:"handed_over_by" gorm:"not null"`
	HandedOverAt  time.Time               `json:"handed_over_at"`
	DueDate       time.Time               `json:"due_date"`
	Note          string                  `json:"note" gorm:"size:255"`
	Lines         []BorrowingHandoverLine `json:"lines,omitempty" gorm:"foreignKey:HandoverID"`
}

// BorrowingHandoverLine: satu baris bahan yang diterbitkan saat serah
// terima. Unik per baris transaksi supaya bahan tidak terbit dua kali.
type BorrowingHandoverLine struct {
	gorm.Model
	HandoverID       uint `json:"handover_id" gorm:"index;not null"`
	BorrowingItemID  uint `json:"borrowing_item_id" gorm:"uniqueIndex;not null"`
	ConsumableItemID uint `json:"consumable_item_id" gorm:"not null"`
	QtyIssued        int  `json:"qty_issued" gorm:"not null"`
	StockMovementID  uint `json:"stock_movement_id"`
}

// BorrowingReturn mengelompokkan satu batch pengembalian alat.
type BorrowingReturn struct {
	gorm.Model
	TransactionID uint                  `json:"transaction_id" gorm:"index;not null"`
	ReturnedTo    uint                  `json:"returned_to" gorm:"not null"`
	ReturnedAt    time.Time             `json:"returned_at"`
	Note          string                `json:"note" gorm:"size:255"`
	Items         []BorrowingReturnItem `json:"items,omitempty" gorm:"foreignKey:ReturnID"`
}

// BorrowingReturnItem: unik per baris transaksi, alat tidak bisa
// dikembalikan dua kali.
type BorrowingReturnItem struct {
	gorm.Model
	ReturnID        uint   `json:"return_id" gorm:"index;not null"`
	BorrowingItemID uint   `json:"borrowing_item_id" gorm:"uniqueIndex;not null"`
	ToolAssetID     uint   `json:"tool_asset_id" gorm:"not null"`
	Condition       string `json:"condition" gorm:"size:20;not null"`
}
