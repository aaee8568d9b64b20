package repositories

import (
	"errors"
	"fmt"
	"time"

	"labstock/apperr"
	"labstock/models"
	"labstock/utils"

	"gorm.io/gorm"
)

// MaterialRequestRepository adalah alur paralel yang lebih sederhana untuk
// permintaan bahan habis pakai: pending -> approved -> fulfilled, atau
// rejected. Pemenuhan memakai ledger stok yang sama dengan serah terima
// peminjaman.
type MaterialRequestRepository struct {
	db    *gorm.DB
	clock utils.Clock
	auth  *Authorizer
	stock *StockRepository
}

func NewMaterialRequestRepository(db *gorm.DB, clock utils.Clock) *MaterialRequestRepository {
	return &MaterialRequestRepository{
		db:    db,
		clock: clock,
		auth:  NewAuthorizer(db),
		stock: NewStockRepository(db),
	}
}

type MaterialLineInput struct {
	ConsumableItemID uint
	Qty              int
}

type CreateMaterialRequestInput struct {
	LabID       uint
	RequesterID uint
	Purpose     string
	Lines       []MaterialLineInput
}

func (r *MaterialRequestRepository) CreateRequest(input CreateMaterialRequestInput) (*models.MaterialRequest, error) {
	if len(input.Lines) == 0 {
		return nil, apperr.Validationf("permintaan harus memiliki minimal satu baris bahan")
	}
	seen := map[uint]bool{}
	for _, line := range input.Lines {
		if line.Qty <= 0 {
			return nil, apperr.Validationf("jumlah bahan harus lebih dari 0")
		}
		if seen[line.ConsumableItemID] {
			return nil, apperr.Validationf("bahan %d muncul lebih dari satu kali", line.ConsumableItemID)
		}
		seen[line.ConsumableItemID] = true
	}

	var req *models.MaterialRequest
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		req, err = r.createRequestOnce(input)
		if apperr.IsKind(err, apperr.KindConflict) {
			continue
		}
		break
	}
	return req, err
}

func (r *MaterialRequestRepository) createRequestOnce(input CreateMaterialRequestInput) (*models.MaterialRequest, error) {
	var created models.MaterialRequest
	err := r.db.Transaction(func(tx *gorm.DB) error {
		requester, err := r.auth.Authorize(tx, input.RequesterID, ActionCreateMaterialRequest, input.LabID)
		if err != nil {
			return err
		}

		var lab models.Lab
		if err := tx.First(&lab, input.LabID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("lab %d tidak ditemukan", input.LabID)
			}
			return err
		}
		if !lab.IsActive {
			return apperr.Preconditionf("lab %s sedang tidak aktif", lab.Name)
		}

		lines := make([]models.MaterialRequestLine, 0, len(input.Lines))
		for _, line := range input.Lines {
			var item models.ConsumableItem
			if err := tx.First(&item, line.ConsumableItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFoundf("bahan %d tidak ditemukan", line.ConsumableItemID)
				}
				return err
			}
			if item.LabID != input.LabID {
				return apperr.Validationf("bahan %s bukan milik lab %s", item.Code, lab.Code)
			}
			if !item.IsActive {
				return apperr.Preconditionf("bahan %s sudah dinonaktifkan", item.Code)
			}
			lines = append(lines, models.MaterialRequestLine{
				ConsumableItemID: line.ConsumableItemID,
				QtyRequested:     line.Qty,
			})
		}

		var last models.MaterialRequest
		if err := tx.Unscoped().Order("id DESC").First(&last).Error; err != nil &&
			!errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		now := r.clock.Now()

		created = models.MaterialRequest{
			Code:        NextDocumentCode(last.Code, MaterialRequestCodePrefix, now),
			LabID:       input.LabID,
			RequesterID: input.RequesterID,
			Purpose:     input.Purpose,
			Status:      models.MaterialRequestPending,
			RequestedAt: now,
			Lines:       lines,
			CreatedBy:   int(requester.ID),
		}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflictf("kode permintaan bentrok, coba ulang")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Approve menyetujui permintaan pending. Persetujuan tunggal, aktor
// dibatasi lab lewat Authorizer (PLP hanya lab penugasannya).
func (r *MaterialRequestRepository) Approve(code string, actorID uint, note string) (*models.MaterialRequest, error) {
	return r.decide(code, actorID, note, models.MaterialRequestApproved)
}

func (r *MaterialRequestRepository) Reject(code string, actorID uint, note string) (*models.MaterialRequest, error) {
	return r.decide(code, actorID, note, models.MaterialRequestRejected)
}

func (r *MaterialRequestRepository) decide(code string, actorID uint, note, newStatus string) (*models.MaterialRequest, error) {
	var result *models.MaterialRequest
	err := r.db.Transaction(func(tx *gorm.DB) error {
		req, err := findMaterialRequestByCode(tx, code)
		if err != nil {
			return err
		}
		// Pending boleh disetujui/ditolak; approved masih boleh ditolak
		// sebelum dipenuhi.
		allowed := req.Status == models.MaterialRequestPending ||
			(req.Status == models.MaterialRequestApproved && newStatus == models.MaterialRequestRejected)
		if !allowed {
			return apperr.Preconditionf("permintaan %s tidak bisa diputuskan (status %s)", code, req.Status)
		}

		approver, err := r.auth.Authorize(tx, actorID, ActionDecideMaterialRequest, req.LabID)
		if err != nil {
			return err
		}

		now := r.clock.Now()
		updates := map[string]interface{}{
			"status":     newStatus,
			"updated_by": int(actorID),
		}
		fromStatuses := []string{models.MaterialRequestPending}
		if newStatus == models.MaterialRequestApproved {
			updates["approved_by"] = actorID
			updates["approved_at"] = now
		} else {
			reason := note
			if reason == "" {
				reason = fmt.Sprintf("Ditolak oleh %s", approver.Name)
			}
			updates["rejection_reason"] = reason
			fromStatuses = append(fromStatuses, models.MaterialRequestApproved)
		}

		res := tx.Model(&models.MaterialRequest{}).
			Where("id = ? AND status IN ?", req.ID, fromStatuses).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("status permintaan %s berubah, muat ulang", code)
		}

		utils.WriteAudit(tx, actorID, "material_request", req.ID, utils.MaterialRequestDecided{
			RequestCode: req.Code,
			DecidedBy:   actorID,
			Status:      newStatus,
		})

		result, err = findMaterialRequestByCode(tx, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Fulfill menerbitkan seluruh baris lewat ledger stok. Satu baris kurang
// stok berarti seluruh pemenuhan batal, tidak ada pengurangan parsial.
func (r *MaterialRequestRepository) Fulfill(code string, actorID uint) (*models.MaterialRequest, error) {
	var result *models.MaterialRequest
	err := r.db.Transaction(func(tx *gorm.DB) error {
		req, err := findMaterialRequestByCode(tx, code)
		if err != nil {
			return err
		}
		if req.Status != models.MaterialRequestApproved {
			return apperr.Preconditionf("permintaan %s belum disetujui (status %s)", code, req.Status)
		}

		if _, err := r.auth.Authorize(tx, actorID, ActionFulfillMaterialRequest, req.LabID); err != nil {
			return err
		}

		for _, line := range req.Lines {
			mv, err := r.stock.RecordMovement(tx, line.ConsumableItemID, -line.QtyRequested,
				models.MovementMaterialRequestFulfill, actorID, "material_request", req.Code, "")
			if err != nil {
				return err
			}
			if err := tx.Model(&models.MaterialRequestLine{}).
				Where("id = ?", line.ID).
				Update("qty_fulfilled", mv.QtyDelta*-1).Error; err != nil {
				return err
			}
		}

		now := r.clock.Now()
		res := tx.Model(&models.MaterialRequest{}).
			Where("id = ? AND status = ?", req.ID, models.MaterialRequestApproved).
			Updates(map[string]interface{}{
				"status":       models.MaterialRequestFulfilled,
				"fulfilled_by": actorID,
				"fulfilled_at": now,
				"updated_by":   int(actorID),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("permintaan %s sudah diproses", code)
		}

		utils.WriteAudit(tx, actorID, "material_request", req.ID, utils.MaterialRequestFulfilled{
			RequestCode: req.Code,
			FulfilledBy: actorID,
			TotalLines:  len(req.Lines),
		})

		result, err = findMaterialRequestByCode(tx, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func findMaterialRequestByCode(tx *gorm.DB, code string) (*models.MaterialRequest, error) {
	var req models.MaterialRequest
	err := tx.Preload("Lines").Where("code = ?", code).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("permintaan %s tidak ditemukan", code)
		}
		return nil, err
	}
	return &req, nil
}

// GetByCode memuat permintaan lengkap untuk halaman detail.
func (r *MaterialRequestRepository) GetByCode(code string) (*models.MaterialRequest, error) {
	var req models.MaterialRequest
	err := r.db.Preload("Lab").
		Preload("Requester").
		Preload("Lines.ConsumableItem").
		Where("code = ?", code).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("permintaan %s tidak ditemukan", code)
		}
		return nil, err
	}
	return &req, nil
}

type MaterialRequestListRow struct {
	ID            uint      `json:"id"`
	Code          string    `json:"code"`
	LabName       string    `json:"lab_name"`
	RequesterName string    `json:"requester_name"`
	Status        string    `json:"status"`
	Purpose       string    `json:"purpose"`
	RequestedAt   time.Time `json:"requested_at"`
	TotalLines    int       `json:"total_lines"`
	TotalQty      int       `json:"total_qty"`
}

func (r *MaterialRequestRepository) List(status string, labID, requesterID uint) ([]MaterialRequestListRow, error) {
	sql := `WITH line_counts AS (
				SELECT request_id, COUNT(*) AS total_lines, SUM(qty_requested) AS total_qty
				FROM material_request_lines GROUP BY request_id
			)
			SELECT a.id, a.code, b.name AS lab_name, c.name AS requester_name,
			a.status, a.purpose, a.requested_at,
			COALESCE(d.total_lines, 0) AS total_lines,
			COALESCE(d.total_qty, 0) AS total_qty
			FROM material_requests a
			LEFT JOIN labs b ON a.lab_id = b.id
			LEFT JOIN users c ON a.requester_id = c.id
			LEFT JOIN line_counts d ON a.id = d.request_id
			WHERE a.deleted_at IS NULL`

	args := []interface{}{}
	if status != "" {
		sql += " AND a.status = ?"
		args = append(args, status)
	}
	if labID != 0 {
		sql += " AND a.lab_id = ?"
		args = append(args, labID)
	}
	if requesterID != 0 {
		sql += " AND a.requester_id = ?"
		args = append(args, requesterID)
	}
	sql += " ORDER BY a.created_at DESC"

	var rows []MaterialRequestListRow
	if err := r.db.Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
