package repositories

import (
	"errors"
	"fmt"
	"time"

	"labstock/apperr"
	"labstock/models"
	"labstock/utils"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Status yang masih menerima keputusan penyetuju
var decidableStatuses = []string{
	models.BorrowingStatusSubmitted,
	models.BorrowingStatusPendingApproval,
}

// Status yang masih menerima pengembalian alat
var returnableStatuses = []string{
	models.BorrowingStatusActive,
	models.BorrowingStatusPartiallyReturned,
}

// BorrowingRepository adalah mesin transaksi peminjaman: intake pengajuan,
// pencatatan persetujuan, serah terima, dan pengembalian. Semua transisi
// berjalan sebagai satu gorm.Transaction dengan guard UPDATE bersyarat;
// RowsAffected == 0 adalah sinyal kalah balapan.
type BorrowingRepository struct {
	db    *gorm.DB
	clock utils.Clock
	loc   *time.Location
	auth  *Authorizer
	stock *StockRepository
}

func NewBorrowingRepository(db *gorm.DB, clock utils.Clock, loc *time.Location) *BorrowingRepository {
	return &BorrowingRepository{
		db:    db,
		clock: clock,
		loc:   loc,
		auth:  NewAuthorizer(db),
		stock: NewStockRepository(db),
	}
}

type ConsumableLineInput struct {
	ConsumableItemID uint
	Qty              int
}

type CreateBorrowingInput struct {
	LabID        uint
	RequesterID  uint
	Purpose      string
	CourseName   string
	CourseCode   string
	ToolAssetIDs []uint
	Consumables  []ConsumableLineInput
}

type ReturnLineInput struct {
	BorrowingItemID uint
	Condition       string
}

// CreateRequest memvalidasi seluruh prasyarat lalu menyisipkan header dan
// baris secara atomik. Bentrok kode dokumen dicoba ulang dengan kode baru.
func (r *BorrowingRepository) CreateRequest(input CreateBorrowingInput) (*models.BorrowingTransaction, error) {
	if len(input.ToolAssetIDs) == 0 && len(input.Consumables) == 0 {
		return nil, apperr.Validationf("pengajuan harus memiliki minimal satu baris item")
	}
	seenAssets := map[uint]bool{}
	for _, id := range input.ToolAssetIDs {
		if seenAssets[id] {
			return nil, apperr.Validationf("unit alat %d muncul lebih dari satu kali", id)
		}
		seenAssets[id] = true
	}
	seenItems := map[uint]bool{}
	for _, line := range input.Consumables {
		if line.Qty <= 0 {
			return nil, apperr.Validationf("jumlah bahan harus lebih dari 0")
		}
		if seenItems[line.ConsumableItemID] {
			return nil, apperr.Validationf("bahan %d muncul lebih dari satu kali", line.ConsumableItemID)
		}
		seenItems[line.ConsumableItemID] = true
	}

	var trx *models.BorrowingTransaction
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		trx, err = r.createRequestOnce(input)
		if apperr.IsKind(err, apperr.KindConflict) {
			continue
		}
		break
	}
	return trx, err
}

func (r *BorrowingRepository) createRequestOnce(input CreateBorrowingInput) (*models.BorrowingTransaction, error) {
	var created models.BorrowingTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		requester, err := r.auth.Authorize(tx, input.RequesterID, ActionCreateBorrowing, input.LabID)
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

		var matrix models.ApprovalMatrix
		if err := tx.Where("lab_id = ?", input.LabID).First(&matrix).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Preconditionf("matriks persetujuan lab %s belum dikonfigurasi", lab.Name)
			}
			return err
		}
		if !matrix.IsReady() {
			return apperr.Preconditionf("matriks persetujuan lab %s belum lengkap", lab.Name)
		}

		items := make([]models.BorrowingItem, 0, len(input.ToolAssetIDs)+len(input.Consumables))

		for _, assetID := range input.ToolAssetIDs {
			var asset models.ToolAsset
			if err := tx.Preload("ToolModel").First(&asset, assetID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFoundf("unit alat %d tidak ditemukan", assetID)
				}
				return err
			}
			if asset.ToolModel.LabID != input.LabID {
				return apperr.Validationf("unit alat %s bukan milik lab %s", asset.AssetCode, lab.Code)
			}
			if !asset.IsActive || asset.Status != models.AssetStatusAvailable {
				return apperr.Preconditionf("unit alat %s tidak tersedia (status %s)", asset.AssetCode, asset.Status)
			}
			id := assetID
			items = append(items, models.BorrowingItem{
				ItemType:     models.ItemTypeToolAsset,
				ToolAssetID:  &id,
				QtyRequested: 1,
			})
		}

		for _, line := range input.Consumables {
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
			id := line.ConsumableItemID
			items = append(items, models.BorrowingItem{
				ItemType:         models.ItemTypeConsumable,
				ConsumableItemID: &id,
				QtyRequested:     line.Qty,
			})
		}

		var last models.BorrowingTransaction
		if err := tx.Unscoped().Order("id DESC").First(&last).Error; err != nil &&
			!errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		now := r.clock.Now()

		created = models.BorrowingTransaction{
			Code:        NextDocumentCode(last.Code, BorrowingCodePrefix, now),
			LabID:       input.LabID,
			RequesterID: input.RequesterID,
			Purpose:     input.Purpose,
			CourseName:  input.CourseName,
			CourseCode:  input.CourseCode,
			Status:      models.BorrowingStatusPendingApproval,
			RequestedAt: now,
			Items:       items,
			CreatedBy:   int(requester.ID),
		}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflictf("kode transaksi bentrok, coba ulang")
			}
			return err
		}

		utils.WriteAudit(tx, requester.ID, "borrowing", created.ID, utils.BorrowingRequested{
			TransactionCode: created.Code,
			LabID:           created.LabID,
			RequesterID:     created.RequesterID,
			TotalItems:      len(items),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Approve mencatat satu persetujuan. Uniqueness (transaksi, penyetuju)
// dijaga constraint: submit ganda serentak kalah dengan ConflictError.
// Kenaikan status dilakukan dengan UPDATE bersyarat, bukan baca-lalu-tulis.
func (r *BorrowingRepository) Approve(code string, actorID uint, note string) (*models.BorrowingTransaction, error) {
	var result *models.BorrowingTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		trx, err := findTransactionByCode(tx, code)
		if err != nil {
			return err
		}
		if !slices.Contains(decidableStatuses, trx.Status) {
			return apperr.Preconditionf("transaksi %s tidak menunggu persetujuan (status %s)", code, trx.Status)
		}

		approver, err := r.auth.Authorize(tx, actorID, ActionDecideBorrowing, trx.LabID)
		if err != nil {
			return err
		}

		approval := models.BorrowingApproval{
			TransactionID: trx.ID,
			ApproverID:    actorID,
			ApproverRole:  approver.Role,
			Decision:      models.DecisionApproved,
			Note:          note,
		}
		if err := tx.Create(&approval).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflictf("%s sudah memberikan keputusan untuk %s", approver.Name, code)
			}
			return err
		}

		// Dua penyetuju berbarengan harus antre pada baris transaksi
		// sebelum menghitung: tanpa ini keduanya bisa menghitung sebelum
		// commit lawannya dan sama-sama berhenti di satu peran.
		if err := lockTransactionRow(tx, trx.ID); err != nil {
			return err
		}

		fully, err := r.isFullyApproved(tx, trx.ID)
		if err != nil {
			return err
		}
		if fully {
			now := r.clock.Now()
			res := tx.Model(&models.BorrowingTransaction{}).
				Where("id = ? AND status IN ?", trx.ID, decidableStatuses).
				Updates(map[string]interface{}{
					"status":      models.BorrowingStatusApprovedWaitingHandover,
					"approved_at": now,
					"updated_by":  int(actorID),
				})
			if res.Error != nil {
				return res.Error
			}
			// RowsAffected 0 berarti pemenang lain sudah memajukan status
		}

		utils.WriteAudit(tx, actorID, "borrowing", trx.ID, utils.ApprovalGranted{
			TransactionCode: trx.Code,
			ApproverID:      actorID,
			ApproverRole:    approver.Role,
			FullyApproved:   fully,
		})

		result, err = findTransactionByCode(tx, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reject menolak pengajuan: terminal, tidak ada transisi lanjutan.
func (r *BorrowingRepository) Reject(code string, actorID uint, note string) (*models.BorrowingTransaction, error) {
	var result *models.BorrowingTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		trx, err := findTransactionByCode(tx, code)
		if err != nil {
			return err
		}
		if !slices.Contains(decidableStatuses, trx.Status) {
			return apperr.Preconditionf("transaksi %s tidak menunggu persetujuan (status %s)", code, trx.Status)
		}

		approver, err := r.auth.Authorize(tx, actorID, ActionDecideBorrowing, trx.LabID)
		if err != nil {
			return err
		}

		approval := models.BorrowingApproval{
			TransactionID: trx.ID,
			ApproverID:    actorID,
			ApproverRole:  approver.Role,
			Decision:      models.DecisionRejected,
			Note:          note,
		}
		if err := tx.Create(&approval).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflictf("%s sudah memberikan keputusan untuk %s", approver.Name, code)
			}
			return err
		}

		reason := note
		if reason == "" {
			reason = fmt.Sprintf("Ditolak oleh %s", approver.Name)
		}

		res := tx.Model(&models.BorrowingTransaction{}).
			Where("id = ? AND status IN ?", trx.ID, decidableStatuses).
			Updates(map[string]interface{}{
				"status":           models.BorrowingStatusRejected,
				"rejection_reason": reason,
				"updated_by":       int(actorID),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Preconditionf("status transaksi %s sudah berubah", code)
		}

		utils.WriteAudit(tx, actorID, "borrowing", trx.ID, utils.BorrowingRejected{
			TransactionCode: trx.Code,
			ApproverID:      actorID,
			Reason:          reason,
		})

		result, err = findTransactionByCode(tx, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel membatalkan pengajuan oleh pengaju sendiri (atau admin) selama
// belum ada serah terima.
func (r *BorrowingRepository) Cancel(code string, actorID uint) (*models.BorrowingTransaction, error) {
	cancellable := []string{
		models.BorrowingStatusSubmitted,
		models.BorrowingStatusPendingApproval,
		models.BorrowingStatusApprovedWaitingHandover,
	}

	var result *models.BorrowingTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		trx, err := findTransactionByCode(tx, code)
		if err != nil {
			return err
		}

		var actor models.User
		if err := tx.First(&actor, actorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("user %d tidak ditemukan", actorID)
			}
			return err
		}
		if trx.RequesterID != actorID && actor.Role != models.RoleAdmin {
			return apperr.Authorizationf("hanya pengaju yang dapat membatalkan %s", code)
		}

		if !slices.Contains(cancellable, trx.Status) {
			return apperr.Preconditionf("transaksi %s tidak dapat dibatalkan (status %s)", code, trx.Status)
		}

		res := tx.Model(&models.BorrowingTransaction{}).
			Where("id = ? AND status IN ?", trx.ID, cancellable).
			Updates(map[string]interface{}{
				"status":     models.BorrowingStatusCancelled,
				"updated_by": int(actorID),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Preconditionf("status transaksi %s sudah berubah", code)
		}

		utils.WriteAudit(tx, actorID, "borrowing", trx.ID, utils.BorrowingCancelled{
			TransactionCode: trx.Code,
			CancelledBy:     actorID,
		})

		result, err = findTransactionByCode(tx, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Handover mencatat serah terima: semua unit alat dikunci ke status
// borrowed, semua baris bahan diterbitkan lewat ledger, status transaksi
// menjadi active. Kegagalan prasyarat mana pun membatalkan seluruhnya,
// tidak ada pengurangan stok atau perubahan status unit yang parsial.
func (r *BorrowingRepository) Handover(code string, actorID uint, dueDateStr, note string) (*models.BorrowingTransaction, error) {
	var result *models.BorrowingTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		trx, err := findTransactionByCode(tx, code)
		if err != nil {
			return err
		}
		if trx.Status != models.BorrowingStatusApprovedWaitingHandover {
			return apperr.Preconditionf("transaksi %s belum siap serah terima (status %s)", code, trx.Status)
		}

		if _, err := r.auth.Authorize(tx, actorID, ActionHandoverBorrowing, trx.LabID); err != nil {
			return err
		}

		// Guard terhadap desync status vs jumlah persetujuan
		fully, err := r.isFullyApproved(tx, trx.ID)
		if err != nil {
			return err
		}
		if !fully {
			return apperr.Preconditionf("persetujuan transaksi %s belum lengkap", code)
		}

		day, err := time.ParseInLocation("2006-01-02", dueDateStr, r.loc)
		if err != nil {
			return apperr.Validationf("format tanggal jatuh tempo tidak valid: %s", dueDateStr)
		}
		now := r.clock.Now()
		due := utils.EndOfDay(day, r.loc)
		if !due.After(now) {
			return apperr.Validationf("tanggal jatuh tempo harus di masa depan")
		}

		handover := models.BorrowingHandover{
			TransactionID: trx.ID,
			HandedOverBy:  actorID,
			HandedOverAt:  now,
			DueDate:       due,
			Note:          note,
		}
		if err := tx.Create(&handover).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflictf("serah terima transaksi %s sudah dicatat", code)
			}
			return err
		}

		assetCount := 0
		lineCount := 0
		for _, item := range trx.Items {
			switch item.ItemType {
			case models.ItemTypeToolAsset:
				var asset models.ToolAsset
				if err := tx.First(&asset, *item.ToolAssetID).Error; err != nil {
					return err
				}
				res := tx.Model(&models.ToolAsset{}).
					Where("id = ? AND status = ?", asset.ID, models.AssetStatusAvailable).
					Updates(map[string]interface{}{
						"status":     models.AssetStatusBorrowed,
						"updated_by": int(actorID),
					})
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return apperr.Preconditionf("unit alat %s tidak lagi tersedia (status %s)", asset.AssetCode, asset.Status)
				}
				assetCount++
			case models.ItemTypeConsumable:
				mv, err := r.stock.RecordMovement(tx, *item.ConsumableItemID, -item.QtyRequested,
					models.MovementBorrowingHandoverIssue, actorID, "borrowing", trx.Code, "")
				if err != nil {
					return err
				}
				line := models.BorrowingHandoverLine{
					HandoverID:       handover.ID,
					BorrowingItemID:  item.ID,
					ConsumableItemID: *item.ConsumableItemID,
					QtyIssued:        item.QtyRequested,
					StockMovementID:  mv.ID,
				}
				if err := tx.Create(&line).Error; err != nil {
					if errors.Is(err, gorm.ErrDuplicatedKey) {
						return apperr.Conflictf("baris bahan %d sudah diterbitkan", item.ID)
					}
					return err
				}
				lineCount++
			}
		}

		res := tx.Model(&models.BorrowingTransaction{}).
			Where("id = ? AND status = ?", trx.ID, models.BorrowingStatusApprovedWaitingHandover).
			Updates(map[string]interface{}{
				"status":         models.BorrowingStatusActive,
				"handed_over_at": now,
				"due_date":       due,
				"updated_by":     int(actorID),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("status transaksi %s berubah saat serah terima", code)
		}

		utils.WriteAudit(tx, actorID, "borrowing", trx.ID, utils.HandoverIssued{
			TransactionCode: trx.Code,
			HandedOverBy:    actorID,
			DueDate:         due.Format("2006-01-02"),
			AssetCount:      assetCount,
			ConsumableLines: lineCount,
		})

		result, err = findTransactionByCode(tx, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReturnToolItems memproses satu batch pengembalian alat. Setiap baris
// hanya bisa dikembalikan sekali (unique constraint); kondisi alat yang
// dilaporkan menentukan status unit selanjutnya.
func (r *BorrowingRepository) ReturnToolItems(code string, actorID uint, lines []ReturnLineInput, note string) (*models.BorrowingTransaction, error) {
	if len(lines) == 0 {
		return nil, apperr.Validationf("batch pengembalian tidak boleh kosong")
	}
	for _, line := range lines {
		if models.StatusForCondition(line.Condition) == "" {
			return nil, apperr.Validationf("kondisi %q tidak dikenal", line.Condition)
		}
	}

	var result *models.BorrowingTransaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		trx, err := findTransactionByCode(tx, code)
		if err != nil {
			return err
		}
		if !slices.Contains(returnableStatuses, trx.Status) {
			return apperr.Preconditionf("transaksi %s tidak sedang berjalan (status %s)", code, trx.Status)
		}

		if _, err := r.auth.Authorize(tx, actorID, ActionReturnBorrowing, trx.LabID); err != nil {
			return err
		}

		now := r.clock.Now()
		ret := models.BorrowingReturn{
			TransactionID: trx.ID,
			ReturnedTo:    actorID,
			ReturnedAt:    now,
			Note:          note,
		}
		if err := tx.Create(&ret).Error; err != nil {
			return err
		}

		for _, line := range lines {
			var item models.BorrowingItem
			if err := tx.Where("id = ? AND transaction_id = ?", line.BorrowingItemID, trx.ID).
				First(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFoundf("baris %d tidak ada pada transaksi %s", line.BorrowingItemID, code)
				}
				return err
			}
			if item.ItemType != models.ItemTypeToolAsset {
				return apperr.Validationf("baris %d adalah bahan habis pakai, tidak dikembalikan", item.ID)
			}

			retItem := models.BorrowingReturnItem{
				ReturnID:        ret.ID,
				BorrowingItemID: item.ID,
				ToolAssetID:     *item.ToolAssetID,
				Condition:       line.Condition,
			}
			if err := tx.Create(&retItem).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperr.Conflictf("baris %d sudah dikembalikan", item.ID)
				}
				return err
			}

			var asset models.ToolAsset
			if err := tx.First(&asset, *item.ToolAssetID).Error; err != nil {
				return err
			}
			newStatus := models.StatusForCondition(line.Condition)
			res := tx.Model(&models.ToolAsset{}).
				Where("id = ? AND status = ?", asset.ID, models.AssetStatusBorrowed).
				Updates(map[string]interface{}{
					"status":     newStatus,
					"condition":  line.Condition,
					"updated_by": int(actorID),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.Preconditionf("unit alat %s tidak berstatus dipinjam", asset.AssetCode)
			}

			if err := tx.Model(&models.BorrowingItem{}).
				Where("id = ?", item.ID).
				Update("is_returned", true).Error; err != nil {
				return err
			}

			utils.WriteAudit(tx, actorID, "borrowing", trx.ID, utils.ToolReturned{
				TransactionCode: trx.Code,
				AssetID:         asset.ID,
				Condition:       line.Condition,
				StatusAfter:     newStatus,
			})
		}

		// Antre pada baris transaksi sebelum menghitung ulang: dua batch
		// pengembalian berbarengan untuk baris berbeda tidak boleh
		// sama-sama melewatkan is_returned milik lawannya.
		if err := lockTransactionRow(tx, trx.ID); err != nil {
			return err
		}

		// Hitung ulang status dalam tx yang sama: semua baris alat kembali
		// berarti completed, sisanya partially_returned.
		var totalTools, returnedTools int64
		if err := tx.Model(&models.BorrowingItem{}).
			Where("transaction_id = ? AND item_type = ?", trx.ID, models.ItemTypeToolAsset).
			Count(&totalTools).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BorrowingItem{}).
			Where("transaction_id = ? AND item_type = ? AND is_returned = ?", trx.ID, models.ItemTypeToolAsset, true).
			Count(&returnedTools).Error; err != nil {
			return err
		}

		newStatus := models.BorrowingStatusPartiallyReturned
		if returnedTools >= totalTools {
			newStatus = models.BorrowingStatusCompleted
		}
		res := tx.Model(&models.BorrowingTransaction{}).
			Where("id = ? AND status IN ?", trx.ID, returnableStatuses).
			Updates(map[string]interface{}{
				"status":     newStatus,
				"updated_by": int(actorID),
			})
		if res.Error != nil {
			return res.Error
		}

		result, err = findTransactionByCode(tx, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lockTransactionRow mengambil row lock transaksi lewat UPDATE tanpa
// perubahan nilai, pengganti SELECT FOR UPDATE yang tidak jalan di semua
// dialek. Penulis berikutnya menunggu di sini sampai pemegang lock commit.
func lockTransactionRow(tx *gorm.DB, trxID uint) error {
	return tx.Model(&models.BorrowingTransaction{}).
		Where("id = ?", trxID).
		Update("updated_by", gorm.Expr("updated_by")).Error
}

// isFullyApproved memeriksa matriks dua langkah pada saat keputusan:
// langkah 1 dipenuhi persetujuan dosen, langkah 2 persetujuan PLP.
// Admin dapat mengisi langkah yang belum terisi.
func (r *BorrowingRepository) isFullyApproved(tx *gorm.DB, trxID uint) (bool, error) {
	type roleCount struct {
		ApproverRole string
		Total        int64
	}
	var rows []roleCount
	err := tx.Model(&models.BorrowingApproval{}).
		Select("approver_role, COUNT(*) as total").
		Where("transaction_id = ? AND decision = ?", trxID, models.DecisionApproved).
		Group("approver_role").
		Scan(&rows).Error
	if err != nil {
		return false, err
	}

	counts := map[string]int64{}
	for _, row := range rows {
		counts[row.ApproverRole] = row.Total
	}

	step1 := counts[models.RoleDosen] > 0
	step2 := counts[models.RolePLP] > 0
	admin := counts[models.RoleAdmin]
	if !step1 && admin > 0 {
		step1 = true
		admin--
	}
	if !step2 && admin > 0 {
		step2 = true
	}
	return step1 && step2, nil
}

func findTransactionByCode(tx *gorm.DB, code string) (*models.BorrowingTransaction, error) {
	var trx models.BorrowingTransaction
	err := tx.Preload("Items").
		Preload("Approvals").
		Where("code = ?", code).
		First(&trx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("transaksi %s tidak ditemukan", code)
		}
		return nil, err
	}
	return &trx, nil
}

// GetByCode memuat transaksi lengkap untuk halaman detail.
func (r *BorrowingRepository) GetByCode(code string) (*models.BorrowingTransaction, error) {
	var trx models.BorrowingTransaction
	err := r.db.Preload("Lab").
		Preload("Requester").
		Preload("Items.ToolAsset").
		Preload("Items.ConsumableItem").
		Preload("Approvals.Approver").
		Preload("Handover.Lines").
		Preload("Returns.Items").
		Where("code = ?", code).
		First(&trx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("transaksi %s tidak ditemukan", code)
		}
		return nil, err
	}
	return &trx, nil
}

type BorrowingFilter struct {
	Status      string
	LabID       uint
	RequesterID uint
}

type BorrowingListRow struct {
	ID            uint       `json:"id"`
	Code          string     `json:"code"`
	LabName       string     `json:"lab_name"`
	RequesterName string     `json:"requester_name"`
	Status        string     `json:"status"`
	DisplayStatus string     `json:"display_status" gorm:"-"`
	Purpose       string     `json:"purpose"`
	RequestedAt   time.Time  `json:"requested_at"`
	DueDate       *time.Time `json:"due_date"`
	TotalItems    int        `json:"total_items"`
	ReturnedItems int        `json:"returned_items"`
}

// List mengembalikan daftar transaksi dengan status tampilan terhitung.
// Filter status "overdue" diterjemahkan ke kondisi turunannya.
func (r *BorrowingRepository) List(filter BorrowingFilter) ([]BorrowingListRow, error) {
	sql := `WITH item_counts AS (
				SELECT transaction_id, COUNT(*) AS total_items
				FROM borrowing_items GROUP BY transaction_id
			),
			returned_counts AS (
				SELECT bi.transaction_id, COUNT(*) AS returned_items
				FROM borrowing_return_items ri
				INNER JOIN borrowing_items bi ON ri.borrowing_item_id = bi.id
				GROUP BY bi.transaction_id
			)
			SELECT a.id, a.code, b.name AS lab_name, c.name AS requester_name,
			a.status, a.purpose, a.requested_at, a.due_date,
			COALESCE(d.total_items, 0) AS total_items,
			COALESCE(e.returned_items, 0) AS returned_items
			FROM borrowing_transactions a
			LEFT JOIN labs b ON a.lab_id = b.id
			LEFT JOIN users c ON a.requester_id = c.id
			LEFT JOIN item_counts d ON a.id = d.transaction_id
			LEFT JOIN returned_counts e ON a.id = e.transaction_id
			WHERE a.deleted_at IS NULL`

	now := r.clock.Now()
	args := []interface{}{}
	switch filter.Status {
	case "":
	case models.BorrowingStatusOverdue:
		sql += " AND a.status IN ? AND a.due_date < ?"
		args = append(args, returnableStatuses, now)
	default:
		sql += " AND a.status = ?"
		args = append(args, filter.Status)
	}
	if filter.LabID != 0 {
		sql += " AND a.lab_id = ?"
		args = append(args, filter.LabID)
	}
	if filter.RequesterID != 0 {
		sql += " AND a.requester_id = ?"
		args = append(args, filter.RequesterID)
	}
	sql += " ORDER BY a.created_at DESC"

	var rows []BorrowingListRow
	if err := r.db.Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	for i := range rows {
		trx := models.BorrowingTransaction{Status: rows[i].Status, DueDate: rows[i].DueDate}
		rows[i].DisplayStatus = trx.DisplayStatus(now)
	}
	return rows, nil
}

// DisplayStatus menghitung status tampilan transaksi dengan clock engine.
func (r *BorrowingRepository) DisplayStatus(trx *models.BorrowingTransaction) string {
	return trx.DisplayStatus(r.clock.Now())
}
