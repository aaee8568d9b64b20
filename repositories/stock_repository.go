package repositories

import (
	"errors"

	"labstock/apperr"
	"labstock/controllers/idgen"
	"labstock/models"
	"labstock/utils"

	"gorm.io/gorm"
)

// StockRepository adalah ledger stok bahan habis pakai. RecordMovement
// adalah satu-satunya jalur perubahan StockQty: setiap mutasi menghasilkan
// tepat satu baris StockMovement dengan qty_before/qty_after yang gapless.
type StockRepository struct {
	db   *gorm.DB
	auth *Authorizer
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db, auth: NewAuthorizer(db)}
}

// RecordMovement menjalankan mutasi stok bersyarat di dalam tx pemanggil.
// Guard `stock_qty + delta >= 0` ada di UPDATE itu sendiri sehingga
// pengurangan tidak pernah balapan melewati nol; RowsAffected == 0 berarti
// stok tidak mencukupi.
func (r *StockRepository) RecordMovement(tx *gorm.DB, itemID uint, delta int, movementType string, actorID uint, refType, refCode, remarks string) (*models.StockMovement, error) {
	var item models.ConsumableItem
	if err := tx.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("bahan %d tidak ditemukan", itemID)
		}
		return nil, err
	}

	res := tx.Model(&models.ConsumableItem{}).
		Where("id = ? AND stock_qty + ? >= 0", itemID, delta).
		Update("stock_qty", gorm.Expr("stock_qty + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Preconditionf("stok %s tidak mencukupi (diminta %d, tersedia %d)",
			item.Code, -delta, item.StockQty)
	}

	// Baca ulang dalam tx yang sama: qty_before diturunkan dari nilai
	// sesudah mutasi sehingga ledger tetap gapless per item.
	var after models.ConsumableItem
	if err := tx.First(&after, itemID).Error; err != nil {
		return nil, err
	}

	movement := models.StockMovement{
		ConsumableItemID: itemID,
		MovementType:     movementType,
		QtyDelta:         delta,
		QtyBefore:        after.StockQty - delta,
		QtyAfter:         after.StockQty,
		MovementRef:      idgen.GenerateString(),
		ReferenceType:    refType,
		ReferenceCode:    refCode,
		Remarks:          remarks,
		CreatedBy:        int(actorID),
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}
	return &movement, nil
}

// StockIn menambah stok (penerimaan barang), satu pergerakan per panggilan.
func (r *StockRepository) StockIn(itemID uint, qty int, actorID uint, remarks string) (*models.StockMovement, error) {
	if qty <= 0 {
		return nil, apperr.Validationf("jumlah stok masuk harus lebih dari 0")
	}
	return r.adjust(itemID, qty, models.MovementStockIn, actorID, remarks)
}

// ManualAdjustment mengoreksi stok naik atau turun (hasil opname).
func (r *StockRepository) ManualAdjustment(itemID uint, delta int, actorID uint, remarks string) (*models.StockMovement, error) {
	if delta == 0 {
		return nil, apperr.Validationf("delta penyesuaian tidak boleh 0")
	}
	return r.adjust(itemID, delta, models.MovementManualAdjustment, actorID, remarks)
}

func (r *StockRepository) adjust(itemID uint, delta int, movementType string, actorID uint, remarks string) (*models.StockMovement, error) {
	var movement *models.StockMovement
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var item models.ConsumableItem
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("bahan %d tidak ditemukan", itemID)
			}
			return err
		}

		if _, err := r.auth.Authorize(tx, actorID, ActionManageStock, item.LabID); err != nil {
			return err
		}

		mv, err := r.RecordMovement(tx, itemID, delta, movementType, actorID, "adjustment", "", remarks)
		if err != nil {
			return err
		}
		movement = mv

		utils.WriteAudit(tx, actorID, "consumable_item", itemID, utils.StockAdjusted{
			ConsumableItemID: itemID,
			MovementType:     movementType,
			QtyDelta:         delta,
			QtyAfter:         mv.QtyAfter,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// Movements mengembalikan ledger satu bahan, urut waktu pembuatan.
func (r *StockRepository) Movements(itemID uint) ([]models.StockMovement, error) {
	var item models.ConsumableItem
	if err := r.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("bahan %d tidak ditemukan", itemID)
		}
		return nil, err
	}

	var movements []models.StockMovement
	err := r.db.Where("consumable_item_id = ?", itemID).
		Order("id ASC").
		Find(&movements).Error
	return movements, err
}
