package repositories

import (
	"testing"

	"labstock/apperr"
	"labstock/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockLedgerIsGapless(t *testing.T) {
	db := newTestDB(t)
	repo := NewStockRepository(db)

	lab := seedLab(t, db, "LAB-BIO")
	plp := seedUser(t, db, "plp.bio", models.RolePLP)
	assignToLab(t, db, plp, lab.ID)
	item := seedConsumable(t, db, lab.ID, "AGAR-01", 0)

	_, err := repo.StockIn(item.ID, 20, plp.ID, "penerimaan awal")
	require.NoError(t, err)
	_, err = repo.ManualAdjustment(item.ID, -3, plp.ID, "opname: 3 kadaluarsa")
	require.NoError(t, err)
	_, err = repo.StockIn(item.ID, 5, plp.ID, "")
	require.NoError(t, err)

	var after models.ConsumableItem
	require.NoError(t, db.First(&after, item.ID).Error)
	assert.Equal(t, 22, after.StockQty)

	movements, err := repo.Movements(item.ID)
	require.NoError(t, err)
	require.Len(t, movements, 3)

	// Rantai qty_before/qty_after tidak boleh berlubang
	prev := 0
	for _, mv := range movements {
		assert.Equal(t, prev, mv.QtyBefore)
		assert.Equal(t, mv.QtyBefore+mv.QtyDelta, mv.QtyAfter)
		assert.NotEmpty(t, mv.MovementRef)
		prev = mv.QtyAfter
	}
	assert.Equal(t, after.StockQty, prev)
}

func TestStockNeverGoesNegative(t *testing.T) {
	db := newTestDB(t)
	repo := NewStockRepository(db)

	lab := seedLab(t, db, "LAB-BIO")
	plp := seedUser(t, db, "plp.bio", models.RolePLP)
	assignToLab(t, db, plp, lab.ID)
	item := seedConsumable(t, db, lab.ID, "ETOH-01", 4)

	_, err := repo.ManualAdjustment(item.ID, -10, plp.ID, "")
	assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))

	var after models.ConsumableItem
	require.NoError(t, db.First(&after, item.ID).Error)
	assert.Equal(t, 4, after.StockQty)

	movements, err := repo.Movements(item.ID)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestStockAdjustmentValidation(t *testing.T) {
	db := newTestDB(t)
	repo := NewStockRepository(db)

	lab := seedLab(t, db, "LAB-BIO")
	plp := seedUser(t, db, "plp.bio", models.RolePLP)
	assignToLab(t, db, plp, lab.ID)
	item := seedConsumable(t, db, lab.ID, "GLU-01", 10)

	_, err := repo.StockIn(item.ID, 0, plp.ID, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = repo.ManualAdjustment(item.ID, 0, plp.ID, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = repo.StockIn(9999, 5, plp.ID, "")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestStockManagementAuthorization(t *testing.T) {
	db := newTestDB(t)
	repo := NewStockRepository(db)

	lab := seedLab(t, db, "LAB-BIO")
	item := seedConsumable(t, db, lab.ID, "KCL-01", 10)

	mahasiswa := seedUser(t, db, "rudi", models.RoleMahasiswa)
	_, err := repo.StockIn(item.ID, 5, mahasiswa.ID, "")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	// PLP tanpa penugasan lab ini ditolak
	plpLain := seedUser(t, db, "plp.lain", models.RolePLP)
	_, err = repo.StockIn(item.ID, 5, plpLain.ID, "")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	admin := seedUser(t, db, "admin", models.RoleAdmin)
	_, err = repo.StockIn(item.ID, 5, admin.ID, "")
	require.NoError(t, err)
}
