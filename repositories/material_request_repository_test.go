package repositories

import (
	"testing"

	"labstock/apperr"
	"labstock/models"
	"labstock/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type materialFixture struct {
	db        *gorm.DB
	clock     *utils.FixedClock
	repo      *MaterialRequestRepository
	lab       *models.Lab
	mahasiswa *models.User
	plp       *models.User
}

func newMaterialFixture(t *testing.T) *materialFixture {
	t.Helper()
	db := newTestDB(t)
	clock := &utils.FixedClock{T: testBase}

	f := &materialFixture{
		db:        db,
		clock:     clock,
		repo:      NewMaterialRequestRepository(db, clock),
		lab:       seedLab(t, db, "LAB-KIM"),
		mahasiswa: seedUser(t, db, "budi", models.RoleMahasiswa),
		plp:       seedUser(t, db, "pak.joko", models.RolePLP),
	}
	assignToLab(t, db, f.plp, f.lab.ID)
	return f
}

func TestMaterialRequestLifecycle(t *testing.T) {
	f := newMaterialFixture(t)
	item1 := seedConsumable(t, f.db, f.lab.ID, "HCL-01", 10)
	item2 := seedConsumable(t, f.db, f.lab.ID, "NAOH-01", 8)

	req, err := f.repo.CreateRequest(CreateMaterialRequestInput{
		LabID:       f.lab.ID,
		RequesterID: f.mahasiswa.ID,
		Purpose:     "Titrasi asam basa",
		Lines: []MaterialLineInput{
			{ConsumableItemID: item1.ID, Qty: 4},
			{ConsumableItemID: item2.ID, Qty: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.MaterialRequestPending, req.Status)
	assert.Equal(t, "MRQ-20260310-0001", req.Code)
	require.Len(t, req.Lines, 2)

	req, err = f.repo.Approve(req.Code, f.plp.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.MaterialRequestApproved, req.Status)
	require.NotNil(t, req.ApprovedBy)
	assert.Equal(t, f.plp.ID, *req.ApprovedBy)

	req, err = f.repo.Fulfill(req.Code, f.plp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MaterialRequestFulfilled, req.Status)
	require.NotNil(t, req.FulfilledAt)
	for _, line := range req.Lines {
		assert.Equal(t, line.QtyRequested, line.QtyFulfilled)
	}

	var after1, after2 models.ConsumableItem
	require.NoError(t, f.db.First(&after1, item1.ID).Error)
	require.NoError(t, f.db.First(&after2, item2.ID).Error)
	assert.Equal(t, 6, after1.StockQty)
	assert.Equal(t, 6, after2.StockQty)

	// Pemenuhan kedua ditolak
	_, err = f.repo.Fulfill(req.Code, f.plp.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))
}

func TestMaterialRequestValidation(t *testing.T) {
	f := newMaterialFixture(t)
	item := seedConsumable(t, f.db, f.lab.ID, "AQ-01", 10)

	_, err := f.repo.CreateRequest(CreateMaterialRequestInput{
		LabID:       f.lab.ID,
		RequesterID: f.mahasiswa.ID,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = f.repo.CreateRequest(CreateMaterialRequestInput{
		LabID:       f.lab.ID,
		RequesterID: f.mahasiswa.ID,
		Lines:       []MaterialLineInput{{ConsumableItemID: item.ID, Qty: 0}},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = f.repo.CreateRequest(CreateMaterialRequestInput{
		LabID:       f.lab.ID,
		RequesterID: f.mahasiswa.ID,
		Lines: []MaterialLineInput{
			{ConsumableItemID: item.ID, Qty: 1},
			{ConsumableItemID: item.ID, Qty: 2},
		},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestMaterialRequestRejectAfterApprove(t *testing.T) {
	f := newMaterialFixture(t)
	item := seedConsumable(t, f.db, f.lab.ID, "HCL-01", 10)

	req, err := f.repo.CreateRequest(CreateMaterialRequestInput{
		LabID:       f.lab.ID,
		RequesterID: f.mahasiswa.ID,
		Lines:       []MaterialLineInput{{ConsumableItemID: item.ID, Qty: 2}},
	})
	require.NoError(t, err)

	req, err = f.repo.Approve(req.Code, f.plp.ID, "")
	require.NoError(t, err)

	// Approved masih boleh ditolak sebelum dipenuhi
	req, err = f.repo.Reject(req.Code, f.plp.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.MaterialRequestRejected, req.Status)
	assert.Equal(t, "Ditolak oleh pak.joko", req.RejectionReason)

	// Rejected terminal
	_, err = f.repo.Approve(req.Code, f.plp.ID, "")
	assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))
	_, err = f.repo.Fulfill(req.Code, f.plp.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))

	var after models.ConsumableItem
	require.NoError(t, f.db.First(&after, item.ID).Error)
	assert.Equal(t, 10, after.StockQty)
}

func TestMaterialRequestFulfillShortStockAborts(t *testing.T) {
	f := newMaterialFixture(t)
	item1 := seedConsumable(t, f.db, f.lab.ID, "HCL-01", 10)
	item2 := seedConsumable(t, f.db, f.lab.ID, "NAOH-01", 1)

	req, err := f.repo.CreateRequest(CreateMaterialRequestInput{
		LabID:       f.lab.ID,
		RequesterID: f.mahasiswa.ID,
		Lines: []MaterialLineInput{
			{ConsumableItemID: item1.ID, Qty: 3},
			{ConsumableItemID: item2.ID, Qty: 5},
		},
	})
	require.NoError(t, err)
	_, err = f.repo.Approve(req.Code, f.plp.ID, "")
	require.NoError(t, err)

	_, err = f.repo.Fulfill(req.Code, f.plp.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))

	// Baris pertama ikut batal walau stoknya cukup
	var after1 models.ConsumableItem
	require.NoError(t, f.db.First(&after1, item1.ID).Error)
	assert.Equal(t, 10, after1.StockQty)

	var movements int64
	require.NoError(t, f.db.Model(&models.StockMovement{}).Count(&movements).Error)
	assert.EqualValues(t, 0, movements)

	got, err := f.repo.GetByCode(req.Code)
	require.NoError(t, err)
	assert.Equal(t, models.MaterialRequestApproved, got.Status)
	for _, line := range got.Lines {
		assert.Equal(t, 0, line.QtyFulfilled)
	}
}

func TestMaterialRequestList(t *testing.T) {
	f := newMaterialFixture(t)
	item := seedConsumable(t, f.db, f.lab.ID, "HCL-01", 10)

	req, err := f.repo.CreateRequest(CreateMaterialRequestInput{
		LabID:       f.lab.ID,
		RequesterID: f.mahasiswa.ID,
		Lines:       []MaterialLineInput{{ConsumableItemID: item.ID, Qty: 4}},
	})
	require.NoError(t, err)

	other := seedUser(t, f.db, "dewi", models.RoleMahasiswa)
	_, err = f.repo.CreateRequest(CreateMaterialRequestInput{
		LabID:       f.lab.ID,
		RequesterID: other.ID,
		Lines:       []MaterialLineInput{{ConsumableItemID: item.ID, Qty: 1}},
	})
	require.NoError(t, err)

	rows, err := f.repo.List("", 0, f.mahasiswa.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, req.Code, rows[0].Code)
	assert.Equal(t, 1, rows[0].TotalLines)
	assert.Equal(t, 4, rows[0].TotalQty)

	rows, err = f.repo.List(models.MaterialRequestPending, f.lab.ID, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
