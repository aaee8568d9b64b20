package repositories

import (
	"testing"

	"labstock/apperr"
	"labstock/models"
	"labstock/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorrowingLifecycle(t *testing.T) {
	f := newBorrowingFixture(t)
	asset1 := seedAsset(t, f.db, f.lab.ID, "OSC-001")
	asset2 := seedAsset(t, f.db, f.lab.ID, "OSC-002")
	item := seedConsumable(t, f.db, f.lab.ID, "HCL-01", 10)

	trx, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.mahasiswa.ID,
		Purpose:      "Praktikum kimia dasar",
		CourseName:   "Kimia Dasar",
		CourseCode:   "KIM101",
		ToolAssetIDs: []uint{asset1.ID, asset2.ID},
		Consumables:  []ConsumableLineInput{{ConsumableItemID: item.ID, Qty: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.BorrowingStatusPendingApproval, trx.Status)
	assert.Equal(t, "TRX-20260310-0001", trx.Code)
	require.Len(t, trx.Items, 3)

	// Persetujuan pertama belum memenuhi matriks dua langkah
	trx, err = f.repo.Approve(trx.Code, f.dosen.ID, "ok")
	require.NoError(t, err)
	assert.Equal(t, models.BorrowingStatusPendingApproval, trx.Status)
	assert.Nil(t, trx.ApprovedAt)

	trx, err = f.repo.Approve(trx.Code, f.plp.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.BorrowingStatusApprovedWaitingHandover, trx.Status)
	require.NotNil(t, trx.ApprovedAt)

	// Serah terima: unit terkunci, bahan terbit lewat ledger
	dueStr := testBase.AddDate(0, 0, 3).Format("2006-01-02")
	trx, err = f.repo.Handover(trx.Code, f.plp.ID, dueStr, "ambil di meja depan")
	require.NoError(t, err)
	assert.Equal(t, models.BorrowingStatusActive, trx.Status)
	require.NotNil(t, trx.DueDate)
	assert.Equal(t, 23, trx.DueDate.In(testLoc).Hour())

	var a1 models.ToolAsset
	require.NoError(t, f.db.First(&a1, asset1.ID).Error)
	assert.Equal(t, models.AssetStatusBorrowed, a1.Status)

	var after models.ConsumableItem
	require.NoError(t, f.db.First(&after, item.ID).Error)
	assert.Equal(t, 7, after.StockQty)

	var lines int64
	require.NoError(t, f.db.Model(&models.BorrowingHandoverLine{}).Count(&lines).Error)
	assert.EqualValues(t, 1, lines)

	// Pengembalian parsial: satu alat baik
	var tool1, tool2 models.BorrowingItem
	require.NoError(t, f.db.Where("transaction_id = ? AND tool_asset_id = ?", trx.ID, asset1.ID).First(&tool1).Error)
	require.NoError(t, f.db.Where("transaction_id = ? AND tool_asset_id = ?", trx.ID, asset2.ID).First(&tool2).Error)

	trx, err = f.repo.ReturnToolItems(trx.Code, f.plp.ID,
		[]ReturnLineInput{{BorrowingItemID: tool1.ID, Condition: models.ConditionBaik}}, "")
	require.NoError(t, err)
	assert.Equal(t, models.BorrowingStatusPartiallyReturned, trx.Status)

	require.NoError(t, f.db.First(&a1, asset1.ID).Error)
	assert.Equal(t, models.AssetStatusAvailable, a1.Status)

	// Alat kedua kembali rusak: transaksi selesai, unit tidak kembali available
	trx, err = f.repo.ReturnToolItems(trx.Code, f.plp.ID,
		[]ReturnLineInput{{BorrowingItemID: tool2.ID, Condition: models.ConditionDamaged}}, "casing pecah")
	require.NoError(t, err)
	assert.Equal(t, models.BorrowingStatusCompleted, trx.Status)

	var a2 models.ToolAsset
	require.NoError(t, f.db.First(&a2, asset2.ID).Error)
	assert.Equal(t, models.AssetStatusDamaged, a2.Status)
	assert.Equal(t, models.ConditionDamaged, a2.Condition)
}

func TestCreateRequestValidation(t *testing.T) {
	f := newBorrowingFixture(t)
	asset := seedAsset(t, f.db, f.lab.ID, "MIC-001")

	_, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID:       f.lab.ID,
		RequesterID: f.mahasiswa.ID,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.mahasiswa.ID,
		ToolAssetIDs: []uint{asset.ID, asset.ID},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	// Hanya mahasiswa yang mengajukan peminjaman
	_, err = f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.dosen.ID,
		ToolAssetIDs: []uint{asset.ID},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestCreateRequestRequiresReadyMatrix(t *testing.T) {
	db := newTestDB(t)
	clock := &utils.FixedClock{T: testBase}
	repo := NewBorrowingRepository(db, clock, testLoc)

	lab := seedLab(t, db, "LAB-FIS")
	mahasiswa := seedUser(t, db, "ani", models.RoleMahasiswa)
	asset := seedAsset(t, db, lab.ID, "FIS-001")

	// Belum ada matriks sama sekali
	_, err := repo.CreateRequest(CreateBorrowingInput{
		LabID:        lab.ID,
		RequesterID:  mahasiswa.ID,
		ToolAssetIDs: []uint{asset.ID},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))

	// Matriks ada tapi penyetuju langkah 2 kosong
	dosen := seedUser(t, db, "dr.eka", models.RoleDosen)
	matrix := models.ApprovalMatrix{LabID: lab.ID, Step1ApproverID: &dosen.ID, IsActive: true}
	require.NoError(t, db.Create(&matrix).Error)

	_, err = repo.CreateRequest(CreateBorrowingInput{
		LabID:        lab.ID,
		RequesterID:  mahasiswa.ID,
		ToolAssetIDs: []uint{asset.ID},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))
}

func TestCreateRequestAssetUnavailable(t *testing.T) {
	f := newBorrowingFixture(t)
	asset := seedAsset(t, f.db, f.lab.ID, "PIP-001")
	require.NoError(t, f.db.Model(&models.ToolAsset{}).
		Where("id = ?", asset.ID).
		Update("status", models.AssetStatusMaintenance).Error)

	_, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.mahasiswa.ID,
		ToolAssetIDs: []uint{asset.ID},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))
}

func TestApproveDuplicateApprover(t *testing.T) {
	f := newBorrowingFixture(t)
	asset := seedAsset(t, f.db, f.lab.ID, "OSC-003")

	trx, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.mahasiswa.ID,
		ToolAssetIDs: []uint{asset.ID},
	})
	require.NoError(t, err)

	_, err = f.repo.Approve(trx.Code, f.dosen.ID, "")
	require.NoError(t, err)

	_, err = f.repo.Approve(trx.Code, f.dosen.ID, "lagi")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	var count int64
	require.NoError(t, f.db.Model(&models.BorrowingApproval{}).
		Where("transaction_id = ?", trx.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAdminSubstitutesMissingSteps(t *testing.T) {
	f := newBorrowingFixture(t)
	asset := seedAsset(t, f.db, f.lab.ID, "OSC-004")

	trx, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.mahasiswa.ID,
		ToolAssetIDs: []uint{asset.ID},
	})
	require.NoError(t, err)

	// Satu admin hanya mengisi satu langkah
	trx, err = f.repo.Approve(trx.Code, f.admin.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.BorrowingStatusPendingApproval, trx.Status)

	admin2 := seedUser(t, f.db, "admin2", models.RoleAdmin)
	trx, err = f.repo.Approve(trx.Code, admin2.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.BorrowingStatusApprovedWaitingHandover, trx.Status)
}

func TestApproveCountsCommittedApprovalOfOtherRole(t *testing.T) {
	f := newBorrowingFixture(t)
	asset := seedAsset(t, f.db, f.lab.ID, "OSC-020")

	trx, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.mahasiswa.ID,
		ToolAssetIDs: []uint{asset.ID},
	})
	require.NoError(t, err)

	// Persetujuan dosen sudah commit sebelum penyetuju kedua menghitung
	require.NoError(t, f.db.Create(&models.BorrowingApproval{
		TransactionID: trx.ID,
		ApproverID:    f.dosen.ID,
		ApproverRole:  models.RoleDosen,
		Decision:      models.DecisionApproved,
	}).Error)

	// Hitungan setelah lock baris transaksi melihat kedua peran terpenuhi
	// dan memajukan status, bukan berhenti di satu peran
	trx, err = f.repo.Approve(trx.Code, f.plp.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.BorrowingStatusApprovedWaitingHandover, trx.Status)
	require.NotNil(t, trx.ApprovedAt)
}

func TestHandoverRecordedAtMostOnce(t *testing.T) {
	f := newBorrowingFixture(t)
	asset := seedAsset(t, f.db, f.lab.ID, "OSC-021")
	trx := activeTransaction(t, f, asset.ID)

	dueStr := testBase.AddDate(0, 0, 5).Format("2006-01-02")

	// Jalur normal tertahan di guard status
	_, err := f.repo.Handover(trx.Code, f.plp.ID, dueStr, "")
	assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))

	// Status yang mundur secara tidak wajar pun tertahan di constraint
	// satu serah terima per transaksi
	require.NoError(t, f.db.Model(&models.BorrowingTransaction{}).
		Where("id = ?", trx.ID).
		Update("status", models.BorrowingStatusApprovedWaitingHandover).Error)

	_, err = f.repo.Handover(trx.Code, f.plp.ID, dueStr, "")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	var handovers int64
	require.NoError(t, f.db.Model(&models.BorrowingHandover{}).
		Where("transaction_id = ?", trx.ID).Count(&handovers).Error)
	assert.EqualValues(t, 1, handovers)
}

func TestRejectUsesDefaultReason(t *testing.T) {
	f := newBorrowingFixture(t)
	asset := seedAsset(t, f.db, f.lab.ID, "OSC-005")

	trx, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.mahasiswa.ID,
		ToolAssetIDs: []uint{asset.ID},
	})
	require.NoError(t, err)

	trx, err = f.repo.Reject(trx.Code, f.dosen.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.BorrowingStatusRejected, trx.Status)
	assert.Equal(t, "Ditolak oleh dr.sari", trx.RejectionReason)

	// Terminal: tidak ada keputusan lanjutan
	_, err = f.repo.Approve(trx.Code, f.plp.ID, "")
	assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))
}

func TestCancelOnlyByRequesterOrAdmin(t *testing.T) {
	f := newBorrowingFixture(t)
	asset := seedAsset(t, f.db, f.lab.ID, "OSC-006")

	trx, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.mahasiswa.ID,
		ToolAssetIDs: []uint{asset.ID},
	})
	require.NoError(t, err)

	other := seedUser(t, f.db, "citra", models.RoleMahasiswa)
	_, err = f.repo.Cancel(trx.Code, other.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	trx, err = f.repo.Cancel(trx.Code, f.mahasiswa.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BorrowingStatusCancelled, trx.Status)
}

func TestHandoverInsufficientStockRollsBackEverything(t *testing.T) {
	f := newBorrowingFixture(t)
	asset := seedAsset(t, f.db, f.lab.ID, "OSC-007")
	item := seedConsumable(t, f.db, f.lab.ID, "NAOH-01", 2)

	trx, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.mahasiswa.ID,
		ToolAssetIDs: []uint{asset.ID},
		Consumables:  []ConsumableLineInput{{ConsumableItemID: item.ID, Qty: 5}},
	})
	require.NoError(t, err)
	_, err = f.repo.Approve(trx.Code, f.dosen.ID, "")
	require.NoError(t, err)
	_, err = f.repo.Approve(trx.Code, f.plp.ID, "")
	require.NoError(t, err)

	dueStr := testBase.AddDate(0, 0, 3).Format("2006-01-02")
	_, err = f.repo.Handover(trx.Code, f.plp.ID, dueStr, "")
	assert.True(t, apperr.IsKind(err, apperr.KindPrecondition))

	// Tidak ada efek parsial yang tersisa
	var a models.ToolAsset
	require.NoError(t, f.db.First(&a, asset.ID).Error)
	assert.Equal(t, models.AssetStatusAvailable, a.Status)

	var after models.ConsumableItem
	require.NoError(t, f.db.First(&after, item.ID).Error)
	assert.Equal(t, 2, after.StockQty)

	var movements, handovers int64
	require.NoError(t, f.db.Model(&models.StockMovement{}).Count(&movements).Error)
	require.NoError(t, f.db.Model(&models.BorrowingHandover{}).Count(&handovers).Error)
	assert.EqualValues(t, 0, movements)
	assert.EqualValues(t, 0, handovers)

	got, err := f.repo.GetByCode(trx.Code)
	require.NoError(t, err)
	assert.Equal(t, models.BorrowingStatusApprovedWaitingHandover, got.Status)
}

func TestHandoverRejectsPastDueDate(t *testing.T) {
	f := newBorrowingFixture(t)
	asset := seedAsset(t, f.db, f.lab.ID, "OSC-008")

	trx := approvedTransaction(t, f, asset.ID)

	_, err := f.repo.Handover(trx.Code, f.plp.ID, "2026-03-09", "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = f.repo.Handover(trx.Code, f.plp.ID, "bukan-tanggal", "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestDoubleReturnSameItem(t *testing.T) {
	f := newBorrowingFixture(t)
	asset1 := seedAsset(t, f.db, f.lab.ID, "OSC-009")
	asset2 := seedAsset(t, f.db, f.lab.ID, "OSC-010")

	trx := activeTransaction(t, f, asset1.ID, asset2.ID)

	var tool1 models.BorrowingItem
	require.NoError(t, f.db.Where("transaction_id = ? AND tool_asset_id = ?", trx.ID, asset1.ID).First(&tool1).Error)

	_, err := f.repo.ReturnToolItems(trx.Code, f.plp.ID,
		[]ReturnLineInput{{BorrowingItemID: tool1.ID, Condition: models.ConditionBaik}}, "")
	require.NoError(t, err)

	_, err = f.repo.ReturnToolItems(trx.Code, f.plp.ID,
		[]ReturnLineInput{{BorrowingItemID: tool1.ID, Condition: models.ConditionBaik}}, "")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	var count int64
	require.NoError(t, f.db.Model(&models.BorrowingReturnItem{}).
		Where("borrowing_item_id = ?", tool1.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestReturnRejectsConsumableLine(t *testing.T) {
	f := newBorrowingFixture(t)
	asset := seedAsset(t, f.db, f.lab.ID, "OSC-011")
	item := seedConsumable(t, f.db, f.lab.ID, "AQ-01", 10)

	trx, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.mahasiswa.ID,
		ToolAssetIDs: []uint{asset.ID},
		Consumables:  []ConsumableLineInput{{ConsumableItemID: item.ID, Qty: 2}},
	})
	require.NoError(t, err)
	_, err = f.repo.Approve(trx.Code, f.dosen.ID, "")
	require.NoError(t, err)
	_, err = f.repo.Approve(trx.Code, f.plp.ID, "")
	require.NoError(t, err)
	dueStr := testBase.AddDate(0, 0, 3).Format("2006-01-02")
	trx, err = f.repo.Handover(trx.Code, f.plp.ID, dueStr, "")
	require.NoError(t, err)

	var consumableLine models.BorrowingItem
	require.NoError(t, f.db.Where("transaction_id = ? AND item_type = ?", trx.ID, models.ItemTypeConsumable).
		First(&consumableLine).Error)

	_, err = f.repo.ReturnToolItems(trx.Code, f.plp.ID,
		[]ReturnLineInput{{BorrowingItemID: consumableLine.ID, Condition: models.ConditionBaik}}, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestPLPScopedToAssignedLab(t *testing.T) {
	f := newBorrowingFixture(t)
	asset := seedAsset(t, f.db, f.lab.ID, "OSC-012")

	trx, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.mahasiswa.ID,
		ToolAssetIDs: []uint{asset.ID},
	})
	require.NoError(t, err)

	plpLain := seedUser(t, f.db, "plp.lain", models.RolePLP)
	_, err = f.repo.Approve(trx.Code, plpLain.ID, "")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestOverdueIsDerivedNotStored(t *testing.T) {
	f := newBorrowingFixture(t)
	asset := seedAsset(t, f.db, f.lab.ID, "OSC-013")

	trx := activeTransaction(t, f, asset.ID)

	// Sebelum jatuh tempo
	assert.Equal(t, models.BorrowingStatusActive, f.repo.DisplayStatus(trx))

	// Lewati jatuh tempo: status tampilan berubah, kolom status tidak
	f.clock.T = testBase.AddDate(0, 0, 5)
	got, err := f.repo.GetByCode(trx.Code)
	require.NoError(t, err)
	assert.Equal(t, models.BorrowingStatusActive, got.Status)
	assert.Equal(t, models.BorrowingStatusOverdue, f.repo.DisplayStatus(got))

	rows, err := f.repo.List(BorrowingFilter{Status: models.BorrowingStatusOverdue})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, trx.Code, rows[0].Code)
	assert.Equal(t, models.BorrowingStatusActive, rows[0].Status)
	assert.Equal(t, models.BorrowingStatusOverdue, rows[0].DisplayStatus)
}

func TestListFilters(t *testing.T) {
	f := newBorrowingFixture(t)
	asset1 := seedAsset(t, f.db, f.lab.ID, "OSC-014")
	asset2 := seedAsset(t, f.db, f.lab.ID, "OSC-015")

	trx1, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.mahasiswa.ID,
		ToolAssetIDs: []uint{asset1.ID},
	})
	require.NoError(t, err)

	other := seedUser(t, f.db, "dewi", models.RoleMahasiswa)
	_, err = f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  other.ID,
		ToolAssetIDs: []uint{asset2.ID},
	})
	require.NoError(t, err)

	rows, err := f.repo.List(BorrowingFilter{RequesterID: f.mahasiswa.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, trx1.Code, rows[0].Code)
	assert.Equal(t, 1, rows[0].TotalItems)

	rows, err = f.repo.List(BorrowingFilter{Status: models.BorrowingStatusPendingApproval})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestDocumentCodeSequencePerDay(t *testing.T) {
	f := newBorrowingFixture(t)
	asset1 := seedAsset(t, f.db, f.lab.ID, "OSC-016")
	asset2 := seedAsset(t, f.db, f.lab.ID, "OSC-017")
	asset3 := seedAsset(t, f.db, f.lab.ID, "OSC-018")

	trx1, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID: f.lab.ID, RequesterID: f.mahasiswa.ID, ToolAssetIDs: []uint{asset1.ID},
	})
	require.NoError(t, err)
	trx2, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID: f.lab.ID, RequesterID: f.mahasiswa.ID, ToolAssetIDs: []uint{asset2.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "TRX-20260310-0001", trx1.Code)
	assert.Equal(t, "TRX-20260310-0002", trx2.Code)

	// Ganti hari: sequence di-reset
	f.clock.T = testBase.AddDate(0, 0, 1)
	trx3, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID: f.lab.ID, RequesterID: f.mahasiswa.ID, ToolAssetIDs: []uint{asset3.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "TRX-20260311-0001", trx3.Code)
}

// approvedTransaction membuat pengajuan satu alat yang sudah lolos dua
// langkah persetujuan.
func approvedTransaction(t *testing.T, f *borrowingFixture, assetID uint) *models.BorrowingTransaction {
	t.Helper()
	trx, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.mahasiswa.ID,
		ToolAssetIDs: []uint{assetID},
	})
	require.NoError(t, err)
	_, err = f.repo.Approve(trx.Code, f.dosen.ID, "")
	require.NoError(t, err)
	trx, err = f.repo.Approve(trx.Code, f.plp.ID, "")
	require.NoError(t, err)
	require.Equal(t, models.BorrowingStatusApprovedWaitingHandover, trx.Status)
	return trx
}

// activeTransaction membawa pengajuan sampai serah terima dengan jatuh
// tempo tiga hari.
func activeTransaction(t *testing.T, f *borrowingFixture, assetIDs ...uint) *models.BorrowingTransaction {
	t.Helper()
	trx, err := f.repo.CreateRequest(CreateBorrowingInput{
		LabID:        f.lab.ID,
		RequesterID:  f.mahasiswa.ID,
		ToolAssetIDs: assetIDs,
	})
	require.NoError(t, err)
	_, err = f.repo.Approve(trx.Code, f.dosen.ID, "")
	require.NoError(t, err)
	_, err = f.repo.Approve(trx.Code, f.plp.ID, "")
	require.NoError(t, err)

	dueStr := testBase.AddDate(0, 0, 3).Format("2006-01-02")
	trx, err = f.repo.Handover(trx.Code, f.plp.ID, dueStr, "")
	require.NoError(t, err)
	require.Equal(t, models.BorrowingStatusActive, trx.Status)
	return trx
}
