package repositories

import (
	"fmt"
	"testing"
	"time"

	"labstock/database"
	"labstock/models"
	"labstock/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Zona kampus untuk test, tidak bergantung pada tzdata sistem.
var testLoc = time.FixedZone("WIB", 7*60*60)

var testBase = time.Date(2026, 3, 10, 9, 0, 0, 0, testLoc)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// Satu koneksi saja supaya semua query melihat database :memory: yang sama
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@labstock.test", name),
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedLab(t *testing.T, db *gorm.DB, code string) *models.Lab {
	t.Helper()
	lab := models.Lab{Code: code, Name: "Lab " + code, IsActive: true}
	require.NoError(t, db.Create(&lab).Error)
	return &lab
}

func seedMatrix(t *testing.T, db *gorm.DB, labID uint, dosen, plp *models.User) *models.ApprovalMatrix {
	t.Helper()
	matrix := models.ApprovalMatrix{
		LabID:           labID,
		Step1ApproverID: &dosen.ID,
		Step2ApproverID: &plp.ID,
		IsActive:        true,
	}
	require.NoError(t, db.Create(&matrix).Error)
	return &matrix
}

func assignToLab(t *testing.T, db *gorm.DB, user *models.User, labID uint) {
	t.Helper()
	require.NoError(t, db.Exec(
		"INSERT INTO user_lab_assignments (user_id, lab_id) VALUES (?, ?)",
		user.ID, labID).Error)
}

func seedAsset(t *testing.T, db *gorm.DB, labID uint, code string) *models.ToolAsset {
	t.Helper()
	model := models.ToolModel{LabID: labID, Code: "TM-" + code, Name: "Alat " + code}
	require.NoError(t, db.Create(&model).Error)
	asset := models.ToolAsset{
		ToolModelID: model.ID,
		AssetCode:   code,
		QrCode:      "QR-" + code,
		Status:      models.AssetStatusAvailable,
		Condition:   models.ConditionBaik,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&asset).Error)
	return &asset
}

func seedConsumable(t *testing.T, db *gorm.DB, labID uint, code string, stock int) *models.ConsumableItem {
	t.Helper()
	item := models.ConsumableItem{
		LabID:    labID,
		Code:     code,
		Name:     "Bahan " + code,
		Unit:     "pcs",
		StockQty: stock,
		IsActive: true,
	}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

// borrowingFixture menyiapkan satu lab lengkap dengan matriks dan personel.
type borrowingFixture struct {
	db        *gorm.DB
	clock     *utils.FixedClock
	repo      *BorrowingRepository
	lab       *models.Lab
	mahasiswa *models.User
	dosen     *models.User
	plp       *models.User
	admin     *models.User
}

func newBorrowingFixture(t *testing.T) *borrowingFixture {
	t.Helper()
	db := newTestDB(t)
	clock := &utils.FixedClock{T: testBase}

	f := &borrowingFixture{
		db:        db,
		clock:     clock,
		repo:      NewBorrowingRepository(db, clock, testLoc),
		lab:       seedLab(t, db, "LAB-KIM"),
		mahasiswa: seedUser(t, db, "budi", models.RoleMahasiswa),
		dosen:     seedUser(t, db, "dr.sari", models.RoleDosen),
		plp:       seedUser(t, db, "pak.joko", models.RolePLP),
		admin:     seedUser(t, db, "admin", models.RoleAdmin),
	}
	seedMatrix(t, db, f.lab.ID, f.dosen, f.plp)
	assignToLab(t, db, f.plp, f.lab.ID)
	return f
}
