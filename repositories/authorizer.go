package repositories

import (
	"errors"

	"labstock/apperr"
	"labstock/models"

	"gorm.io/gorm"
)

type Action string

const (
	ActionCreateBorrowing        Action = "borrowing.create"
	ActionDecideBorrowing        Action = "borrowing.decide"
	ActionHandoverBorrowing      Action = "borrowing.handover"
	ActionReturnBorrowing        Action = "borrowing.return"
	ActionCreateMaterialRequest  Action = "material_request.create"
	ActionDecideMaterialRequest  Action = "material_request.decide"
	ActionFulfillMaterialRequest Action = "material_request.fulfill"
	ActionManageStock            Action = "stock.manage"
)

// Authorizer memusatkan aturan peran dan penugasan lab. Semua operasi
// engine memanggil Authorize yang sama, tidak ada pengecekan peran yang
// tersebar per call site.
type Authorizer struct {
	db *gorm.DB
}

func NewAuthorizer(db *gorm.DB) *Authorizer {
	return &Authorizer{db: db}
}

// Authorize memuat actor lalu mengevaluasi apakah ia boleh melakukan
// action pada lab tersebut. Mengembalikan user untuk dipakai pemanggil.
func (a *Authorizer) Authorize(tx *gorm.DB, actorID uint, action Action, labID uint) (*models.User, error) {
	if tx == nil {
		tx = a.db
	}

	var user models.User
	if err := tx.First(&user, actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user %d tidak ditemukan", actorID)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Authorizationf("akun %s tidak aktif", user.Email)
	}

	// Pengajuan peminjaman hanya oleh mahasiswa
	if action == ActionCreateBorrowing {
		if user.Role != models.RoleMahasiswa {
			return nil, apperr.Authorizationf("hanya mahasiswa yang dapat mengajukan peminjaman")
		}
		return &user, nil
	}

	switch user.Role {
	case models.RoleAdmin:
		return &user, nil
	case models.RoleMahasiswa:
		if action == ActionCreateMaterialRequest {
			return &user, nil
		}
		return nil, apperr.Authorizationf("mahasiswa tidak berwenang untuk operasi ini")
	case models.RoleDosen:
		return &user, nil
	case models.RolePLP:
		if action == ActionCreateMaterialRequest {
			return &user, nil
		}
		// PLP dibatasi pada lab penugasannya
		assigned, err := a.isAssignedToLab(tx, user.ID, labID)
		if err != nil {
			return nil, err
		}
		if !assigned {
			return nil, apperr.Authorizationf("%s tidak ditugaskan pada lab ini", user.Name)
		}
		return &user, nil
	}
	return nil, apperr.Authorizationf("peran %s tidak dikenal", user.Role)
}

func (a *Authorizer) isAssignedToLab(tx *gorm.DB, userID, labID uint) (bool, error) {
	var count int64
	err := tx.Table("user_lab_assignments").
		Where("user_id = ? AND lab_id = ?", userID, labID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
