package models

import (
	"gorm.io/gorm"
)

type Lab struct {
	gorm.Model
	Code      string `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Name      string `json:"name" gorm:"size:100;not null"`
	Location  string `json:"location" gorm:"size:100"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	CreatedBy int
	UpdatedBy int
}

// ApprovalMatrix menentukan dua penyetuju wajib per lab:
// step-1 dosen penanggung jawab, step-2 PLP lab.
type ApprovalMatrix struct {
	gorm.Model
	LabID           uint  `json:"lab_id" gorm:"uniqueIndex;not null"`
	Lab             Lab   `json:"lab,omitempty"`
	Step1ApproverID *uint `json:"step1_approver_id"`
	Step1Approver   *User `json:"step1_approver,omitempty" gorm:"foreignKey:Step1ApproverID"`
	Step2ApproverID *uint `json:"step2_approver_id"`
	Step2Approver   *User `json:"step2_approver,omitempty" gorm:"foreignKey:Step2ApproverID"`
	IsActive        bool  `json:"is_active" gorm:"default:true"`
	CreatedBy       int
	UpdatedBy       int
}

// IsReady: pengajuan peminjaman baru hanya boleh dibuat saat matriks aktif
// dan kedua penyetuju sudah ditunjuk.
func (m *ApprovalMatrix) IsReady() bool {
	return m != nil && m.IsActive && m.Step1ApproverID != nil && m.Step2ApproverID != nil
}
