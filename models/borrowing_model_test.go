package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -2)
	future := now.AddDate(0, 0, 2)

	// Aktif lewat jatuh tempo tampil overdue
	trx := BorrowingTransaction{Status: BorrowingStatusActive, DueDate: &past}
	assert.Equal(t, BorrowingStatusOverdue, trx.DisplayStatus(now))

	trx = BorrowingTransaction{Status: BorrowingStatusPartiallyReturned, DueDate: &past}
	assert.Equal(t, BorrowingStatusOverdue, trx.DisplayStatus(now))

	// Belum jatuh tempo
	trx = BorrowingTransaction{Status: BorrowingStatusActive, DueDate: &future}
	assert.Equal(t, BorrowingStatusActive, trx.DisplayStatus(now))

	// Status terminal tidak pernah overdue walau tanggal lewat
	trx = BorrowingTransaction{Status: BorrowingStatusCompleted, DueDate: &past}
	assert.Equal(t, BorrowingStatusCompleted, trx.DisplayStatus(now))

	trx = BorrowingTransaction{Status: BorrowingStatusPendingApproval}
	assert.Equal(t, BorrowingStatusPendingApproval, trx.DisplayStatus(now))
}

func TestStatusForCondition(t *testing.T) {
	assert.Equal(t, AssetStatusAvailable, StatusForCondition(ConditionBaik))
	assert.Equal(t, AssetStatusMaintenance, StatusForCondition(ConditionMaintenance))
	assert.Equal(t, AssetStatusDamaged, StatusForCondition(ConditionDamaged))
	assert.Equal(t, "", StatusForCondition("hancur"))
}
