package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDocumentCode(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Dokumen pertama
	assert.Equal(t, "TRX-20260310-0001", NextDocumentCode("", BorrowingCodePrefix, now))

	// Hari yang sama: sequence naik
	assert.Equal(t, "TRX-20260310-0002", NextDocumentCode("TRX-20260310-0001", BorrowingCodePrefix, now))
	assert.Equal(t, "TRX-20260310-0100", NextDocumentCode("TRX-20260310-0099", BorrowingCodePrefix, now))

	// Ganti tanggal: sequence di-reset
	next := now.AddDate(0, 0, 1)
	assert.Equal(t, "TRX-20260311-0001", NextDocumentCode("TRX-20260310-0042", BorrowingCodePrefix, next))

	// Prefix berbeda tidak melanjutkan sequence
	assert.Equal(t, "MRQ-20260310-0001", NextDocumentCode("TRX-20260310-0042", MaterialRequestCodePrefix, now))

	// Kode rusak dianggap mulai dari awal
	assert.Equal(t, "TRX-20260310-0001", NextDocumentCode("TRX-ANEH", BorrowingCodePrefix, now))
}
