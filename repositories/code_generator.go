package repositories

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	BorrowingCodePrefix       = "TRX"
	MaterialRequestCodePrefix = "MRQ"
)

// NextDocumentCode menghasilkan kode dokumen PREFIX-YYYYMMDD-NNNN.
// Sequence berjalan per hari dan di-reset saat tanggal berganti.
// Bentrok kode (dua generator membaca lastCode yang sama pada saat
// bersamaan) ditangkap unique index dan pemanggil mencoba ulang.
func NextDocumentCode(lastCode, prefix string, now time.Time) string {
	datePart := now.Format("20060102")
	seq := 1

	parts := strings.Split(lastCode, "-")
	if len(parts) == 3 && parts[0] == prefix && parts[1] == datePart {
		if lastSeq, err := strconv.Atoi(parts[2]); err == nil {
			seq = lastSeq + 1
		}
	}

	return fmt.Sprintf("%s-%s-%04d", prefix, datePart, seq)
}
