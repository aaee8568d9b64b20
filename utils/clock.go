package utils

import "time"

// Clock disuntikkan ke engine supaya "sekarang" bisa disimulasikan di test.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock selalu mengembalikan waktu yang sama.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// EndOfDay mengembalikan 23:59:59 pada hari kalender t di zona loc.
// Dipakai untuk resolusi tanggal jatuh tempo peminjaman.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 0, loc)
}
