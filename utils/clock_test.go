package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEndOfDay(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)

	// Pagi hari lokal
	got := EndOfDay(time.Date(2026, 3, 10, 8, 30, 0, 0, wib), wib)
	assert.Equal(t, time.Date(2026, 3, 10, 23, 59, 59, 0, wib), got)

	// Waktu UTC dikonversi dulu ke hari kalender lokal:
	// 2026-03-10 18:00 UTC adalah 2026-03-11 01:00 WIB
	got = EndOfDay(time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC), wib)
	assert.Equal(t, time.Date(2026, 3, 11, 23, 59, 59, 0, wib), got)
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := FixedClock{T: at}
	assert.Equal(t, at, clock.Now())
}
