package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	err := Conflictf("kode bentrok")
	wrapped := fmt.Errorf("saat membuat transaksi: %w", err)

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(wrapped, KindValidation))
	assert.Equal(t, Kind(0), KindOf(errors.New("bukan apperr")))
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validationf("x"), fiber.StatusBadRequest},
		{NotFoundf("x"), fiber.StatusNotFound},
		{Authorizationf("x"), fiber.StatusForbidden},
		{Preconditionf("x"), fiber.StatusUnprocessableEntity},
		{Conflictf("x"), fiber.StatusConflict},
		{errors.New("internal"), fiber.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, HTTPStatus(c.err))
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("koneksi putus")
	err := Wrap(KindPrecondition, "gagal memuat lab", cause)
	assert.Equal(t, "gagal memuat lab: koneksi putus", err.Error())
	assert.ErrorIs(t, err, cause)
}
