package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmailFormat(t *testing.T) {
	valid := []string{
		"ana@nisum.cl",
		"first.last+tag@sub.domain.com",
		"A_B%c-d@x-y.org",
	}
	for _, e := range valid {
		assert.NoError(t, ValidateEmailFormat(e), e)
	}

	invalid := []string{
		"",
		"bad-email",
		"ana@nisum",
		"ana@nisum.c",
		"ana@nisum.c1",
		"@nisum.cl",
		"ana@.cl.",
		"ana nisum@x.cl",
		"ana@nisum.cl\n",
	}
	for _, e := range invalid {
		assert.ErrorIs(t, ValidateEmailFormat(e), ErrInvalidEmailFormat, e)
	}
}

func TestValidatePassword(t *testing.T) {
	valid := []string{
		"Abcd1234",
		"Nisum123.",
		"123Acb144*",
		"Aa1!Aa1!Aa1!Aa1!", // 16
		"Ñandú1aZ",
	}
	for _, p := range valid {
		assert.NoError(t, ValidatePassword(p), p)
	}

	invalid := []string{
		"",
		"Abc123",            // too short
		"Abcd1234Abcd12345", // 17
		"abcd1234",          // no upper
		"ABCD1234",          // no lower
		"Abcdefgh",          // no digit
		"Abcd\n1234",
	}
	for _, p := range invalid {
		assert.ErrorIs(t, ValidatePassword(p), ErrInvalidPasswordFormat, p)
	}
}
