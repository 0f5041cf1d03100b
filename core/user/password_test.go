package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-Pass!")
	require.NoError(t, err)

	parts := strings.Split(hash, ":")
	require.Len(t, parts, 3)
	assert.Equal(t, "scrypt", parts[0])
	assert.Len(t, parts[1], saltLen*2)
	assert.Len(t, parts[2], keyLen*2)

	other, err := HashPassword("s3cret-Pass!")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salts must differ")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-Pass!")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("s3cret-Pass!", hash))
	assert.False(t, VerifyPassword("s3cret-pass!", hash))
	assert.False(t, VerifyPassword("", hash))

	for _, stored := range []string{
		"",
		"s3cret-Pass!",
		"bcrypt:00:00",
		"scrypt::abcd",
		"scrypt:zz:abcd",
		"scrypt:abcd:",
		"scrypt:abcd:zz",
		"scrypt:" + strings.Repeat("0", 32),
	} {
		assert.False(t, VerifyPassword("s3cret-Pass!", stored), stored)
	}
}

func TestUser_CheckPassword(t *testing.T) {
	var usr User
	assert.Equal(t, ErrInvalidCredentials, usr.CheckPassword(""))

	require.NoError(t, usr.SetPassword("s3cret-Pass!"))
	assert.NoError(t, usr.CheckPassword("s3cret-Pass!"))
	assert.Equal(t, ErrInvalidCredentials, usr.CheckPassword("wrong"))
}
