package security

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aftab6393/finmini/internal/core/domain"
)

func TestPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, CheckPassword("password123", hash))
	assert.False(t, CheckPassword("password124", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestTokenRoundtrip(t *testing.T) {
	secret := []byte("test-secret")
	accountID := uuid.New()

	token, err := NewToken(secret, accountID, domain.RoleStandard, time.Hour)
	require.NoError(t, err)

	gotID, gotRole, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, accountID, gotID)
	assert.Equal(t, domain.RoleStandard, gotRole)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewToken([]byte("secret-a"), uuid.New(), domain.RoleAdmin, time.Hour)
	require.NoError(t, err)

	_, _, err = ParseToken([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := NewToken(secret, uuid.New(), domain.RoleStandard, -time.Minute)
	require.NoError(t, err)

	_, _, err = ParseToken(secret, token)
	assert.Error(t, err)
}

func TestTokenTampered(t *testing.T) {
	secret := []byte("test-secret")
	token, err := NewToken(secret, uuid.New(), domain.RoleStandard, time.Hour)
	require.NoError(t, err)

	_, _, err = ParseToken(secret, token+"x")
	assert.Error(t, err)

	_, _, err = ParseToken(secret, "not-a-token")
	assert.Error(t, err)
}
