package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booktracker/internal/entities"
)

func testUser() *entities.User {
	return &entities.User{
		ID:    42,
		Email: "reader@example.com",
		Name:  "Test Reader",
		Role:  entities.UserRoleUser,
	}
}

func TestTokenManager_SignAndVerify(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Sign(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)
	assert.Equal(t, entities.UserRoleUser, claims.Role)
}

func TestTokenManager_Verify_Expired(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Sign(testUser())
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Verify_WrongSecret(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("different-secret", time.Hour)

	token, err := manager.Sign(testUser())
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Verify_Garbage(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	_, err := manager.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenManager_DefaultExpiry(t *testing.T) {
	manager := NewTokenManager("test-secret", 0)

	token, err := manager.Sign(testUser())
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 168*time.Hour, lifetime)
}

func TestGenerateSecret(t *testing.T) {
	first, err := GenerateSecret()
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := GenerateSecret()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
