package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	// MinCost keeps the bcrypt rounds cheap in tests.
	return NewService("test-secret", "progress-analyzer", time.Hour, 4)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateToken(42, "intern@example.com", "intern")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "intern@example.com", claims.Email)
	assert.Equal(t, "intern", claims.Role)
	assert.Equal(t, "progress-analyzer", claims.Issuer)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := newTestService().GenerateToken(1, "a@b.com", "admin")
	require.NoError(t, err)

	other := NewService("different-secret", "progress-analyzer", time.Hour, 4)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-secret", "progress-analyzer", -time.Minute, 4)

	token, err := svc.GenerateToken(1, "a@b.com", "intern")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := newTestService().ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	svc := newTestService()

	hash, err := svc.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, svc.CheckPassword(hash, "s3cret-pass"))
	assert.ErrorIs(t, svc.CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}
