package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_LoginGrantsWriteCapability(t *testing.T) {
	a, err := NewAuthenticator("s3cret", "signing-key", time.Hour)
	require.NoError(t, err)

	token, expiresAt, err := a.Login("s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.True(t, claims.CanWrite())
}

func TestAuthenticator_WrongPassword(t *testing.T) {
	a, err := NewAuthenticator("s3cret", "signing-key", time.Hour)
	require.NoError(t, err)

	_, _, err = a.Login("guess")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestAuthenticator_RejectsForeignAndExpiredTokens(t *testing.T) {
	a, err := NewAuthenticator("s3cret", "signing-key", time.Hour)
	require.NoError(t, err)
	other, err := NewAuthenticator("s3cret", "other-key", time.Hour)
	require.NoError(t, err)

	foreign, _, err := other.Login("s3cret")
	require.NoError(t, err)
	_, err = a.Verify(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := a.Login("s3cret")
	require.NoError(t, err)
	a.now = time.Now
	_, err = a.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_GuestCannotWrite(t *testing.T) {
	var none *Claims
	assert.False(t, none.CanWrite())
	assert.False(t, (&Claims{Role: RoleGuest}).CanWrite())
}

func TestNewAuthenticator_RequiresSecrets(t *testing.T) {
	_, err := NewAuthenticator("", "key", time.Hour)
	assert.Error(t, err)
	_, err = NewAuthenticator("pw", "", time.Hour)
	assert.Error(t, err)
}
