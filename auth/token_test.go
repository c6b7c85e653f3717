package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, expiresAt, err := CreateAccessToken(userID, testSecret, 24)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	got, err := ExtractUserID(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestExpiredTokenFailsEvenWithValidSignature(t *testing.T) {
	token, _, err := CreateAccessToken(uuid.New(), testSecret, -1)
	require.NoError(t, err)

	_, err = ExtractUserID(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestWrongSecretFails(t *testing.T) {
	token, _, err := CreateAccessToken(uuid.New(), testSecret, 24)
	require.NoError(t, err)

	_, err = ExtractUserID(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestMalformedTokenFails(t *testing.T) {
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := ExtractUserID(tok, testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tok)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
