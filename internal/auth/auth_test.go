package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := MakeToken("admin-id", "admin", secret)
	require.NoError(t, err)

	claims, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "admin-id", claims.AdminID)
	assert.Equal(t, "admin", claims.Role)

	// 8h expiry
	diff := time.Until(claims.ExpiresAt.Time)
	if diff < 7*time.Hour+59*time.Minute || diff > 8*time.Hour+time.Minute {
		t.Errorf("expected ~8h expiry, got %v", diff)
	}
}

func TestExpiredToken(t *testing.T) {
	tok, err := makeToken("admin-id", "admin", secret, time.Now().Add(-9*time.Hour))
	require.NoError(t, err)

	_, err = ParseToken(tok, secret)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestAlgorithmConfusion(t *testing.T) {
	tok, _ := MakeToken("uid", "admin", secret)

	// wrong secret fails
	_, err := ParseToken(tok, "wrong-secret")
	assert.ErrorIs(t, err, ErrBadToken)

	// garbage token fails
	_, err = ParseToken("not.a.token", secret)
	assert.ErrorIs(t, err, ErrBadToken)

	// unsigned token fails
	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{AdminID: "uid", Role: "admin"})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(raw, secret)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestMissingSecret(t *testing.T) {
	_, err := MakeToken("uid", "admin", "")
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = ParseToken("x.y.z", "")
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestNewAdmin(t *testing.T) {
	a, err := NewAdmin("ops", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "ops", a.Username)
	assert.Equal(t, "admin", a.Role)
	assert.NotEqual(t, "hunter22", a.PasswordHash)
	assert.True(t, CheckPassword(a.PasswordHash, "hunter22"))
}
