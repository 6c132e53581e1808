package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret")

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	userID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenPayloadShape(t *testing.T) {
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("secret").WithClock(fixedClock(issued))

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	user, ok := claims["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "user-1", user["id"])
	assert.Equal(t, float64(issued.Unix()), claims["iat"])
	assert.Equal(t, float64(issued.Add(24*time.Hour).Unix()), claims["exp"])
}

func TestTokenExpiry(t *testing.T) {
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	token, err := NewTokenIssuer("secret").WithClock(fixedClock(issued)).Issue("user-1")
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret").WithClock(fixedClock(issued.Add(TokenTTL - time.Second))).Verify(token)
	assert.NoError(t, err)

	_, err = NewTokenIssuer("secret").WithClock(fixedClock(issued.Add(TokenTTL))).Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = NewTokenIssuer("secret").WithClock(fixedClock(issued.Add(25 * time.Hour))).Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret").Issue("user-1")
	require.NoError(t, err)

	_, err = NewTokenIssuer("other").Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenTampered(t *testing.T) {
	token, err := NewTokenIssuer("secret").Issue("user-1")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged, err := NewTokenIssuer("attacker").Issue("user-2")
	require.NoError(t, err)
	parts[1] = strings.Split(forged, ".")[1]

	_, err = NewTokenIssuer("secret").Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenMalformed(t *testing.T) {
	_, err := NewTokenIssuer("secret").Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenNoneAlgorithm(t *testing.T) {
	claims := Claims{
		User: sessionUser{ID: "user-1"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret").Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenMissingUser(t *testing.T) {
	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret").Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
