package security

import (
	"WorkUs/internal/api/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	require.NoError(t, InitJWT(config.JWTConfig{Secret: "s3cret", Issuer: "workus-test"}))

	token, err := GenerateToken("admin-1", "boss@x.com", []string{"admin"})
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.UserID)
	assert.Equal(t, "boss@x.com", claims.Email)
	assert.Equal(t, []string{"admin"}, claims.Roles)
}

func TestTokenWrongSecret(t *testing.T) {
	require.NoError(t, InitJWT(config.JWTConfig{Secret: "one"}))
	token, err := GenerateToken("u", "", nil)
	require.NoError(t, err)

	require.NoError(t, InitJWT(config.JWTConfig{Secret: "two"}))
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestInitJWTRequiresSecret(t *testing.T) {
	assert.Error(t, InitJWT(config.JWTConfig{}))
}
