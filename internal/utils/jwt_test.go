// internal/utils/jwt_test.go
package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	accountID := uuid.New()
	token, err := GenerateJWT(accountID, "walleteer", "0xabc123", 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, accountID.String(), claims.AccountID)
	assert.Equal(t, "walleteer", claims.Username)
	assert.Equal(t, "0xabc123", claims.Address)
	assert.Equal(t, "pharmatrace", claims.Issuer)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	SetJWTSecret("first-secret")
	token, err := GenerateJWT(uuid.New(), "walleteer", "0xabc123", 1)
	require.NoError(t, err)

	SetJWTSecret("second-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	SetJWTSecret("test-secret")
	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestGenerateAddress(t *testing.T) {
	first, err := GenerateAddress()
	require.NoError(t, err)
	second, err := GenerateAddress()
	require.NoError(t, err)

	assert.Len(t, first, 42)
	assert.True(t, strings.HasPrefix(first, "0x"))
	assert.NotEqual(t, first, second)
}
