package oidc

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-key"))
	require.NoError(t, err)
	return s
}

func TestInsecureVerifier_ParsesClaims(t *testing.T) {
	v := NewInsecureVerifier()
	raw := signed(t, jwt.MapClaims{"sub": "user_1", "email": "a@example.com", "name": "Ann"})

	tok, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "user_1", claims["sub"])
	require.Equal(t, "Ann", claims["name"])
}

func TestInsecureVerifier_Rejects(t *testing.T) {
	v := NewInsecureVerifier()
	for name, raw := range map[string]string{
		"garbage":    "not-a-token",
		"no subject": signed(t, jwt.MapClaims{"email": "a@example.com"}),
	} {
		_, err := v.Verify(context.Background(), raw)
		require.Error(t, err, name)
	}
}

func TestIssuer(t *testing.T) {
	require.Equal(t, "https://kc.example.com/realms/prompthub", Issuer("https://kc.example.com/", "prompthub"))
	require.Equal(t, "https://kc.example.com/realms/x", Issuer("https://kc.example.com/realms/x", ""))
}
