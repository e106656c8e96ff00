package jwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tok, err := Issue("secret", 7, "client", "sess-1", 1)
	require.NoError(t, err)

	claims, err := ParseAuth("Bearer "+tok, "secret")
	require.NoError(t, err)
	require.EqualValues(t, 7, claims["sub"])
	require.Equal(t, "client", claims["role"])
	require.Equal(t, "sess-1", claims["sid"])
}

func TestParseAuth_BadInput(t *testing.T) {
	if _, err := ParseAuth("", "secret"); err == nil {
		t.Fatal("expected error for empty header")
	}
	if _, err := ParseAuth("Bearer ", "secret"); err == nil {
		t.Fatal("expected error for empty token")
	}

	tok, _ := Issue("secret", 7, "client", "", 1)
	if _, err := ParseAuth("Bearer "+tok, "other-secret"); err == nil {
		t.Fatal("expected error for wrong key")
	}
}
