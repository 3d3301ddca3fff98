package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	s := GenerateSlug("Alice.Smith@example.com")
	parts := strings.Split(s, "-")
	require.GreaterOrEqual(t, len(parts), 2)
	assert.Equal(t, strings.ToLower(s), s)
	assert.Len(t, parts[len(parts)-1], 6)

	// Long local parts are truncated, not rejected.
	long := GenerateSlug("averyveryverylongaddress@example.com")
	base := strings.TrimSuffix(long, "-"+long[len(long)-6:])
	assert.LessOrEqual(t, len(base), 12)

	// Two owners with the same email still get distinct slugs.
	assert.NotEqual(t, GenerateSlug("bob@example.com"), GenerateSlug("bob@example.com"))
}

func TestManageTokenRoundTrip(t *testing.T) {
	token, err := IssueManageToken("secret", "alice-x1y2z3", time.Hour)
	require.NoError(t, err)

	slug, err := ParseManageToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "alice-x1y2z3", slug)
}

func TestManageTokenWrongSecret(t *testing.T) {
	token, err := IssueManageToken("secret", "alice-x1y2z3", time.Hour)
	require.NoError(t, err)

	_, err = ParseManageToken("other-secret", token)
	assert.Error(t, err)
}

func TestManageTokenExpired(t *testing.T) {
	token, err := IssueManageToken("secret", "alice-x1y2z3", -time.Minute)
	require.NoError(t, err)

	_, err = ParseManageToken("secret", token)
	assert.Error(t, err)
}

func TestManageTokenGarbage(t *testing.T) {
	_, err := ParseManageToken("secret", "not-a-jwt")
	assert.Error(t, err)
}
