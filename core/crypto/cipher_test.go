package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCipherRequiresKey(t *testing.T) {
	_, err := NewCipher("")
	assert.Error(t, err)
}

func TestSealOpenRoundTrip(t *testing.T) {
	c, err := NewCipher("unit-test-key")
	require.NoError(t, err)

	sealed, err := c.Seal("ya29.secret-access-token")
	require.NoError(t, err)
	assert.NotEqual(t, "ya29.secret-access-token", sealed)

	opened, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "ya29.secret-access-token", opened)
}

func TestSealIsRandomized(t *testing.T) {
	c, err := NewCipher("unit-test-key")
	require.NoError(t, err)

	a, err := c.Seal("same-plaintext")
	require.NoError(t, err)
	b, err := c.Seal("same-plaintext")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "fresh nonce per seal")
}

func TestOpenRejectsTamperedValue(t *testing.T) {
	c, err := NewCipher("unit-test-key")
	require.NoError(t, err)

	sealed, err := c.Seal("payload")
	require.NoError(t, err)

	tampered := []byte(sealed)
	tampered[len(tampered)-1] ^= 1
	_, err = c.Open(string(tampered))
	assert.Error(t, err)
}

func TestOpenRejectsWrongKey(t *testing.T) {
	a, err := NewCipher("key-one")
	require.NoError(t, err)
	b, err := NewCipher("key-two")
	require.NoError(t, err)

	sealed, err := a.Seal("payload")
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.Error(t, err)
}

func TestOpenRejectsGarbage(t *testing.T) {
	c, err := NewCipher("unit-test-key")
	require.NoError(t, err)

	_, err = c.Open("not base64!!!")
	assert.Error(t, err)
	_, err = c.Open("c2hvcnQ")
	assert.Error(t, err)
}
