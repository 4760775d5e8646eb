package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShareTokenShape(t *testing.T) {
	tok, err := NewShareToken()
	require.NoError(t, err)
	assert.Len(t, tok, 32) // 16 bytes hex-encoded
	_, err = hex.DecodeString(tok)
	assert.NoError(t, err)
}

func TestNewShareTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		tok, err := NewShareToken()
		require.NoError(t, err)
		require.False(t, seen[tok], "duplicate share token after %d draws", i)
		seen[tok] = true
	}
}
