package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// shareTokenBytes is the amount of randomness behind a share token.
// 16 bytes gives 128 bits of entropy, which makes share links
// unguessable; the token is the only thing protecting a shared note.
const shareTokenBytes = 16

// NewShareToken returns a fresh cryptographically random share token
// (32 hex characters). A new token is generated on every share action,
// never reused, so a link leaked before an unshare/re-share cycle can
// never resolve again.
func NewShareToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
