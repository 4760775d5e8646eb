package utils // package utils provides helper functions for tokens and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// SessionToken represents a signed JWT session credential along with
// its expiry. The Token field contains the JWT string. Exp stores the
// expiration timestamp as a time.Time. Session tokens are sent in the
// Authorization header when calling protected endpoints.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// SessionClaims is the decoded identity carried by a valid session
// token: the user's id (sub claim) and email.
type SessionClaims struct {
	UserID uint64
	Email  string
}

// ErrInvalidToken is returned by VerifySessionToken for any token that
// cannot be accepted: malformed, wrong signature, wrong algorithm or
// expired. Callers deliberately get no further detail.
var ErrInvalidToken = errors.New("invalid token")

// NewSessionToken builds and signs an HS256 JWT for a user. It takes
// the signing secret, the user ID, the user's email, and a TTL in
// hours. The JWT includes standard claims: subject (sub), email,
// expiration (exp) and issued at (iat).
func NewSessionToken(secret string, userID uint64, email string, ttlHours int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// VerifySessionToken parses and validates a session token and returns
// the identity it carries. Any failure collapses into ErrInvalidToken
// so the API never reveals which check rejected the credential.
func VerifySessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return SessionClaims{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	return SessionClaims{UserID: uint64(sub), Email: email}, nil
}
