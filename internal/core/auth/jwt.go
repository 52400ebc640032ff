package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Distinct failure modes so callers can tell a stale session from a
// forged or mangled one.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	jwt.RegisteredClaims
}

// JWTer mints and validates the stateless session tokens. The secret is
// process-wide configuration; tokens are never stored and never revoked,
// they simply run out their TTL.
type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Issue signs a token asserting subject = uid, expiring after TTL.
func (j *JWTer) Issue(uid string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// Parse returns the subject the token asserts. Expiry is exact, no leeway.
func (j *JWTer) Parse(tokenStr string) (string, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.Subject == "" {
		return "", ErrTokenInvalid
	}
	return c.Subject, nil
}
