package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const SessionCookie = "session"

// SessionClaims is the minimal marker kept by the client after login.
// It carries no expiry: the session lasts until logout.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func CreateSessionToken(username string, secret []byte, now time.Time) (string, error) {
	claims := SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  username,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tkn.SignedString(secret)
}

func SessionClaimsFromToken(tokenStr string, secret []byte) (*SessionClaims, error) {
	var claims SessionClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.Username == "" {
		return nil, errors.New("invalid session token")
	}
	return &claims, nil
}
