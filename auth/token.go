package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of the locally signed session token.
type SessionClaims struct {
	UserID   string `json:"user_id"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// TokenSigner issues and validates HS256 session tokens. The secret comes
// from configuration; it only has to be stable across restarts of the same
// local install, not shared with anyone.
type TokenSigner struct {
	secret   []byte
	duration time.Duration
}

func NewTokenSigner(secret string, duration time.Duration) TokenSigner {
	return TokenSigner{secret: []byte(secret), duration: duration}
}

func (s TokenSigner) Generate(userID, userType string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID:   userID,
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "partyverse",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s TokenSigner) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
