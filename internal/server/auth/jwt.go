// Package auth issues and validates bearer tokens (HS256 JWT).
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/carblock/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// RefreshGrace is how long after expiry a token may still be exchanged for
// a fresh one. Past the grace window the user re-authenticates by phone.
const RefreshGrace = 30 * time.Minute

type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
	})
	return token.SignedString(secretKey)
}

// GetUserIDFromToken validates the token and returns the bound user id.
// Expired tokens yield common.ErrTokenExpired so the transport layer can
// distinguish "refresh me" from "re-authenticate".
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}
	if !token.Valid {
		return "", common.ErrInvalidToken
	}
	return claims.UserID, nil
}

// GetUserIDForRefresh accepts a token whose signature is valid and whose
// expiry is either in the future or within RefreshGrace in the past, and
// returns the bound user id. Anything older is common.ErrTokenExpired.
func GetUserIDForRefresh(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", common.ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return "", common.ErrInvalidToken
	}
	if time.Since(claims.ExpiresAt.Time) > RefreshGrace {
		return "", common.ErrTokenExpired
	}
	if claims.UserID == "" {
		return "", common.ErrInvalidToken
	}
	return claims.UserID, nil
}
