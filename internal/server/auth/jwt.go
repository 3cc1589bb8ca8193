// Package auth issues and verifies the HS256 access tokens that carry the
// authenticated wallet address.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims embeds the registered claims and carries the wallet address.
type Claims struct {
	jwt.RegisteredClaims
	Address string `json:"address"`
}

func GenerateToken(address string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   address,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Address: address,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetAddressFromToken validates tokenString and returns its address.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// validation yields common.ErrInvalidToken.
func GetAddressFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Address == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Address, nil
}
