package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/itportal/internal/common"
	"github.com/dmitrijs2005/itportal/internal/models"
)

// Claims carry the account snapshot inside an HS256 token.
type Claims struct {
	jwt.RegisteredClaims
	Account models.Account `json:"account"`
}

// EncodeSnapshot signs a copy of acc, without its password digest, valid
// for ttl from now.
func EncodeSnapshot(acc models.Account, secretKey []byte, ttl time.Duration, now time.Time) (string, error) {
	acc.Password = ""
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Account: acc,
	})
	return token.SignedString(secretKey)
}

// DecodeSnapshot verifies tokenString and returns the account it carries.
// Expired tokens yield common.ErrTokenExpired, anything else unusable
// yields common.ErrInvalidToken.
func DecodeSnapshot(tokenString string, secretKey []byte, now time.Time) (models.Account, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Account{}, common.ErrTokenExpired
		}
		return models.Account{}, common.ErrInvalidToken
	}
	if !token.Valid || claims.Account.Email == "" || claims.Subject != claims.Account.Email {
		return models.Account{}, common.ErrInvalidToken
	}

	return claims.Account, nil
}
