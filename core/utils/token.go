package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ManageClaims authorizes settings writes for a single booking slug. Issued
// after a successful OAuth callback, carried back by the setup page.
type ManageClaims struct {
	Slug string `json:"slug"`
	jwt.RegisteredClaims
}

func IssueManageToken(secret, slug string, ttl time.Duration) (string, error) {
	claims := &ManageClaims{
		Slug: slug,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseManageToken validates a manage token and returns the slug it is bound
// to.
func ParseManageToken(secret, tokenString string) (string, error) {
	claims := &ManageClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Slug == "" {
		return "", fmt.Errorf("invalid manage token")
	}
	return claims.Slug, nil
}
