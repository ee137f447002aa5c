package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type JwtCustomClaim struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

// TokenIssuer signs and checks the bearer tokens handed out at login.
type TokenIssuer struct {
	secret   []byte
	lifespan time.Duration
}

func NewTokenIssuer(secret string, lifespanHours int) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(secret),
		lifespan: time.Duration(lifespanHours) * time.Hour,
	}
}

func (ti *TokenIssuer) JwtGenerate(userID, email, role string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaim{
		ID:    userID,
		Email: email,
		Role:  role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(ti.lifespan).Unix(),
			IssuedAt:  now.Unix(),
		},
	})
	return t.SignedString(ti.secret)
}

func (ti *TokenIssuer) JwtValidate(token string) (*JwtCustomClaim, error) {
	parsed, err := jwt.ParseWithClaims(token, &JwtCustomClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return ti.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*JwtCustomClaim)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
