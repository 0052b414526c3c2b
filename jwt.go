package main

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager signs and verifies tokens with a symmetric secret held only by
// this process. Configured once at startup, never mutated.
type JWTManager struct {
	secret []byte
	issuer string
	expire time.Duration
}

func NewJWTManager(secret, issuer string, expireSeconds int) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		expire: time.Duration(expireSeconds) * time.Second,
	}, nil
}

type TokenClaims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	jwt.RegisteredClaims
}

func (m *JWTManager) GenerateToken(u *User) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(m.expire)
	claims := TokenClaims{
		UserID: u.ID,
		Name:   u.Name,
		Avatar: u.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	return signed, exp, err
}

// errInvalidToken is the single failure returned for every verification
// problem: bad signature, expiry, malformed input. Callers must not be able
// to tell which check failed.
var errInvalidToken = errors.New("invalid token")

func (m *JWTManager) VerifyToken(tokenStr string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, errInvalidToken
	}
	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errInvalidToken
}
