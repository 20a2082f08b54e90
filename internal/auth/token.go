package auth

import (
	"fmt"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rookgm/tiffin/internal/models"
	"time"
)

// default token lifetime
const tokenTTL = 12 * time.Hour

// AuthToken creates and verifies HS256 operator tokens
type AuthToken struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewAuthToken creates new AuthToken instance
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{
		key: key,
		ttl: tokenTTL,
		now: time.Now,
	}
}

// CreateToken creates signed token for subject
func (at *AuthToken) CreateToken(subject string) (string, error) {
	now := at.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(at.ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(at.key)
}

// VerifyToken checks token signature and expiration and returns its payload
func (at *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return at.key, nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, models.ErrInvalidToken
	}

	payload := &models.TokenPayload{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		payload.ExpiresAt = claims.ExpiresAt.Time
	}

	return payload, nil
}
