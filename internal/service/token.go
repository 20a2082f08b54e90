package service

import "github.com/rookgm/tiffin/internal/models"

// TokenService verifies operator tokens
type TokenService interface {
	CreateToken(subject string) (string, error)
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}
