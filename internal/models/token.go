package models

import "time"

// TokenPayload is payload of operator token
type TokenPayload struct {
	Subject   string
	ExpiresAt time.Time
}
