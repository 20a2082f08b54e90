package models

import "errors"

var (
	ErrConflictData        = errors.New("data conflicts with existing data")
	ErrDataNotFound        = errors.New("data not found")
	ErrNotApplicable       = errors.New("billing month is outside of order date range")
	ErrConcurrencyConflict = errors.New("concurrent billing update, retry later")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInternalError       = errors.New("internal error")
)
