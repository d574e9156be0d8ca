package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrStaffNotFound      = errors.New("staff member not found")
)
