package domain

import "novastay/internal/pkg/validator"

// ErrValidation is matched with errors.Is on any FieldErrors value.
var ErrValidation = validator.ErrInvalid

type FieldErrors = validator.Errors
