package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidAge       = errors.New("age must be between 0 and 120")
	ErrFieldTooLong     = errors.New("field value is too long")
	ErrEmptyUsername    = errors.New("username is required")
	ErrEmptyPassword    = errors.New("password is required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmptySecret      = errors.New("admin secret is required")
)
