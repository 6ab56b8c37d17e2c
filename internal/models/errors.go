package models

import "errors"

var (
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidReference   = errors.New("invalid category or type")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNotFound           = errors.New("not found")
	ErrConnectionFailure  = errors.New("database connection failure")

	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidPeriod = errors.New("invalid period")
)

// IsValidation reports whether err was raised by input validation, before any write
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidEmail, ErrInvalidReference, ErrInvalidAmount,
		ErrInvalidInput, ErrInvalidDate, ErrInvalidPeriod,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
