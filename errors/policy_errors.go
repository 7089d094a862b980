// errors/policy_errors.go
package errors

import "errors"

var (
	ErrPolicyNotFound        = errors.New("policy not found")
	ErrDatabaseOperation     = errors.New("database operation failed")
	ErrInvalidPolicyData     = errors.New("invalid policy data")
	ErrPolicyConflict        = errors.New("policy conflict")
	ErrPolicyValidation      = errors.New("policy validation failed")
	ErrInternalServer        = errors.New("internal server error")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidPagination     = errors.New("invalid pagination parameters")
	ErrInvalidSearchCriteria = errors.New("invalid search criteria")
)
