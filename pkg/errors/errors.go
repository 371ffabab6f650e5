package errors

import "errors"

var (
	ErrInvalidCard      = errors.New("invalid card")
	ErrDuplicateCard    = errors.New("duplicate card")
	ErrInvalidDeal      = errors.New("invalid deal")
	ErrEmptyBatch       = errors.New("batch is empty")
	ErrBatchTooLarge    = errors.New("batch too large")
	ErrSolutionNotFound = errors.New("solution not found")
	ErrStorageDisabled  = errors.New("solution storage disabled")

	ErrUnauthorized         = errors.New("unauthorized")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrInvalidAdminPassword = errors.New("invalid username or password")
	ErrAdminDisabled        = errors.New("admin disabled")
)
