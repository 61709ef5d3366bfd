package storage

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOperationNotFound = errors.New("operation not found")
	ErrMachineNotFound   = errors.New("machine not found")
	ErrClaimLost         = errors.New("conversion claim lost")
	ErrDuplicate         = errors.New("duplicate key")
)
