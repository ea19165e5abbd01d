package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrPlanNotAvailable   = errors.New("plan not found or inactive")
	ErrGatewayDeclined    = errors.New("payment gateway declined the request")
	ErrVerifyInProgress   = errors.New("verification already in progress")
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
