package registry

import "errors"

var (
	ErrInvalidCorrelationID   = errors.New("correlation id is empty")
	ErrDuplicateCorrelationID = errors.New("duplicate correlation id")
	ErrUnknownCorrelationID   = errors.New("unknown correlation id")
	ErrAlreadyResolved        = errors.New("payment already resolved")
	ErrNotFound               = errors.New("payment not found")
	ErrInvalidOutcome         = errors.New("outcome status must be terminal")
)
