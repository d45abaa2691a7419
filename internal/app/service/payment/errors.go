package payment

import "errors"

var (
	ErrInvalidAmount = errors.New("amount must be greater than 0")
	// ErrInitiationFailure means the provider rejected or never acknowledged the push.
	ErrInitiationFailure = errors.New("payment initiation failed")
	// ErrRegistrationFailed means the provider accepted the push but it could not
	// be tracked locally; the payment needs manual reconciliation.
	ErrRegistrationFailed = errors.New("payment accepted by provider but not registered")
)
