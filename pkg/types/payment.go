package types

type PaymentProvider string

const (
	PaymentProviderMpesa PaymentProvider = "mpesa"
)

// PaymentStatus is the lifecycle state of a tracked payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	// PaymentStatusTimedOut is only ever observed by a waiter that gave up;
	// the registry never stores it.
	PaymentStatusTimedOut PaymentStatus = "TIMED_OUT"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// ResolutionCause tells which provider callback settled a payment.
type ResolutionCause string

const (
	ResolutionCauseCallback ResolutionCause = "callback"
	ResolutionCauseTimedOut ResolutionCause = "timedOut"
)

// CallbackKind identifies the provider endpoint that delivered a callback.
type CallbackKind string

const (
	CallbackKindSTK     CallbackKind = "stk_callback"
	CallbackKindTimeout CallbackKind = "timeout"
)
