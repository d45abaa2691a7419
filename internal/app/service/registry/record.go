package registry

import (
	"maps"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fatflowers/paytrack/pkg/types"
)

// Callback metadata item names sent by M-Pesa on a successful STK push.
const (
	DetailReceiptNumber   = "MpesaReceiptNumber"
	DetailTransactionDate = "TransactionDate"
	DetailAmount          = "Amount"
	DetailPhoneNumber     = "PhoneNumber"
)

// Metadata is captured at registration and never changes afterwards.
type Metadata struct {
	PhoneNumber       string          `json:"phone_number"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	MerchantRequestID string          `json:"merchant_request_id,omitempty"`
}

// PaymentRecord is a point-in-time copy of a tracked payment. Mutating it has
// no effect on the registry.
type PaymentRecord struct {
	CorrelationID string                `json:"correlation_id"`
	Metadata      Metadata              `json:"metadata"`
	Status        types.PaymentStatus   `json:"status"`
	ResultCode    *int                  `json:"result_code,omitempty"`
	ResultDesc    string                `json:"result_desc,omitempty"`
	Cause         types.ResolutionCause `json:"cause,omitempty"`
	ResultDetails map[string]any        `json:"result_details,omitempty"`
	RegisteredAt  time.Time             `json:"registered_at"`
	ResolvedAt    *time.Time            `json:"resolved_at,omitempty"`
}

// Receipt returns the M-Pesa receipt number of a completed payment, or "".
func (r PaymentRecord) Receipt() string {
	if v, ok := r.ResultDetails[DetailReceiptNumber].(string); ok {
		return v
	}
	return ""
}

func (r PaymentRecord) clone() PaymentRecord {
	out := r
	out.ResultDetails = maps.Clone(r.ResultDetails)
	if r.ResultCode != nil {
		code := *r.ResultCode
		out.ResultCode = &code
	}
	if r.ResolvedAt != nil {
		at := *r.ResolvedAt
		out.ResolvedAt = &at
	}
	return out
}

// Outcome is the terminal result reported by the provider.
type Outcome struct {
	Status     types.PaymentStatus
	ResultCode int
	ResultDesc string
	Cause      types.ResolutionCause
	Details    map[string]any
}

// ResolvedEvent is published to listeners after every successful resolution.
// Late is set when at least one waiter had already timed out on the payment.
type ResolvedEvent struct {
	Record PaymentRecord
	Late   bool
}

// Listener receives resolution events. Implementations must not block.
type Listener interface {
	PaymentResolved(ev ResolvedEvent)
}

// WaitResult is returned by WaitForTerminal. TimedOut means the record was
// still PENDING when the wait gave up; it is not a failure.
type WaitResult struct {
	Record   PaymentRecord `json:"record"`
	TimedOut bool          `json:"timed_out"`
}

// ObservedStatus folds a timed out wait into TIMED_OUT.
func (w WaitResult) ObservedStatus() types.PaymentStatus {
	if w.TimedOut {
		return types.PaymentStatusTimedOut
	}
	return w.Record.Status
}
