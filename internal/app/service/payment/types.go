package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fatflowers/paytrack/internal/app/service/registry"
	"github.com/fatflowers/paytrack/pkg/types"
)

type InitiateRequest struct {
	PhoneNumber string          `json:"phone_number" binding:"required"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
	Description string          `json:"description"`
	// Context is free conversation text used to infer a description when none is given.
	Context string `json:"context"`
}

// Initiation is the provider acknowledgement of a push request.
type Initiation struct {
	CorrelationID     string `json:"checkout_request_id"`
	MerchantRequestID string `json:"merchant_request_id"`
	CustomerMessage   string `json:"customer_message"`
}

// ProviderStatus is the provider's own view of a push request.
type ProviderStatus struct {
	CorrelationID string `json:"checkout_request_id"`
	ResultCode    string `json:"result_code"`
	ResultDesc    string `json:"result_desc"`
}

// Provider is the payment provider boundary. It does not retry.
type Provider interface {
	InitiatePayment(ctx context.Context, phone string, amount decimal.Decimal, description string) (*Initiation, error)
	QueryPayment(ctx context.Context, correlationID string) (*ProviderStatus, error)
}

// Tracker is the registry surface used by this package.
type Tracker interface {
	Register(correlationID string, md registry.Metadata) (registry.PaymentRecord, error)
	Get(correlationID string) (registry.PaymentRecord, error)
	WaitForTerminal(ctx context.Context, correlationID string, timeout time.Duration) (registry.WaitResult, error)
}

// StatusView is what callers and presentation layers see for a payment.
type StatusView struct {
	CorrelationID string                  `json:"checkout_request_id"`
	Status        types.PaymentStatus     `json:"status"`
	Message       string                  `json:"message"`
	Found         bool                    `json:"found"`
	Record        *registry.PaymentRecord `json:"record,omitempty"`
}
