package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentCallbackLogStatus string

const (
	PaymentCallbackLogStatusReceived  PaymentCallbackLogStatus = "received"
	PaymentCallbackLogStatusResolved  PaymentCallbackLogStatus = "resolved"
	PaymentCallbackLogStatusUnknown   PaymentCallbackLogStatus = "unknown"
	PaymentCallbackLogStatusDuplicate PaymentCallbackLogStatus = "duplicate"
	PaymentCallbackLogStatusMalformed PaymentCallbackLogStatus = "malformed"
	PaymentCallbackLogStatusFailed    PaymentCallbackLogStatus = "handle_failed"
)

// PaymentCallbackLog is one audit entry for a provider callback. A callback
// normally produces two rows: "received" with the raw payload and one outcome row.
type PaymentCallbackLog struct {
	ID                string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ProviderID        string                   `gorm:"column:provider_id;type:varchar(64);not null" json:"provider_id"`
	Kind              string                   `gorm:"column:kind;type:varchar(32);not null" json:"kind"`
	TraceID           string                   `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	CheckoutRequestID string                   `gorm:"column:checkout_request_id;type:varchar(128);index" json:"checkout_request_id"`
	MerchantRequestID string                   `gorm:"column:merchant_request_id;type:varchar(128)" json:"merchant_request_id"`
	ReceivedAt        time.Time                `gorm:"column:received_at;index" json:"received_at"`
	Data              datatypes.JSON           `gorm:"column:data;type:jsonb" json:"data"`
	Result            *datatypes.JSON          `gorm:"column:result;type:jsonb" json:"result,omitempty"`
	Status            PaymentCallbackLogStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

func (PaymentCallbackLog) TableName() string { return "payment_callback_log" }
