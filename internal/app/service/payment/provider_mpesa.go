package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fatflowers/paytrack/internal/platform/mpesa"
	"github.com/fatflowers/paytrack/pkg/config"
)

// MpesaProvider adapts the Daraja client to Provider.
type MpesaProvider struct {
	client           *mpesa.Client
	accountReference string
}

func NewMpesaProvider(client *mpesa.Client, cfg *config.Config) Provider {
	return &MpesaProvider{client: client, accountReference: cfg.Mpesa.AccountReference}
}

func (p *MpesaProvider) InitiatePayment(ctx context.Context, phone string, amount decimal.Decimal, description string) (*Initiation, error) {
	resp, err := p.client.STKPush(ctx, mpesa.STKPushRequest{
		PhoneNumber:      phone,
		Amount:           amount,
		AccountReference: p.accountReference,
		TransactionDesc:  description,
	})
	if err != nil {
		return nil, err
	}
	return &Initiation{
		CorrelationID:     resp.CheckoutRequestID,
		MerchantRequestID: resp.MerchantRequestID,
		CustomerMessage:   resp.CustomerMessage,
	}, nil
}

func (p *MpesaProvider) QueryPayment(ctx context.Context, correlationID string) (*ProviderStatus, error) {
	resp, err := p.client.STKQuery(ctx, correlationID)
	if err != nil {
		return nil, err
	}
	return &ProviderStatus{CorrelationID: resp.CheckoutRequestID, ResultCode: resp.ResultCode, ResultDesc: resp.ResultDesc}, nil
}
