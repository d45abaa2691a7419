package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fatflowers/paytrack/internal/app/service/registry"
	"github.com/fatflowers/paytrack/internal/platform/mpesa"
	"github.com/fatflowers/paytrack/pkg/config"
	"github.com/fatflowers/paytrack/pkg/logctx"
)

// Initiator sends push requests and registers them before returning, so a
// callback can never arrive for a payment the registry has not seen yet.
type Initiator struct {
	provider Provider
	tracker  Tracker
	log      *zap.SugaredLogger
	cfg      config.RegistryConfig
}

func NewInitiator(provider Provider, tracker Tracker, log *zap.SugaredLogger, cfg *config.Config) *Initiator {
	return &Initiator{provider: provider, tracker: tracker, log: log, cfg: cfg.Registry}
}

// Initiate pushes the payment to the customer's handset and registers it as PENDING.
func (i *Initiator) Initiate(ctx context.Context, req *InitiateRequest) (registry.PaymentRecord, error) {
	if req == nil {
		return registry.PaymentRecord{}, fmt.Errorf("nil request")
	}
	if !req.Amount.IsPositive() {
		return registry.PaymentRecord{}, fmt.Errorf("%w, got %s", ErrInvalidAmount, req.Amount.String())
	}
	phone, err := mpesa.NormalizePhone(req.PhoneNumber)
	if err != nil {
		return registry.PaymentRecord{}, err
	}
	description := req.Description
	if description == "" {
		description = InferDescription(req.Context)
	}
	lg := logctx.FromCtx(ctx, i.log)

	ack, err := i.provider.InitiatePayment(ctx, phone, req.Amount, description)
	if err != nil {
		lg.Warnw("payment_initiation_failed", "phone_number", phone, "error", err.Error())
		return registry.PaymentRecord{}, fmt.Errorf("%w: %w", ErrInitiationFailure, err)
	}
	if ack == nil || ack.CorrelationID == "" {
		return registry.PaymentRecord{}, fmt.Errorf("%w: provider returned no checkout request id", ErrInitiationFailure)
	}

	rec, err := i.tracker.Register(ack.CorrelationID, registry.Metadata{
		PhoneNumber:       phone,
		Amount:            req.Amount,
		Description:       description,
		MerchantRequestID: ack.MerchantRequestID,
	})
	if err != nil {
		// The customer may still confirm the push; only the audit log can reconcile it now.
		lg.Errorw("payment_registration_failed",
			"checkout_request_id", ack.CorrelationID,
			"merchant_request_id", ack.MerchantRequestID,
			"error", err.Error(),
		)
		return registry.PaymentRecord{}, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}
	return rec, nil
}

// InitiateAndWait initiates the payment then waits up to timeout for its
// outcome. A timed out wait is reported as TIMED_OUT, not as a failure.
func (i *Initiator) InitiateAndWait(ctx context.Context, req *InitiateRequest, timeout time.Duration) (StatusView, error) {
	rec, err := i.Initiate(ctx, req)
	if err != nil {
		return StatusView{}, err
	}
	res, err := i.tracker.WaitForTerminal(ctx, rec.CorrelationID, i.cfg.ClampWait(timeout))
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return StatusView{}, err
	}
	return viewFromWait(res), err
}
