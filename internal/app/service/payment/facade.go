package payment

import (
	"context"
	"errors"
	"time"

	"github.com/fatflowers/paytrack/internal/app/service/registry"
	"github.com/fatflowers/paytrack/internal/platform/mpesa"
	"github.com/fatflowers/paytrack/pkg/config"
	"github.com/fatflowers/paytrack/pkg/types"
)

// Facade is the read side used by agent logic and the HTTP API.
type Facade struct {
	tracker  Tracker
	provider Provider
	cfg      config.RegistryConfig
}

func NewFacade(tracker Tracker, provider Provider, cfg *config.Config) *Facade {
	return &Facade{tracker: tracker, provider: provider, cfg: cfg.Registry}
}

// Register tracks a push initiated outside this process.
func (f *Facade) Register(correlationID string, md registry.Metadata) (registry.PaymentRecord, error) {
	if md.PhoneNumber != "" {
		phone, err := mpesa.NormalizePhone(md.PhoneNumber)
		if err != nil {
			return registry.PaymentRecord{}, err
		}
		md.PhoneNumber = phone
	}
	if md.Description == "" {
		md.Description = DefaultDescription
	}
	return f.tracker.Register(correlationID, md)
}

// Status never blocks. Unknown ids produce a view with Found=false.
func (f *Facade) Status(correlationID string) StatusView {
	rec, err := f.tracker.Get(correlationID)
	if err != nil {
		return StatusView{CorrelationID: correlationID, Message: notFoundMessage(correlationID)}
	}
	return viewFromRecord(rec, rec.Status)
}

// Wait blocks up to timeout for a terminal status. A zero timeout uses the
// configured default; larger values are capped.
func (f *Facade) Wait(ctx context.Context, correlationID string, timeout time.Duration) (StatusView, error) {
	res, err := f.tracker.WaitForTerminal(ctx, correlationID, f.cfg.ClampWait(timeout))
	if errors.Is(err, registry.ErrNotFound) {
		return StatusView{CorrelationID: correlationID, Message: notFoundMessage(correlationID)}, nil
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return StatusView{}, err
	}
	return viewFromWait(res), err
}

// QueryProvider asks the provider directly. Meant for operator reconciliation.
func (f *Facade) QueryProvider(ctx context.Context, correlationID string) (*ProviderStatus, error) {
	return f.provider.QueryPayment(ctx, correlationID)
}

func viewFromRecord(rec registry.PaymentRecord, status types.PaymentStatus) StatusView {
	return StatusView{
		CorrelationID: rec.CorrelationID,
		Status:        status,
		Message:       message(status, rec),
		Found:         true,
		Record:        &rec,
	}
}

func viewFromWait(res registry.WaitResult) StatusView {
	return viewFromRecord(res.Record, res.ObservedStatus())
}
