package callback_handler

import (
	"context"
	"errors"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	callbacklog "github.com/fatflowers/paytrack/internal/app/service/callback_log"
	"github.com/fatflowers/paytrack/internal/app/service/registry"
	"github.com/fatflowers/paytrack/internal/models"
	"github.com/fatflowers/paytrack/pkg/logctx"
	"github.com/fatflowers/paytrack/pkg/metrics"
	"github.com/fatflowers/paytrack/pkg/types"
)

// Outcome values are used as audit status and metric label.
type Outcome string

const (
	OutcomeResolved  Outcome = "resolved"
	OutcomeUnknown   Outcome = "unknown"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeMalformed Outcome = "malformed"
	OutcomeError     Outcome = "error"
)

// Resolver is the registry surface needed to settle a payment.
type Resolver interface {
	Resolve(correlationID string, o registry.Outcome) (registry.PaymentRecord, error)
}

// Auditor persists callback audit entries.
type Auditor interface {
	Save(ctx context.Context, entry *models.PaymentCallbackLog) error
}

// Result describes what ingestion did with one callback.
type Result struct {
	Outcome           Outcome                 `json:"outcome"`
	CheckoutRequestID string                  `json:"checkout_request_id,omitempty"`
	Record            *registry.PaymentRecord `json:"record,omitempty"`
	Error             string                  `json:"error,omitempty"`
}

type CallbackHandler struct {
	resolver Resolver
	audit    Auditor
	metrics  *metrics.Business
	Logger   *zap.SugaredLogger
}

func NewCallbackHandler(reg *registry.Registry, audit *callbacklog.Service, m *metrics.Business, log *zap.SugaredLogger) *CallbackHandler {
	return newCallbackHandler(reg, audit, m, log)
}

func newCallbackHandler(resolver Resolver, audit Auditor, m *metrics.Business, log *zap.SugaredLogger) *CallbackHandler {
	return &CallbackHandler{resolver: resolver, audit: audit, metrics: m, Logger: log}
}

// Handle ingests one raw provider payload. The raw body is audited before
// anything else; parse and registry failures are absorbed into Result so the
// caller can always acknowledge the provider.
func (h *CallbackHandler) Handle(ctx context.Context, kind types.CallbackKind, raw []byte) (res Result) {
	lg := logctx.FromCtx(ctx, h.Logger)
	data := auditPayload(raw)

	cb, parseErr := Parse(kind, raw)
	received := &models.PaymentCallbackLog{
		ProviderID: string(types.PaymentProviderMpesa),
		Kind:       string(kind),
		Data:       data,
		Status:     models.PaymentCallbackLogStatusReceived,
	}
	if cb != nil {
		received.CheckoutRequestID = cb.CheckoutRequestID
		received.MerchantRequestID = cb.MerchantRequestID
	}
	if err := h.audit.Save(ctx, received); err != nil {
		lg.Errorw("callback_audit_failed", "kind", kind, "error", err.Error())
	}

	defer func() {
		resBytes, _ := json.Marshal(res)
		result := datatypes.JSON(resBytes)
		entry := &models.PaymentCallbackLog{
			ProviderID:        received.ProviderID,
			Kind:              received.Kind,
			CheckoutRequestID: received.CheckoutRequestID,
			MerchantRequestID: received.MerchantRequestID,
			Data:              data,
			Result:            &result,
			Status:            auditStatus(res.Outcome),
		}
		if err := h.audit.Save(ctx, entry); err != nil {
			lg.Errorw("callback_audit_failed", "kind", kind, "error", err.Error())
		}
		h.metrics.ObserveCallback(string(kind), string(res.Outcome))
	}()

	if parseErr != nil {
		lg.Warnw("callback_malformed", "kind", kind, "error", parseErr.Error())
		return Result{Outcome: OutcomeMalformed, Error: parseErr.Error()}
	}

	lg.Infow("mpesa_callback_received",
		"kind", kind,
		"checkout_request_id", cb.CheckoutRequestID,
		"merchant_request_id", cb.MerchantRequestID,
		"result_code", cb.Outcome.ResultCode,
		"result_desc", cb.Outcome.ResultDesc,
	)

	rec, err := h.resolver.Resolve(cb.CheckoutRequestID, cb.Outcome)
	res = Result{CheckoutRequestID: cb.CheckoutRequestID}
	switch {
	case err == nil:
		res.Outcome = OutcomeResolved
		res.Record = &rec
		lg.Infow("callback_resolved", "checkout_request_id", cb.CheckoutRequestID, "status", rec.Status)
	case errors.Is(err, registry.ErrUnknownCorrelationID):
		res.Outcome = OutcomeUnknown
		res.Error = err.Error()
		lg.Warnw("callback_unknown_correlation_id", "checkout_request_id", cb.CheckoutRequestID)
	case errors.Is(err, registry.ErrAlreadyResolved):
		res.Outcome = OutcomeDuplicate
		res.Record = &rec
		res.Error = err.Error()
		lg.Infow("callback_duplicate", "checkout_request_id", cb.CheckoutRequestID, "status", rec.Status)
	default:
		res.Outcome = OutcomeError
		res.Error = err.Error()
		lg.Errorw("callback_resolve_failed", "checkout_request_id", cb.CheckoutRequestID, "error", err.Error())
	}
	return res
}

// auditPayload keeps valid JSON as is and wraps anything else as a JSON string.
func auditPayload(raw []byte) datatypes.JSON {
	if json.Valid(raw) {
		return datatypes.JSON(raw)
	}
	b, _ := json.Marshal(string(raw))
	return datatypes.JSON(b)
}

func auditStatus(o Outcome) models.PaymentCallbackLogStatus {
	switch o {
	case OutcomeResolved:
		return models.PaymentCallbackLogStatusResolved
	case OutcomeUnknown:
		return models.PaymentCallbackLogStatusUnknown
	case OutcomeDuplicate:
		return models.PaymentCallbackLogStatusDuplicate
	case OutcomeMalformed:
		return models.PaymentCallbackLogStatusMalformed
	default:
		return models.PaymentCallbackLogStatusFailed
	}
}
