package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/fatflowers/paytrack/internal/app/service/payment"
	"github.com/fatflowers/paytrack/internal/app/service/registry"
)

// LogHandler writes one structured line per resolution. Late resolutions,
// where the original caller already gave up waiting, are logged at warn level
// so operators can follow up with the customer.
func LogHandler(log *zap.SugaredLogger) Handler {
	return func(_ context.Context, ev registry.ResolvedEvent) {
		rec := ev.Record
		fields := []any{
			"checkout_request_id", rec.CorrelationID,
			"status", rec.Status,
			"phone_number", rec.Metadata.PhoneNumber,
			"amount", rec.Metadata.Amount.String(),
			"message", payment.MessageForRecord(rec),
			"late", ev.Late,
		}
		if receipt := rec.Receipt(); receipt != "" {
			fields = append(fields, "receipt", receipt)
		}
		if ev.Late {
			log.Warnw("payment_notification_late", fields...)
			return
		}
		log.Infow("payment_notification", fields...)
	}
}
