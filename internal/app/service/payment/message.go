package payment

import (
	"fmt"

	"github.com/fatflowers/paytrack/internal/app/service/registry"
	"github.com/fatflowers/paytrack/pkg/types"
)

// MessageForRecord renders the human readable message for a stored record.
func MessageForRecord(rec registry.PaymentRecord) string {
	return message(rec.Status, rec)
}

func message(status types.PaymentStatus, rec registry.PaymentRecord) string {
	switch status {
	case types.PaymentStatusCompleted:
		msg := fmt.Sprintf("Payment completed successfully! %s KSh from %s", rec.Metadata.Amount.String(), rec.Metadata.PhoneNumber)
		if receipt := rec.Receipt(); receipt != "" {
			msg += ", receipt " + receipt
		}
		return msg
	case types.PaymentStatusFailed:
		reason := rec.ResultDesc
		if reason == "" {
			reason = "Unknown error"
		}
		if rec.Cause == types.ResolutionCauseTimedOut {
			return "Payment request expired before it was confirmed: " + reason
		}
		return "Payment failed: " + reason
	case types.PaymentStatusTimedOut:
		return fmt.Sprintf("Payment status unknown, will update when confirmed. Check again with ID: %s", rec.CorrelationID)
	default:
		return "Payment is still pending - waiting for user to complete on phone"
	}
}

func notFoundMessage(id string) string {
	return fmt.Sprintf("No payment found with ID %s", id)
}

// StatusMessage returns the text presentation layers show for a view.
func StatusMessage(v StatusView) string {
	switch {
	case v.Message != "":
		return v.Message
	case !v.Found:
		return notFoundMessage(v.CorrelationID)
	case v.Record != nil:
		return message(v.Status, *v.Record)
	default:
		return message(v.Status, registry.PaymentRecord{CorrelationID: v.CorrelationID})
	}
}
