package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaymentCallbackLog_TableName(t *testing.T) {
	var m PaymentCallbackLog
	require.Equal(t, "payment_callback_log", m.TableName())
}
