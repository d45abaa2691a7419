package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaymentStatus_IsTerminal(t *testing.T) {
	require.True(t, PaymentStatusCompleted.IsTerminal())
	require.True(t, PaymentStatusFailed.IsTerminal())
	require.False(t, PaymentStatusPending.IsTerminal())
	require.False(t, PaymentStatusTimedOut.IsTerminal())
}
