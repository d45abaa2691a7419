package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonFilter_Valid(t *testing.T) {
	require.True(t, (&CommonFilter{Field: "status", Operator: CommonFilterOperatorEq, Values: []any{"unknown"}}).Valid())
	require.True(t, (&CommonFilter{Field: "data->>'CheckoutRequestID'", Operator: CommonFilterOperatorEq, Values: []any{"CO1"}}).Valid())
	require.False(t, (&CommonFilter{Field: "status; drop table x", Values: []any{1}}).Valid())
	require.False(t, (&CommonFilter{Field: "status"}).Valid())

	var nilFilter *CommonFilter
	require.False(t, nilFilter.Valid())
}
