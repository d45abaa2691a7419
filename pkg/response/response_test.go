package response

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorT_FillsMessage(t *testing.T) {
	r := ErrorT(APIResponseCodeNotFound, "CO999")
	require.Equal(t, APIResponseCodeNotFound, r.Code)
	require.Equal(t, "not found", r.Message)
	require.Equal(t, "CO999", r.Data)

	require.Equal(t, "ok", OKT[any](nil).Message)
}
