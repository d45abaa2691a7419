package mpesa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0712345678", "254712345678"},
		{"0714025354", "254714025354"},
		{"254712345678", "254712345678"},
		{"+254712345678", "254712345678"},
		{" 0712 345 678 ", "254712345678"},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestNormalizePhone_Invalid(t *testing.T) {
	for _, in := range []string{"", "hello", "123"} {
		_, err := NormalizePhone(in)
		require.ErrorIs(t, err, ErrInvalidPhoneNumber, in)
	}
}
