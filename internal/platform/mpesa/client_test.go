package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/paytrack/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{Mpesa: config.MpesaConfig{
		ConsumerKey:       "key",
		ConsumerSecret:    "secret",
		BusinessShortCode: "174379",
		Passkey:           "pass",
		CallbackURL:       "https://example.test/mpesa/callback",
		Environment:       "sandbox",
	}}
}

type fakeDaraja struct {
	tokenCalls atomic.Int32
	lastPush   stkPushPayload
	pushReply  STKPushResponse
}

func (f *fakeDaraja) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "key", user)
		require.Equal(t, "secret", pass)
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok", ExpiresIn: "3599"})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastPush))
		_ = json.NewEncoder(w).Encode(f.pushReply)
	})
	mux.HandleFunc("/mpesa/stkpushquery/v1/query", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(STKQueryResponse{ResponseCode: "0", ResultCode: "1032", ResultDesc: "Request cancelled by user", CheckoutRequestID: "ws_CO_1"})
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeDaraja) *Client {
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	c := NewClient(testConfig(), zap.NewNop().Sugar()).WithBaseURL(srv.URL)
	c.now = func() time.Time { return time.Date(2025, 6, 28, 14, 25, 0, 0, time.UTC) }
	return c
}

func TestClient_STKPushAccepted(t *testing.T) {
	f := &fakeDaraja{pushReply: STKPushResponse{
		MerchantRequestID: "29115-34620561-1",
		CheckoutRequestID: "ws_CO_191220191020363925",
		ResponseCode:      "0",
	}}
	c := newTestClient(t, f)

	out, err := c.STKPush(context.Background(), STKPushRequest{
		PhoneNumber:      "0712345678",
		Amount:           decimal.RequireFromString("500.75"),
		AccountReference: "AI Agent",
		TransactionDesc:  "Lunch Payment",
	})
	require.NoError(t, err)
	require.Equal(t, "ws_CO_191220191020363925", out.CheckoutRequestID)

	require.Equal(t, int64(500), f.lastPush.Amount)
	require.Equal(t, "254712345678", f.lastPush.PhoneNumber)
	require.Equal(t, "20250628142500", f.lastPush.Timestamp)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte("174379pass20250628142500")), f.lastPush.Password)
	require.Equal(t, "CustomerPayBillOnline", f.lastPush.TransactionType)
}

func TestClient_STKPushRejectedByResponseCode(t *testing.T) {
	f := &fakeDaraja{pushReply: STKPushResponse{ResponseCode: "1", ResponseDescription: "Rejected"}}
	c := newTestClient(t, f)

	_, err := c.STKPush(context.Background(), STKPushRequest{PhoneNumber: "0712345678", Amount: decimal.NewFromInt(10)})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "1", apiErr.ResponseCode)
}

func TestClient_STKPushValidatesInputBeforeCallingProvider(t *testing.T) {
	f := &fakeDaraja{}
	c := newTestClient(t, f)

	_, err := c.STKPush(context.Background(), STKPushRequest{PhoneNumber: "not-a-number", Amount: decimal.NewFromInt(10)})
	require.ErrorIs(t, err, ErrInvalidPhoneNumber)

	_, err = c.STKPush(context.Background(), STKPushRequest{PhoneNumber: "0712345678", Amount: decimal.Zero})
	require.Error(t, err)
	require.Zero(t, f.tokenCalls.Load())
}

func TestClient_AccessTokenIsCached(t *testing.T) {
	f := &fakeDaraja{pushReply: STKPushResponse{ResponseCode: "0", CheckoutRequestID: "a"}}
	c := newTestClient(t, f)

	for i := 0; i < 3; i++ {
		_, err := c.AccessToken(context.Background())
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), f.tokenCalls.Load())
}

func TestClient_MissingCredentials(t *testing.T) {
	c := NewClient(&config.Config{}, zap.NewNop().Sugar())
	_, err := c.AccessToken(context.Background())
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestClient_STKQuery(t *testing.T) {
	c := newTestClient(t, &fakeDaraja{})
	out, err := c.STKQuery(context.Background(), "ws_CO_1")
	require.NoError(t, err)
	require.Equal(t, "1032", out.ResultCode)
	require.Equal(t, "Request cancelled by user", out.ResultDesc)
}
