package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--server", srv.URL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestStatus_PrintsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/payment/status/CO123", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":0,"message":"ok","data":{"checkout_request_id":"CO123","status":"COMPLETED","message":"Payment completed successfully! 500 KSh from 254712345678, receipt NLJ7RT61SV","found":true}}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "status", "CO123")
	require.NoError(t, err)
	require.Contains(t, out, "NLJ7RT61SV")
}

func TestStatus_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":40400,"message":"not found","data":{"checkout_request_id":"CO999","message":"No payment found with ID CO999","found":false}}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "status", "CO999")
	require.Error(t, err)
	require.Contains(t, out, "No payment found with ID CO999")
}

func TestWait_SendsTimeoutSeconds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/payment/wait/CO125", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("timeout"))
		_, _ = w.Write([]byte(`{"code":0,"message":"ok","data":{"checkout_request_id":"CO125","status":"TIMED_OUT","message":"Payment status unknown, will update when confirmed. Check again with ID: CO125","found":true}}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "wait", "CO125", "--timeout", "2s")
	require.NoError(t, err)
	require.Contains(t, out, "status unknown")
}

func TestPay_PostsRequest(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"code":0,"message":"ok","data":{"checkout_request_id":"ws_CO_1","status":"PENDING","message":"Payment is still pending - waiting for user to complete on phone","found":true}}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "pay", "0712345678", "150", "--context", "lunch")
	require.NoError(t, err)
	require.Contains(t, out, "checkout_request_id: ws_CO_1")
	require.JSONEq(t, `{"phone_number":"0712345678","amount":"150","context":"lunch","wait":false,"timeout_seconds":120}`, string(body))
}

func TestPay_RejectsBadAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	_, err := runCLI(t, srv, "pay", "0712345678", "-5")
	require.Error(t, err)
}

func TestAPIError_Surfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":50200,"message":"payment provider error","data":"initiation failure: mpesa: http 401"}`))
	}))
	defer srv.Close()

	_, err := runCLI(t, srv, "pay", "0712345678", "10")
	require.ErrorContains(t, err, "payment provider error")
}
