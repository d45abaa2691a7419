package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ch "github.com/fatflowers/paytrack/internal/app/service/callback_handler"
	callbacklog "github.com/fatflowers/paytrack/internal/app/service/callback_log"
	"github.com/fatflowers/paytrack/internal/app/service/payment"
	"github.com/fatflowers/paytrack/internal/app/service/registry"
	"github.com/fatflowers/paytrack/pkg/config"
	"github.com/fatflowers/paytrack/pkg/response"
	"github.com/fatflowers/paytrack/pkg/types"
)

type fakeProvider struct {
	next string
}

func (p *fakeProvider) InitiatePayment(context.Context, string, decimal.Decimal, string) (*payment.Initiation, error) {
	return &payment.Initiation{CorrelationID: p.next, MerchantRequestID: "m-" + p.next}, nil
}

func (p *fakeProvider) QueryPayment(_ context.Context, id string) (*payment.ProviderStatus, error) {
	return &payment.ProviderStatus{CorrelationID: id, ResultCode: "1032", ResultDesc: "Request cancelled by user"}, nil
}

type testEnv struct {
	router *gin.Engine
	reg    *registry.Registry
	logs   *callbacklog.Service
	prov   *fakeProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop().Sugar()
	cfg := &config.Config{
		Registry: config.RegistryConfig{
			Retention:          time.Hour,
			StuckAfter:         time.Minute,
			DefaultWaitTimeout: 50 * time.Millisecond,
			MaxWaitTimeout:     time.Second,
		},
		Audit: config.AuditConfig{Dir: t.TempDir()},
	}
	reg := registry.New(log, nil)
	logs, err := callbacklog.New(cfg, nil, nil, log)
	require.NoError(t, err)
	prov := &fakeProvider{next: "ws_CO_1"}
	ini := payment.NewInitiator(prov, reg, log, cfg)
	facade := payment.NewFacade(reg, prov, cfg)

	r := gin.New()
	RegisterHealthRoutes(r, reg)
	RegisterMpesaWebhookRoutes(r.Group("/mpesa"), ch.NewCallbackHandler(reg, logs, nil, log))
	RegisterPaymentRoutes(r.Group("/api/v1/payment"), ini, facade)
	RegisterAdminRoutes(r.Group("/api/v1/admin"), logs, registry.NewJanitor(reg, log, cfg), facade)
	return &testEnv{router: r, reg: reg, logs: logs, prov: prov}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w, out
}

func code(out map[string]any) response.APIResponseCode {
	return response.APIResponseCode(out["code"].(float64))
}

func data(out map[string]any) map[string]any {
	return out["data"].(map[string]any)
}

func TestRoutes_Registered(t *testing.T) {
	env := newTestEnv(t)
	have := map[string]bool{}
	for _, rt := range env.router.Routes() {
		have[rt.Method+" "+rt.Path] = true
	}
	for _, want := range []string{
		"POST /mpesa/callback",
		"POST /mpesa/timeout",
		"POST /api/v1/payment/register",
		"POST /api/v1/payment/initiate",
		"GET /api/v1/payment/status/:id",
		"GET /api/v1/payment/wait/:id",
		"POST /api/v1/admin/list_callback_logs",
		"GET /api/v1/admin/recent_callbacks",
		"POST /api/v1/admin/prune",
		"GET /api/v1/admin/provider_status/:id",
		"GET /healthz",
	} {
		require.True(t, have[want], want)
	}
}

func TestCallback_CompletesRegisteredPayment(t *testing.T) {
	env := newTestEnv(t)
	_, out := env.do(t, http.MethodPost, "/api/v1/payment/register",
		`{"checkout_request_id":"CO123","phone_number":"254712345678","amount":500}`)
	require.Equal(t, response.APIResponseCodeOK, code(out))

	w, out := env.do(t, http.MethodPost, "/mpesa/callback",
		`{"Body":{"stkCallback":{"CheckoutRequestID":"CO123","ResultCode":0,"ResultDesc":"ok","CallbackMetadata":{"Item":[{"Name":"MpesaReceiptNumber","Value":"NLJ7RT61SV"}]}}}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(0), out["ResultCode"])

	_, out = env.do(t, http.MethodGet, "/api/v1/payment/status/CO123", "")
	require.Equal(t, response.APIResponseCodeOK, code(out))
	require.Equal(t, string(types.PaymentStatusCompleted), data(out)["status"])
	require.Contains(t, data(out)["message"], "NLJ7RT61SV")
}

func TestCallback_UnknownAndMalformedAreAcknowledged(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{
		`{"Body":{"stkCallback":{"CheckoutRequestID":"CO999","ResultCode":0}}}`,
		`garbage`,
		``,
	} {
		w, out := env.do(t, http.MethodPost, "/mpesa/callback", body)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "Accepted", out["ResultDesc"])
	}
	require.Empty(t, env.reg.Counts())

	_, out := env.do(t, http.MethodGet, "/api/v1/admin/recent_callbacks?limit=50", "")
	require.Equal(t, response.APIResponseCodeOK, code(out))
	items := out["data"].([]any)
	require.Len(t, items, 6)

	var sawRaw bool
	for _, it := range items {
		m := it.(map[string]any)
		if m["checkout_request_id"] == "CO999" && m["status"] == "received" {
			sawRaw = true
		}
	}
	require.True(t, sawRaw)
}

func TestPaymentStatus_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, out := env.do(t, http.MethodGet, "/api/v1/payment/status/CO999", "")
	require.Equal(t, response.APIResponseCodeNotFound, code(out))
	require.Equal(t, false, data(out)["found"])
}

func TestRegister_DuplicateIsConflict(t *testing.T) {
	env := newTestEnv(t)
	body := `{"checkout_request_id":"CO1","phone_number":"0712345678","amount":10}`

	_, out := env.do(t, http.MethodPost, "/api/v1/payment/register", body)
	require.Equal(t, response.APIResponseCodeOK, code(out))
	require.Equal(t, "254712345678", data(out)["metadata"].(map[string]any)["phone_number"])

	_, out = env.do(t, http.MethodPost, "/api/v1/payment/register", body)
	require.Equal(t, response.APIResponseCodeConflict, code(out))
}

func TestInitiate_WaitTimesOut(t *testing.T) {
	env := newTestEnv(t)

	_, out := env.do(t, http.MethodPost, "/api/v1/payment/initiate",
		`{"phone_number":"254712345678","amount":100,"context":"bus fare","wait":true}`)
	require.Equal(t, response.APIResponseCodeOK, code(out))
	require.Equal(t, string(types.PaymentStatusTimedOut), data(out)["status"])

	rec, err := env.reg.Get("ws_CO_1")
	require.NoError(t, err)
	require.Equal(t, types.PaymentStatusPending, rec.Status)
	require.Equal(t, "Transport Payment", rec.Metadata.Description)
}

func TestInitiate_InvalidAmount(t *testing.T) {
	env := newTestEnv(t)

	_, out := env.do(t, http.MethodPost, "/api/v1/payment/initiate", `{"phone_number":"254712345678","amount":0}`)
	require.Equal(t, response.APIResponseCodeBadRequest, code(out))
}

func TestWait_ReleasedByCallback(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.reg.Register("CO124", registry.Metadata{PhoneNumber: "254712345678"})
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		req := httptest.NewRequest(http.MethodPost, "/mpesa/callback", bytes.NewBufferString(
			`{"Body":{"stkCallback":{"CheckoutRequestID":"CO124","ResultCode":1032,"ResultDesc":"Request cancelled by user"}}}`))
		env.router.ServeHTTP(httptest.NewRecorder(), req)
	}()

	_, out := env.do(t, http.MethodGet, "/api/v1/payment/wait/CO124?timeout=1", "")
	require.Equal(t, response.APIResponseCodeOK, code(out))
	require.Equal(t, string(types.PaymentStatusFailed), data(out)["status"])
	require.Equal(t, "Payment failed: Request cancelled by user", data(out)["message"])
}

func TestWait_BadTimeout(t *testing.T) {
	env := newTestEnv(t)

	_, out := env.do(t, http.MethodGet, "/api/v1/payment/wait/CO1?timeout=abc", "")
	require.Equal(t, response.APIResponseCodeBadRequest, code(out))
}

func TestAdmin_PruneAndProviderStatus(t *testing.T) {
	env := newTestEnv(t)

	_, out := env.do(t, http.MethodPost, "/api/v1/admin/prune", "")
	require.Equal(t, response.APIResponseCodeOK, code(out))
	require.Equal(t, float64(0), data(out)["pruned"])

	_, out = env.do(t, http.MethodGet, "/api/v1/admin/provider_status/CO5", "")
	require.Equal(t, response.APIResponseCodeOK, code(out))
	require.Equal(t, "1032", data(out)["result_code"])

	_, out = env.do(t, http.MethodPost, "/api/v1/admin/list_callback_logs", `{}`)
	require.Equal(t, response.APIResponseCodeBadRequest, code(out))
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.reg.Register("CO1", registry.Metadata{})
	require.NoError(t, err)

	_, out := env.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, "ok", data(out)["status"])
	require.Equal(t, float64(1), data(out)["payments"].(map[string]any)["PENDING"])
}
