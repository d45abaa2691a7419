package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fatflowers/paytrack/pkg/config"
)

const (
	SandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	ProductionBaseURL = "https://api.safaricom.co.ke"

	timestampLayout   = "20060102150405"
	transactionType   = "CustomerPayBillOnline"
	tokenExpiryMargin = time.Minute
)

var ErrMissingCredentials = errors.New("missing M-Pesa credentials")

// APIError is returned when Daraja answers with a non-success status or
// response code.
type APIError struct {
	HTTPStatus   int
	ResponseCode string
	Description  string
}

func (e *APIError) Error() string {
	if e.ResponseCode != "" {
		return fmt.Sprintf("mpesa: response code %s: %s", e.ResponseCode, e.Description)
	}
	return fmt.Sprintf("mpesa: http %d: %s", e.HTTPStatus, e.Description)
}

type STKPushRequest struct {
	PhoneNumber      string
	Amount           decimal.Decimal
	AccountReference string
	TransactionDesc  string
}

type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type STKQueryResponse struct {
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResultCode          string `json:"ResultCode"`
	ResultDesc          string `json:"ResultDesc"`
}

type stkPushPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkQueryPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// Client talks to the Daraja API. It caches the OAuth token until shortly
// before it expires.
type Client struct {
	cfg     config.MpesaConfig
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
	now     func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg *config.Config, log *zap.SugaredLogger) *Client {
	base := ProductionBaseURL
	if cfg.Mpesa.IsSandbox() {
		base = SandboxBaseURL
	}
	timeout := cfg.Mpesa.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:     cfg.Mpesa,
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		log:     log,
		now:     time.Now,
	}
}

// WithBaseURL points the client at another Daraja host, e.g. a test server.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

func (c *Client) hasCredentials() bool {
	return c.cfg.ConsumerKey != "" && c.cfg.ConsumerSecret != "" && c.cfg.BusinessShortCode != "" && c.cfg.Passkey != ""
}

// AccessToken returns a cached or freshly fetched OAuth access token.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if !c.hasCredentials() {
		return "", ErrMissingCredentials
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	var tr tokenResponse
	if err := c.do(req, &tr); err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}
	if tr.AccessToken == "" {
		return "", &APIError{HTTPStatus: http.StatusOK, Description: "no access token received"}
	}

	ttl := time.Hour
	if secs, err := strconv.Atoi(tr.ExpiresIn); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}
	c.token = tr.AccessToken
	c.tokenExpiry = c.now().Add(ttl - tokenExpiryMargin)
	return c.token, nil
}

func (c *Client) password(ts string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.cfg.BusinessShortCode + c.cfg.Passkey + ts))
}

// STKPush asks the customer's handset to confirm a payment. A nil error means
// Daraja accepted the request; the outcome arrives later on the callback URL.
func (c *Client) STKPush(ctx context.Context, in STKPushRequest) (*STKPushResponse, error) {
	phone, err := NormalizePhone(in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	amount := in.Amount.IntPart()
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than 0, got %s", in.Amount.String())
	}

	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	ts := c.now().Format(timestampLayout)
	payload := stkPushPayload{
		BusinessShortCode: c.cfg.BusinessShortCode,
		Password:          c.password(ts),
		Timestamp:         ts,
		TransactionType:   transactionType,
		Amount:            amount,
		PartyA:            phone,
		PartyB:            c.cfg.BusinessShortCode,
		PhoneNumber:       phone,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  in.AccountReference,
		TransactionDesc:   in.TransactionDesc,
	}
	req, err := c.newJSONRequest(ctx, "/mpesa/stkpush/v1/processrequest", token, payload)
	if err != nil {
		return nil, err
	}

	var out STKPushResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.ResponseCode != "0" {
		return nil, &APIError{HTTPStatus: http.StatusOK, ResponseCode: out.ResponseCode, Description: out.ResponseDescription}
	}
	c.log.Infow("mpesa_stk_push_accepted",
		"checkout_request_id", out.CheckoutRequestID,
		"merchant_request_id", out.MerchantRequestID,
		"phone_number", phone,
		"amount", amount,
	)
	return &out, nil
}

// STKQuery asks Daraja for the state of a push request. Used for operator
// reconciliation only.
func (c *Client) STKQuery(ctx context.Context, checkoutRequestID string) (*STKQueryResponse, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	ts := c.now().Format(timestampLayout)
	req, err := c.newJSONRequest(ctx, "/mpesa/stkpushquery/v1/query", token, stkQueryPayload{
		BusinessShortCode: c.cfg.BusinessShortCode,
		Password:          c.password(ts),
		Timestamp:         ts,
		CheckoutRequestID: checkoutRequestID,
	})
	if err != nil {
		return nil, err
	}
	var out STKQueryResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) newJSONRequest(ctx context.Context, path, token string, body any) (*http.Request, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{HTTPStatus: resp.StatusCode, Description: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode mpesa response: %w", err)
	}
	return nil
}
