package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/fatflowers/paytrack/internal/app/service/payment"
	"github.com/fatflowers/paytrack/pkg/response"
)

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{baseURL: strings.TrimRight(baseURL, "/"), http: &http.Client{Timeout: timeout}}
}

// call sends the request and decodes the response envelope. Envelopes with a
// non-zero code still decode their data, since not-found views carry a message.
func (c *apiClient) call(ctx context.Context, method, path string, body any) (*response.APIResponse[payment.StatusView], error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected http status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var env response.APIResponse[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	out := &response.APIResponse[payment.StatusView]{Code: env.Code, Message: env.Message}
	if len(env.Data) > 0 && env.Data[0] == '{' {
		if err := json.Unmarshal(env.Data, &out.Data); err != nil {
			return nil, fmt.Errorf("decode status: %w", err)
		}
	} else if env.Code != response.APIResponseCodeOK {
		var msg string
		_ = json.Unmarshal(env.Data, &msg)
		return nil, fmt.Errorf("%s: %s", env.Message, msg)
	}
	return out, nil
}

func (c *apiClient) status(ctx context.Context, id string) (*response.APIResponse[payment.StatusView], error) {
	return c.call(ctx, http.MethodGet, "/api/v1/payment/status/"+url.PathEscape(id), nil)
}

func (c *apiClient) wait(ctx context.Context, id string, timeout time.Duration) (*response.APIResponse[payment.StatusView], error) {
	q := url.Values{"timeout": {fmt.Sprintf("%d", int(timeout.Seconds()))}}
	return c.call(ctx, http.MethodGet, "/api/v1/payment/wait/"+url.PathEscape(id)+"?"+q.Encode(), nil)
}

type payRequest struct {
	PhoneNumber    string `json:"phone_number"`
	Amount         string `json:"amount"`
	Description    string `json:"description,omitempty"`
	Context        string `json:"context,omitempty"`
	Wait           bool   `json:"wait"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

func (c *apiClient) pay(ctx context.Context, in payRequest) (*response.APIResponse[payment.StatusView], error) {
	return c.call(ctx, http.MethodPost, "/api/v1/payment/initiate", in)
}
