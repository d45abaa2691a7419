package callback_handler

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/fatflowers/paytrack/internal/app/service/registry"
	"github.com/fatflowers/paytrack/pkg/types"
)

var ErrMalformedCallback = errors.New("malformed callback")

// Daraja code for a push the customer never answered.
const (
	timeoutResultCode = 1037
	timeoutResultDesc = "Payment request timed out before the customer responded"
)

// resultCode accepts both 0 and "0"; Daraja sends numbers but some relays quote them.
type resultCode struct {
	set   bool
	value int
}

func (r *resultCode) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("result code %q: %w", s, err)
	}
	r.set, r.value = true, v
	return nil
}

type metadataItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

type stkCallback struct {
	MerchantRequestID string     `json:"MerchantRequestID"`
	CheckoutRequestID string     `json:"CheckoutRequestID"`
	ResultCode        resultCode `json:"ResultCode"`
	ResultDesc        string     `json:"ResultDesc"`
	CallbackMetadata  *struct {
		Item []metadataItem `json:"Item"`
	} `json:"CallbackMetadata"`
}

type envelope struct {
	Body *struct {
		StkCallback *stkCallback `json:"stkCallback"`
	} `json:"Body"`
	// timeout notifications are sometimes flat
	MerchantRequestID string     `json:"MerchantRequestID"`
	CheckoutRequestID string     `json:"CheckoutRequestID"`
	ResultCode        resultCode `json:"ResultCode"`
	ResultDesc        string     `json:"ResultDesc"`
}

// Callback is a parsed provider notification.
type Callback struct {
	Kind              types.CallbackKind
	CheckoutRequestID string
	MerchantRequestID string
	Outcome           registry.Outcome
}

// Parse decodes a provider payload of the given kind.
func Parse(kind types.CallbackKind, raw []byte) (*Callback, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedCallback)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCallback, err)
	}

	switch kind {
	case types.CallbackKindSTK:
		return parseSTK(&env)
	case types.CallbackKindTimeout:
		return parseTimeout(&env)
	default:
		return nil, fmt.Errorf("%w: unsupported kind %q", ErrMalformedCallback, kind)
	}
}

func parseSTK(env *envelope) (*Callback, error) {
	if env.Body == nil || env.Body.StkCallback == nil {
		return nil, fmt.Errorf("%w: missing Body.stkCallback", ErrMalformedCallback)
	}
	cb := env.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return nil, fmt.Errorf("%w: missing CheckoutRequestID", ErrMalformedCallback)
	}
	if !cb.ResultCode.set {
		return nil, fmt.Errorf("%w: missing ResultCode", ErrMalformedCallback)
	}

	out := &Callback{
		Kind:              types.CallbackKindSTK,
		CheckoutRequestID: cb.CheckoutRequestID,
		MerchantRequestID: cb.MerchantRequestID,
		Outcome: registry.Outcome{
			Status:     types.PaymentStatusFailed,
			ResultCode: cb.ResultCode.value,
			ResultDesc: cb.ResultDesc,
			Cause:      types.ResolutionCauseCallback,
		},
	}
	if cb.ResultCode.value == 0 {
		out.Outcome.Status = types.PaymentStatusCompleted
		if cb.CallbackMetadata != nil {
			out.Outcome.Details = metadataDetails(cb.CallbackMetadata.Item)
		}
	}
	return out, nil
}

func parseTimeout(env *envelope) (*Callback, error) {
	id, merchant, code, desc := env.CheckoutRequestID, env.MerchantRequestID, env.ResultCode, env.ResultDesc
	if env.Body != nil && env.Body.StkCallback != nil {
		cb := env.Body.StkCallback
		id, merchant, code, desc = cb.CheckoutRequestID, cb.MerchantRequestID, cb.ResultCode, cb.ResultDesc
	}
	if id == "" {
		return nil, fmt.Errorf("%w: missing CheckoutRequestID", ErrMalformedCallback)
	}
	if !code.set || code.value == 0 {
		code = resultCode{set: true, value: timeoutResultCode}
	}
	if desc == "" {
		desc = timeoutResultDesc
	}
	return &Callback{
		Kind:              types.CallbackKindTimeout,
		CheckoutRequestID: id,
		MerchantRequestID: merchant,
		Outcome: registry.Outcome{
			Status:     types.PaymentStatusFailed,
			ResultCode: code.value,
			ResultDesc: desc,
			Cause:      types.ResolutionCauseTimedOut,
		},
	}, nil
}

// metadataDetails flattens CallbackMetadata items into a map. Integral
// numbers stay integers so receipt dates and MSISDNs keep every digit.
func metadataDetails(items []metadataItem) map[string]any {
	out := make(map[string]any, len(items))
	for _, it := range items {
		if it.Name == "" {
			continue
		}
		if n, ok := it.Value.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				out[it.Name] = i
			} else if f, err := n.Float64(); err == nil {
				out[it.Name] = f
			} else {
				out[it.Name] = n.String()
			}
			continue
		}
		out[it.Name] = it.Value
	}
	return out
}
