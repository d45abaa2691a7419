package handlers

import (
	"github.com/fatflowers/paytrack/internal/app/service/payment"
	"github.com/fatflowers/paytrack/internal/app/service/registry"
	"github.com/fatflowers/paytrack/pkg/response"
)

// RespStatusView wraps payment.StatusView in the standard envelope.
type RespStatusView struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    payment.StatusView       `json:"data"`
}

type RespPaymentRecord struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    registry.PaymentRecord   `json:"data"`
}

type RespListCallbackLogs struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ListCallbackLogsResponse `json:"data"`
}

type RespCallbackLogItems struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []CallbackLogItem        `json:"data"`
}

type RespPrune struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    PruneResponse            `json:"data"`
}

type RespProviderStatus struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    payment.ProviderStatus   `json:"data"`
}

type RespHealth struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    HealthResponse           `json:"data"`
}
