package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ch "github.com/fatflowers/paytrack/internal/app/service/callback_handler"
	"github.com/fatflowers/paytrack/pkg/logctx"
	"github.com/fatflowers/paytrack/pkg/types"
)

// MpesaAck is the acknowledgement body Daraja expects from a callback URL.
type MpesaAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

var mpesaAccepted = MpesaAck{ResultCode: 0, ResultDesc: "Accepted"}

// @Summary      M-Pesa STK callback
// @Description  Receives the asynchronous STK push result. Always acknowledged with HTTP 200 so Daraja does not retry.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body object true "Daraja stkCallback envelope"
// @Success      200  {object}  handlers.MpesaAck
// @Router       /mpesa/callback [post]
func ApiMpesaCallback(h *ch.CallbackHandler) gin.HandlerFunc {
	return mpesaWebhook(h, types.CallbackKindSTK)
}

// @Summary      M-Pesa timeout callback
// @Description  Receives the timeout notification for a push the customer never answered. Always acknowledged with HTTP 200.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body object true "Daraja timeout envelope"
// @Success      200  {object}  handlers.MpesaAck
// @Router       /mpesa/timeout [post]
func ApiMpesaTimeout(h *ch.CallbackHandler) gin.HandlerFunc {
	return mpesaWebhook(h, types.CallbackKindTimeout)
}

func mpesaWebhook(h *ch.CallbackHandler, kind types.CallbackKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		lg := logctx.FromGin(c, h.Logger)
		raw, err := c.GetRawData()
		if err != nil {
			lg.Warnw("webhook_mpesa_read_failed", "kind", kind, "error", err.Error())
		}

		res := h.Handle(c.Request.Context(), kind, raw)
		lg.Infow("webhook_mpesa_handled", "kind", kind, "outcome", res.Outcome, "checkout_request_id", res.CheckoutRequestID)
		c.JSON(http.StatusOK, mpesaAccepted)
	}
}

func RegisterMpesaWebhookRoutes(r gin.IRouter, h *ch.CallbackHandler) {
	r.POST("/callback", ApiMpesaCallback(h))
	r.POST("/timeout", ApiMpesaTimeout(h))
}
