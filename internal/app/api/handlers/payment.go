package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fatflowers/paytrack/internal/app/service/payment"
	"github.com/fatflowers/paytrack/internal/app/service/registry"
	"github.com/fatflowers/paytrack/internal/platform/mpesa"
	"github.com/fatflowers/paytrack/pkg/response"
)

type RegisterPaymentRequest struct {
	CheckoutRequestID string          `json:"checkout_request_id" binding:"required"`
	MerchantRequestID string          `json:"merchant_request_id"`
	PhoneNumber       string          `json:"phone_number" binding:"required"`
	Amount            decimal.Decimal `json:"amount" swaggertype:"number"`
	Description       string          `json:"description"`
}

type InitiatePaymentRequest struct {
	payment.InitiateRequest
	// Wait blocks the request until the payment settles or TimeoutSeconds elapse.
	Wait           bool `json:"wait"`
	TimeoutSeconds int  `json:"timeout_seconds"`
}

// errorCode maps service errors onto API response codes.
func errorCode(err error) response.APIResponseCode {
	var apiErr *mpesa.APIError
	switch {
	case errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, mpesa.ErrInvalidPhoneNumber),
		errors.Is(err, registry.ErrInvalidCorrelationID):
		return response.APIResponseCodeBadRequest
	case errors.Is(err, registry.ErrDuplicateCorrelationID):
		return response.APIResponseCodeConflict
	case errors.Is(err, registry.ErrNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, payment.ErrInitiationFailure), errors.As(err, &apiErr):
		return response.APIResponseCodeProvider
	default:
		return response.APIResponseCodeError
	}
}

// @Summary      Register Payment
// @Description  Starts tracking a push request that was initiated outside this service.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body RegisterPaymentRequest true "Payment to track"
// @Success      200  {object}  handlers.RespPaymentRecord
// @Router       /api/v1/payment/register [post]
func ApiRegisterPayment(f *payment.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		rec, err := f.Register(req.CheckoutRequestID, registry.Metadata{
			PhoneNumber:       req.PhoneNumber,
			Amount:            req.Amount,
			Description:       req.Description,
			MerchantRequestID: req.MerchantRequestID,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rec))
	}
}

// @Summary      Initiate Payment
// @Description  Sends an STK push to the customer's phone and registers it. With wait=true the call blocks until the payment settles or the timeout elapses.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body InitiatePaymentRequest true "Payment request"
// @Success      200  {object}  handlers.RespStatusView
// @Router       /api/v1/payment/initiate [post]
func ApiInitiatePayment(ini *payment.Initiator, f *payment.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InitiatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		if req.Wait {
			view, err := ini.InitiateAndWait(c.Request.Context(), &req.InitiateRequest, time.Duration(req.TimeoutSeconds)*time.Second)
			if err != nil && !isContextErr(err) {
				c.JSON(http.StatusOK, response.ErrorT[any](errorCode(err), err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.OKT(view))
			return
		}

		rec, err := ini.Initiate(c.Request.Context(), &req.InitiateRequest)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(f.Status(rec.CorrelationID)))
	}
}

// @Summary      Payment Status
// @Description  Returns the current status of a tracked payment without blocking.
// @Tags         Payment
// @Produce      json
// @Param        id   path      string  true  "CheckoutRequestID"
// @Success      200  {object}  handlers.RespStatusView
// @Router       /api/v1/payment/status/{id} [get]
func ApiPaymentStatus(f *payment.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		view := f.Status(c.Param("id"))
		if !view.Found {
			c.JSON(http.StatusOK, response.ErrorT(response.APIResponseCodeNotFound, view))
			return
		}
		c.JSON(http.StatusOK, response.OKT(view))
	}
}

// @Summary      Wait For Payment
// @Description  Blocks until the payment settles or the timeout (seconds) elapses. A timeout is reported with status TIMED_OUT.
// @Tags         Payment
// @Produce      json
// @Param        id       path      string  true   "CheckoutRequestID"
// @Param        timeout  query     int     false  "Timeout in seconds"
// @Success      200  {object}  handlers.RespStatusView
// @Router       /api/v1/payment/wait/{id} [get]
func ApiWaitPayment(f *payment.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		var timeout time.Duration
		if s := c.Query("timeout"); s != "" {
			secs, err := strconv.Atoi(s)
			if err != nil || secs < 0 {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "timeout must be a non-negative number of seconds"))
				return
			}
			timeout = time.Duration(secs) * time.Second
		}

		view, err := f.Wait(c.Request.Context(), c.Param("id"), timeout)
		if err != nil && !isContextErr(err) {
			c.JSON(http.StatusOK, response.ErrorT[any](errorCode(err), err.Error()))
			return
		}
		if !view.Found {
			c.JSON(http.StatusOK, response.ErrorT(response.APIResponseCodeNotFound, view))
			return
		}
		c.JSON(http.StatusOK, response.OKT(view))
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func RegisterPaymentRoutes(r gin.IRouter, ini *payment.Initiator, f *payment.Facade) {
	r.POST("/register", ApiRegisterPayment(f))
	r.POST("/initiate", ApiInitiatePayment(ini, f))
	r.GET("/status/:id", ApiPaymentStatus(f))
	r.GET("/wait/:id", ApiWaitPayment(f))
}
