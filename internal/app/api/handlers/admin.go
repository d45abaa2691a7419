package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	callbacklog "github.com/fatflowers/paytrack/internal/app/service/callback_log"
	"github.com/fatflowers/paytrack/internal/app/service/payment"
	"github.com/fatflowers/paytrack/internal/app/service/registry"
	models "github.com/fatflowers/paytrack/internal/models"
	"github.com/fatflowers/paytrack/pkg/response"
)

type CallbackLogItem struct {
	ID                string                          `json:"id"`
	Kind              string                          `json:"kind"`
	Status            models.PaymentCallbackLogStatus `json:"status"`
	TraceID           string                          `json:"trace_id"`
	CheckoutRequestID string                          `json:"checkout_request_id"`
	MerchantRequestID string                          `json:"merchant_request_id"`
	ReceivedAt        time.Time                       `json:"received_at"`
	Data              any                             `json:"data" swaggertype:"object"`
	Result            any                             `json:"result,omitempty" swaggertype:"object"`
}

func toCallbackLogItem(m *models.PaymentCallbackLog) *CallbackLogItem {
	item := &CallbackLogItem{
		ID:                m.ID,
		Kind:              m.Kind,
		Status:            m.Status,
		TraceID:           m.TraceID,
		CheckoutRequestID: m.CheckoutRequestID,
		MerchantRequestID: m.MerchantRequestID,
		ReceivedAt:        m.ReceivedAt,
		Data:              m.Data,
	}
	if m.Result != nil {
		item.Result = *m.Result
	}
	return item
}

type ListCallbackLogsResponse struct {
	Items []*CallbackLogItem `json:"items"`
	Total int64              `json:"total"`
}

type PruneResponse struct {
	Pruned int                      `json:"pruned"`
	Stuck  []registry.PaymentRecord `json:"stuck"`
}

// @Summary      List Callback Logs (Admin)
// @Description  Retrieves a paginated and filterable list of audited provider callbacks from postgres.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body callbacklog.ListRequest true "Filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListCallbackLogs
// @Router       /api/v1/admin/list_callback_logs [post]
func ApiListCallbackLogs(svc *callbacklog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req callbacklog.ListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		rows, total, err := svc.List(c.Request.Context(), &req)
		if err != nil {
			code := response.APIResponseCodeError
			if errors.Is(err, callbacklog.ErrDatabaseDisabled) {
				code = response.APIResponseCodeBadRequest
			}
			c.JSON(http.StatusOK, response.ErrorT[any](code, err.Error()))
			return
		}
		items := lo.Map(rows, func(it *models.PaymentCallbackLog, _ int) *CallbackLogItem { return toCallbackLogItem(it) })
		c.JSON(http.StatusOK, response.OKT(&ListCallbackLogsResponse{Items: items, Total: total}))
	}
}

// @Summary      Recent Callbacks (Admin)
// @Description  Returns the newest audited callbacks, newest first.
// @Tags         Admin
// @Produce      json
// @Param        limit  query  int  false  "Max entries (default 10)"
// @Success      200  {object}  handlers.RespCallbackLogItems
// @Router       /api/v1/admin/recent_callbacks [get]
func ApiRecentCallbacks(svc *callbacklog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit <= 0 || limit > 500 {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "limit must be between 1 and 500"))
			return
		}
		rows, err := svc.Recent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		items := lo.Map(rows, func(it models.PaymentCallbackLog, _ int) *CallbackLogItem { return toCallbackLogItem(&it) })
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// @Summary      Prune Registry (Admin)
// @Description  Runs one janitor pass: drops settled payments past retention and lists payments stuck in PENDING.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespPrune
// @Router       /api/v1/admin/prune [post]
func ApiPrune(j *registry.Janitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		pruned, stuck := j.RunOnce()
		if stuck == nil {
			stuck = []registry.PaymentRecord{}
		}
		c.JSON(http.StatusOK, response.OKT(&PruneResponse{Pruned: pruned, Stuck: stuck}))
	}
}

// @Summary      Provider Status (Admin)
// @Description  Queries Daraja directly for a push request. For reconciliation only; it does not change the registry.
// @Tags         Admin
// @Produce      json
// @Param        id   path      string  true  "CheckoutRequestID"
// @Success      200  {object}  handlers.RespProviderStatus
// @Router       /api/v1/admin/provider_status/{id} [get]
func ApiProviderStatus(f *payment.Facade) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := f.QueryProvider(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errorCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, logs *callbacklog.Service, j *registry.Janitor, f *payment.Facade) {
	r.POST("/list_callback_logs", ApiListCallbackLogs(logs))
	r.GET("/recent_callbacks", ApiRecentCallbacks(logs))
	r.POST("/prune", ApiPrune(j))
	r.GET("/provider_status/:id", ApiProviderStatus(f))
}
