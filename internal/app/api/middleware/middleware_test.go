package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/paytrack/pkg/logctx"
)

func TestTraceAndRequestLogger_PropagateRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware(), RequestLoggerMiddleware(zap.NewNop().Sugar()), AccessLogMiddleware())

	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = logctx.TraceID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "req-42", seen)
	require.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestTraceMiddleware_GeneratesID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware(), RequestLoggerMiddleware(zap.NewNop().Sugar()))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
