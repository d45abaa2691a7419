package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/paytrack/docs"
	"github.com/fatflowers/paytrack/internal/app/api/handlers"
	mw "github.com/fatflowers/paytrack/internal/app/api/middleware"
	ch "github.com/fatflowers/paytrack/internal/app/service/callback_handler"
	callbacklog "github.com/fatflowers/paytrack/internal/app/service/callback_log"
	"github.com/fatflowers/paytrack/internal/app/service/payment"
	"github.com/fatflowers/paytrack/internal/app/service/registry"
	cfgpkg "github.com/fatflowers/paytrack/pkg/config"
	metrics "github.com/fatflowers/paytrack/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Log       *zap.SugaredLogger
	Cfg       *cfgpkg.Config
	Business  *metrics.Business
	Registry  *registry.Registry
	Janitor   *registry.Janitor
	Callbacks *ch.CallbackHandler
	Logs      *callbacklog.Service
	Initiator *payment.Initiator
	Facade    *payment.Facade
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	// Prometheus metrics
	if d.Cfg != nil && d.Cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			Subsystem: metrics.Subsystem,
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger:     d.Log,
			Collectors: d.Business.Collectors(),
		})
		p.SetListenAddress(d.Cfg.MetricsAddr)
		p.Use(r)

		d.Log.Infow("metrics started", "addr", d.Cfg.MetricsAddr)
	}
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub, d.Registry)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Provider facing; paths must match mpesa.callback_url
	mpesa := r.Group("/mpesa")
	mpesa.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterMpesaWebhookRoutes(mpesa, d.Callbacks)

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterPaymentRoutes(apiV1.Group("/payment"), d.Initiator, d.Facade)
	handlers.RegisterAdminRoutes(apiV1.Group("/admin"), d.Logs, d.Janitor, d.Facade)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			// long polls on /api/v1/payment/wait can outlive the stop timeout
			if err := srv.Shutdown(ctx); err != nil {
				log.Warnw("forcing HTTP server close", "error", err.Error())
				return srv.Close()
			}
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
