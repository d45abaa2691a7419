package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/paytrack/internal/app/api/server"
	ch "github.com/fatflowers/paytrack/internal/app/service/callback_handler"
	callbacklog "github.com/fatflowers/paytrack/internal/app/service/callback_log"
	"github.com/fatflowers/paytrack/internal/app/service/notifier"
	"github.com/fatflowers/paytrack/internal/app/service/payment"
	"github.com/fatflowers/paytrack/internal/app/service/registry"
	"github.com/fatflowers/paytrack/internal/platform/db"
	"github.com/fatflowers/paytrack/internal/platform/mpesa"
	"github.com/fatflowers/paytrack/internal/platform/redis"
	"github.com/fatflowers/paytrack/pkg/config"
	"github.com/fatflowers/paytrack/pkg/logger"
	"github.com/fatflowers/paytrack/pkg/metrics"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	metrics.Module,
	db.Module,
	redis.Module,
	mpesa.Module,
	registry.Module,
	notifier.Module,
	callbacklog.Module,
	ch.Module,
	payment.Module,
	server.Module,
)
