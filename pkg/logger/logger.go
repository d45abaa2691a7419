package logger

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. APP_LOG_LEVEL overrides the default info level.
func New() (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.TimeKey = "time"
	if lvl := os.Getenv("APP_LOG_LEVEL"); lvl != "" {
		parsed, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func registerSync(lc fx.Lifecycle, l *zap.SugaredLogger) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			_ = l.Sync()
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(registerSync),
)
