package main

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/journal"
	okx "signal_bot/internal/modules/okx_client"
	"signal_bot/internal/modules/postgres"
	"signal_bot/internal/notify"
	"signal_bot/internal/runner"
	"signal_bot/internal/strategy"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"
)

const serviceName = "signal_bot"

// closeLog выставляется в newFxLogger: логгер нужен раньше, чем fx начнёт вызывать invoke.
var closeLog = func() {}

func newFxLogger(cfg *config.Config) (fxevent.Logger, error) {
	closeFn, err := logger.Init(logger.Config{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		return nil, err
	}
	closeLog = closeFn
	return &fxevent.ZapLogger{Logger: logger.InfoLogger}, nil
}

func startTracing(lc fx.Lifecycle, cfg *config.Config) error {
	tc := tracing.Config{ServiceName: serviceName, Host: cfg.Tracing.Host, Port: cfg.Tracing.Port}
	if !tc.Enabled() {
		return nil
	}
	_, closeFn, err := tracing.InitTracer(tc)
	if err != nil {
		return err
	}
	logger.Info("jaeger tracing enabled: %s:%d", tc.Host, tc.Port)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closeFn()
			return nil
		},
	})
	return nil
}

func main() {
	app := fx.New(
		fx.WithLogger(newFxLogger),
		config.Module(),
		fx.Module("tracing", fx.Invoke(startTracing)),
		notify.Module(),
		okx.Module(),
		strategy.Module(),
		postgres.Module(),
		journal.Module(),
		health.Module(),
		runner.Module(),
	)
	app.Run()
	closeLog()
}
