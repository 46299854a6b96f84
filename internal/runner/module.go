package runner

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	jservice "signal_bot/internal/modules/journal/service"
	okx "signal_bot/internal/modules/okx_client/service"
	"signal_bot/internal/notify"
	"signal_bot/pkg/logger"
)

// Start вешает цикл на lifecycle: OnStart запускает горутину, OnStop отменяет
// контекст и ждёт, пока текущий цикл доиграет до сна.
func Start(lc fx.Lifecycle, cfg *config.Config, r *Runner, n notify.Notifier) {
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			n.Sendf("🚀 bot started: %s %s every %s", cfg.Strategy.InstID, cfg.Strategy.Timeframe, cfg.Strategy.PollInterval)
			go func() {
				defer close(done)
				r.Run(runCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
				logger.Warn("runner did not stop in time: %v", ctx.Err())
			}
			n.Sendf("⏹ bot stopped: %s", cfg.Strategy.InstID)
			return nil
		},
	})
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			SettingsFromConfig,
			NewClock,
			func(c *okx.Client) MarketData { return c },
			func(c *okx.Client) OrderPlacer { return c },
			func(n notify.Notifier) Notifier { return n },
			func(j *jservice.Journal) Journal { return j },
			New,
		),
		fx.Invoke(Start),
	)
}
