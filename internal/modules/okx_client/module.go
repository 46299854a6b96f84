package okx_client

import (
	"go.uber.org/fx"

	"signal_bot/internal/modules/okx_client/service"
	"signal_bot/internal/notify"
)

// Module поднимает REST-клиент OKX (свечи + ордера).
func Module() fx.Option {
	return fx.Module("okx_client",
		fx.Provide(
			func(n notify.Notifier) service.Notifier { return n },
			service.NewClient,
		),
	)
}
