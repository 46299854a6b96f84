package strategy

import "signal_bot/internal/modules/config"

func NewEngine(cfg *config.Config) Engine {
	return NewRSIMACD(RSIMACDConfig{
		Oversold:   cfg.Strategy.RSIOSold,
		Overbought: cfg.Strategy.RSIOverbought,
	})
}
