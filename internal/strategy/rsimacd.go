package strategy

import (
	"signal_bot/internal/models"
)

type RSIMACDConfig struct {
	Oversold   float64 // покупка при RSI ниже
	Overbought float64 // продажа при RSI выше
}

// RSIMACD: BUY при RSI < oversold и MACD > signal, SELL при RSI > overbought и MACD < signal.
// Без истории состояния: каждый цикл всё считается заново из окна.
type RSIMACD struct {
	cfg RSIMACDConfig
}

func NewRSIMACD(cfg RSIMACDConfig) *RSIMACD {
	if cfg.Oversold <= 0 {
		cfg.Oversold = 30
	}
	if cfg.Overbought <= 0 {
		cfg.Overbought = 70
	}
	return &RSIMACD{cfg: cfg}
}

func (s *RSIMACD) Name() string { return "rsi_macd" }

// Evaluate — правило для одного бара. NaN не проходит ни одно неравенство, но проверяем явно.
func (s *RSIMACD) Evaluate(b models.IndicatorBar) models.Signal {
	if !b.RSIDefined() || !b.MACDDefined() {
		return models.SignalHold
	}
	switch {
	case b.RSI < s.cfg.Oversold && b.MACD > b.MACDSignal:
		return models.SignalBuy
	case b.RSI > s.cfg.Overbought && b.MACD < b.MACDSignal:
		return models.SignalSell
	default:
		return models.SignalHold
	}
}

func (s *RSIMACD) Generate(f models.IndicatorFrame) []models.Signal {
	out := make([]models.Signal, len(f.Bars))
	for i, b := range f.Bars {
		out[i] = s.Evaluate(b)
	}
	return out
}

func (s *RSIMACD) Latest(f models.IndicatorFrame) (models.Decision, bool) {
	if len(f.Bars) == 0 {
		return models.Decision{}, false
	}
	signals := s.Generate(f)
	changes := PositionChanges(signals)
	last := len(f.Bars) - 1
	b := f.Bars[last]

	return models.Decision{
		InstID: f.InstID,
		Signal: signals[last],
		Change: changes[last],
		Price:  b.Close,
		Time:   b.Start,
		RSI:    b.RSI,
		MACD:   b.MACD,
		Sig:    b.MACDSignal,
	}, true
}
