package models

import "time"

// Signal per bar: +1 buy, -1 sell, 0 hold.
type Signal int

const (
	SignalSell Signal = -1
	SignalHold Signal = 0
	SignalBuy  Signal = 1
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Side returns the order side for the signal, SideNone for hold.
func (s Signal) Side() Side {
	switch s {
	case SignalBuy:
		return SideBuy
	case SignalSell:
		return SideSell
	default:
		return SideNone
	}
}

// Decision — сигнал последнего бара окна.
type Decision struct {
	InstID string
	Signal Signal
	// Change = signal[last] - signal[last-1]; 0 когда предыдущего бара нет.
	Change int
	Price  float64
	Time   time.Time
	RSI    float64
	MACD   float64
	Sig    float64
}
