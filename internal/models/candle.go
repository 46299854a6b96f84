package models

import (
	"math"
	"time"
)

// Candle — одна свеча OKX: [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm].
type Candle struct {
	Start     time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Confirmed bool // confirm=1: бар закрыт
}

// CandleSeries — окно свечей, всегда от старых к новым.
type CandleSeries struct {
	InstID  string
	Bar     string
	Candles []Candle
}

func (s CandleSeries) Len() int { return len(s.Candles) }

func (s CandleSeries) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// Last возвращает последнюю свечу окна.
func (s CandleSeries) Last() (Candle, bool) {
	if len(s.Candles) == 0 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}

// IndicatorBar — свеча плюс посчитанные индикаторы. NaN = не определено (мало истории).
type IndicatorBar struct {
	Candle
	RSI        float64
	MACD       float64
	MACDSignal float64
	MACDHist   float64
}

func (b IndicatorBar) RSIDefined() bool { return defined(b.RSI) }

func (b IndicatorBar) MACDDefined() bool {
	return defined(b.MACD) && defined(b.MACDSignal) && defined(b.MACDHist)
}

// IndicatorFrame выровнен по индексу с исходной серией.
type IndicatorFrame struct {
	InstID string
	Bar    string
	Bars   []IndicatorBar
}

func (f IndicatorFrame) Len() int { return len(f.Bars) }

func defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
