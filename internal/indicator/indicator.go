// Package indicator считает RSI и MACD поверх окна свечей.
// Сама математика — go-talib; здесь только выравнивание по индексу и пометка
// начальных баров без достаточной истории как NaN.
package indicator

import (
	"math"

	talib "github.com/markcheno/go-talib"

	"signal_bot/internal/models"
)

type Settings struct {
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
}

func DefaultSettings() Settings {
	return Settings{RSIPeriod: 14, MACDFast: 12, MACDSlow: 26, MACDSignal: 9}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.RSIPeriod < 2 {
		s.RSIPeriod = d.RSIPeriod
	}
	if s.MACDFast <= 0 {
		s.MACDFast = d.MACDFast
	}
	if s.MACDSlow <= 0 {
		s.MACDSlow = d.MACDSlow
	}
	if s.MACDSignal <= 0 {
		s.MACDSignal = d.MACDSignal
	}
	if s.MACDFast > s.MACDSlow {
		s.MACDFast, s.MACDSlow = s.MACDSlow, s.MACDFast
	}
	return s
}

// Compute возвращает кадр той же длины, что и серия.
func Compute(series models.CandleSeries, s Settings) models.IndicatorFrame {
	s = s.withDefaults()
	closes := series.Closes()

	rsi := RSI(closes, s.RSIPeriod)
	macd, signal, hist := MACD(closes, s.MACDFast, s.MACDSlow, s.MACDSignal)

	bars := make([]models.IndicatorBar, len(series.Candles))
	for i, c := range series.Candles {
		bars[i] = models.IndicatorBar{
			Candle:     c,
			RSI:        rsi[i],
			MACD:       macd[i],
			MACDSignal: signal[i],
			MACDHist:   hist[i],
		}
	}
	return models.IndicatorFrame{
		InstID: series.InstID,
		Bar:    series.Bar,
		Bars:   bars,
	}
}

// RSI по Уайлдеру. Первые period значений — NaN; при len <= period — всё NaN.
func RSI(closes []float64, period int) []float64 {
	out := nanSeries(len(closes))
	if period < 2 || len(closes) <= period {
		return out
	}
	raw := talib.Rsi(closes, period)
	for i := period; i < len(closes); i++ {
		out[i] = sanitize(raw[i])
	}
	return out
}

// MACD: линия = EMA(fast) - EMA(slow), сигнал = EMA(signal) от линии, гистограмма = линия - сигнал.
// Линия определена с индекса slow-1, сигнал и гистограмма — с slow-1 + signal-1.
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist []float64) {
	n := len(closes)
	line, sig, hist = nanSeries(n), nanSeries(n), nanSeries(n)
	if fast <= 0 || slow <= 0 || signal <= 0 || n < slow || n < fast {
		return line, sig, hist
	}

	emaFast := talib.Ema(closes, fast)
	emaSlow := talib.Ema(closes, slow)
	start := slow - 1
	for i := start; i < n; i++ {
		line[i] = sanitize(emaFast[i] - emaSlow[i])
	}

	if n-start < signal {
		return line, sig, hist
	}
	sigEMA := talib.Ema(line[start:], signal)
	for j := signal - 1; j < len(sigEMA); j++ {
		i := start + j
		sig[i] = sanitize(sigEMA[j])
		hist[i] = line[i] - sig[i]
	}
	return line, sig, hist
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func sanitize(v float64) float64 {
	if math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}
