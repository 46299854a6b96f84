package strategy

import "signal_bot/internal/models"

// Engine — то, что раннер дёргает раз в цикл.
type Engine interface {
	// Generate — сигнал на каждый бар кадра.
	Generate(f models.IndicatorFrame) []models.Signal
	// Latest — решение по последнему бару; ok=false для пустого кадра.
	Latest(f models.IndicatorFrame) (d models.Decision, ok bool)
	Name() string
}

// PositionChanges = diff сигналов; для первого бара предыдущего нет, поэтому 0.
func PositionChanges(signals []models.Signal) []int {
	out := make([]int, len(signals))
	for i := 1; i < len(signals); i++ {
		out[i] = int(signals[i] - signals[i-1])
	}
	return out
}
