package service

import (
	"fmt"
	"strings"
)

const (
	defaultCandleLimit = 100
	maxCandleLimit     = 300 // максимум /api/v5/market/candles
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultCandleLimit
	}
	if limit > maxCandleLimit {
		return maxCandleLimit
	}
	return limit
}

func okxBar(tf string) (string, error) {
	// месячные бары OKX ("1M", "3M") отличаются от минутных только регистром
	switch strings.TrimSpace(tf) {
	case "1M", "3M":
		return strings.TrimSpace(tf), nil
	}

	switch strings.ToLower(strings.TrimSpace(tf)) {
	case "1m", "3m", "5m", "15m", "30m":
		return strings.ToLower(strings.TrimSpace(tf)), nil

	case "60m", "1h":
		return "1H", nil
	case "2h":
		return "2H", nil
	case "4h":
		return "4H", nil
	case "6h":
		return "6H", nil
	case "12h":
		return "12H", nil

	case "1d":
		return "1D", nil
	case "1w":
		return "1W", nil
	case "1mo", "1mth":
		return "1M", nil

	case "6hutc":
		return "6Hutc", nil
	case "12hutc":
		return "12Hutc", nil
	case "1dutc":
		return "1Dutc", nil
	case "1wutc":
		return "1Wutc", nil
	case "1mutc":
		return "1Mutc", nil
	case "3mutc":
		return "3Mutc", nil
	}
	return "", fmt.Errorf("unsupported timeframe for OKX bar: %q", tf)
}

// truncate обрезает сырые ответы биржи для логов и уведомлений.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
