package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

const candlesPath = "/api/v5/market/candles"

// GetCandles — одно окно свечей. OKX отдаёт newest-first, наружу всегда oldest-first.
// Любая ошибка (сеть, code != "0", битый JSON) означает "нет данных" на этот цикл.
func (c *Client) GetCandles(ctx context.Context, instID, bar string, limit int) (models.CandleSeries, error) {
	series, err := c.getCandles(ctx, instID, bar, limit)
	if err != nil {
		logger.Error("candles %s %s: %v", instID, bar, err)
		return models.CandleSeries{}, err
	}
	return series, nil
}

func (c *Client) getCandles(ctx context.Context, instID, bar string, limit int) (models.CandleSeries, error) {
	okxbar, err := okxBar(bar)
	if err != nil {
		return models.CandleSeries{}, errors.Wrap(models.ErrParse, err.Error())
	}

	q := url.Values{}
	q.Set("instId", instID)
	q.Set("bar", okxbar)
	q.Set("limit", strconv.Itoa(clampLimit(limit)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+candlesPath+"?"+q.Encode(), nil)
	if err != nil {
		return models.CandleSeries{}, errors.Wrapf(models.ErrTransport, "build request: %v", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return models.CandleSeries{}, errors.Wrapf(models.ErrTransport, "do request: %v", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.CandleSeries{}, errors.Wrapf(models.ErrTransport, "read body: %v", err)
	}

	if !gjson.ValidBytes(b) {
		if resp.StatusCode/100 != 2 {
			return models.CandleSeries{}, errors.Wrapf(models.ErrTransport, "http %d: %s", resp.StatusCode, truncate(string(b), 256))
		}
		return models.CandleSeries{}, errors.Wrapf(models.ErrParse, "invalid json: %s", truncate(string(b), 256))
	}

	env := gjson.ParseBytes(b)
	code := env.Get("code")
	if !code.Exists() {
		if resp.StatusCode/100 != 2 {
			return models.CandleSeries{}, errors.Wrapf(models.ErrTransport, "http %d: %s", resp.StatusCode, truncate(string(b), 256))
		}
		return models.CandleSeries{}, errors.Wrap(models.ErrParse, "envelope without code")
	}
	if code.String() != "0" {
		return models.CandleSeries{}, errors.Wrapf(models.ErrExchange, "okx candles error: code=%s msg=%s", code.String(), env.Get("msg").String())
	}
	if resp.StatusCode/100 != 2 {
		return models.CandleSeries{}, errors.Wrapf(models.ErrTransport, "http %d: %s", resp.StatusCode, truncate(string(b), 256))
	}

	data := env.Get("data")
	if !data.IsArray() {
		return models.CandleSeries{}, errors.Wrap(models.ErrParse, "data is not an array")
	}

	rows := data.Array()
	out := make([]models.Candle, 0, len(rows))
	for i, row := range rows {
		candle, err := parseCandleRow(row)
		if err != nil {
			return models.CandleSeries{}, errors.Wrapf(models.ErrParse, "row %d: %v", i, err)
		}
		out = append(out, candle)
	}

	// индикаторам нужен хронологический порядок
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })

	return models.CandleSeries{
		InstID:  instID,
		Bar:     okxbar,
		Candles: out,
	}, nil
}

// parseCandleRow: [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm]
func parseCandleRow(row gjson.Result) (models.Candle, error) {
	if !row.IsArray() {
		return models.Candle{}, fmt.Errorf("not an array: %s", truncate(row.Raw, 64))
	}
	f := row.Array()
	if len(f) < 6 {
		return models.Candle{}, fmt.Errorf("expected >= 6 fields, got %d", len(f))
	}

	tsMs, err := strconv.ParseInt(f[0].String(), 10, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("ts %q: %w", f[0].String(), err)
	}

	var vals [5]float64
	names := [5]string{"open", "high", "low", "close", "volume"}
	for k := 0; k < 5; k++ {
		v, err := strconv.ParseFloat(f[k+1].String(), 64)
		if err != nil {
			return models.Candle{}, fmt.Errorf("%s %q: %w", names[k], f[k+1].String(), err)
		}
		vals[k] = v
	}

	confirmed := false
	if len(f) >= 9 {
		confirmed = f[8].String() == "1"
	}

	return models.Candle{
		Start:     time.UnixMilli(tsMs).UTC(),
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    vals[4],
		Confirmed: confirmed,
	}, nil
}
