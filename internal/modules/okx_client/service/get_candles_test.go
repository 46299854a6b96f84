package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
)

const candlesOK = `{"code":"0","msg":"","data":[
 ["1700000120000","102","104","101","103.5","12.5","1290","1290","0"],
 ["1700000060000","101","103","100","102","10","1020","1020","1"],
 ["1700000000000","100","102","99","101","8","808","808","1"]
]}`

func TestGetCandles_ParsesAndOrdersOldestFirst(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, candlesPath, r.URL.Path)
		gotQuery = map[string]string{
			"instId": r.URL.Query().Get("instId"),
			"bar":    r.URL.Query().Get("bar"),
			"limit":  r.URL.Query().Get("limit"),
		}
		_, _ = w.Write([]byte(candlesOK))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)
	series, err := c.GetCandles(context.Background(), "BTC-USDT", "1h", 0)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"instId": "BTC-USDT", "bar": "1H", "limit": "100"}, gotQuery)
	assert.Equal(t, "BTC-USDT", series.InstID)
	assert.Equal(t, "1H", series.Bar)
	require.Equal(t, 3, series.Len())

	first := series.Candles[0]
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), first.Start)
	assert.Equal(t, 100.0, first.Open)
	assert.Equal(t, 102.0, first.High)
	assert.Equal(t, 99.0, first.Low)
	assert.Equal(t, 101.0, first.Close)
	assert.Equal(t, 8.0, first.Volume)
	assert.True(t, first.Confirmed)

	last, ok := series.Last()
	require.True(t, ok)
	assert.Equal(t, 103.5, last.Close)
	assert.False(t, last.Confirmed)

	assert.Equal(t, []float64{101, 102, 103.5}, series.Closes())
}

func TestGetCandles_LimitClamped(t *testing.T) {
	var limit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`{"code":"0","msg":"","data":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)
	series, err := c.GetCandles(context.Background(), "BTC-USDT", "1m", 5000)
	require.NoError(t, err)
	assert.Equal(t, "300", limit)
	assert.Equal(t, 0, series.Len())
}

func TestGetCandles_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"exchange code", http.StatusOK, `{"code":"51001","msg":"Instrument ID does not exist","data":[]}`, models.ErrExchange},
		{"exchange code on 4xx", http.StatusBadRequest, `{"code":"50011","msg":"Too Many Requests","data":[]}`, models.ErrExchange},
		{"malformed json", http.StatusOK, `{"code":"0","data":[`, models.ErrParse},
		{"no code", http.StatusOK, `{"data":[]}`, models.ErrParse},
		{"data not array", http.StatusOK, `{"code":"0","data":{}}`, models.ErrParse},
		{"short row", http.StatusOK, `{"code":"0","data":[["1700000000000","1","2"]]}`, models.ErrParse},
		{"bad number", http.StatusOK, `{"code":"0","data":[["1700000000000","x","2","1","1","1"]]}`, models.ErrParse},
		{"bad ts", http.StatusOK, `{"code":"0","data":[["soon","1","2","1","1","1"]]}`, models.ErrParse},
		{"gateway html", http.StatusBadGateway, `<html>bad gateway</html>`, models.ErrTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, nil)
			series, err := c.GetCandles(context.Background(), "BTC-USDT", "1m", 100)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, series.Len())
		})
	}
}

func TestGetCandles_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url, nil)
	_, err := c.GetCandles(context.Background(), "BTC-USDT", "1m", 100)
	assert.ErrorIs(t, err, models.ErrTransport)
}

func TestGetCandles_UnsupportedBar(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hit = true }))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)
	_, err := c.GetCandles(context.Background(), "BTC-USDT", "7m", 100)
	assert.ErrorIs(t, err, models.ErrParse)
	assert.False(t, hit)
}

func TestOkxBar(t *testing.T) {
	for in, want := range map[string]string{"1m": "1m", " 5M ": "5m", "1h": "1H", "60m": "1H", "4h": "4H", "1d": "1D", "1dutc": "1Dutc",
		"1M": "1M", " 3M": "3M", "3m": "3m", "1mo": "1M"} {
		got, err := okxBar(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
