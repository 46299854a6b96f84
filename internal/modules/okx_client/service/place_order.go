package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

const orderPath = "/api/v5/trade/order"

type orderBody struct {
	InstID  string `json:"instId"`
	TdMode  string `json:"tdMode"`
	Side    string `json:"side"`
	OrdType string `json:"ordType"`
	Sz      string `json:"sz"`
	Px      string `json:"px,omitempty"`
}

type orderResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		OrdID   string `json:"ordId"`
		ClOrdID string `json:"clOrdId"`
		SCode   string `json:"sCode"`
		SMsg    string `json:"sMsg"`
	} `json:"data"`
}

// buildOrderBody: px только для limit с заданной ценой, market всегда без px.
func buildOrderBody(r models.OrderRequest) ([]byte, error) {
	if r.Side != models.SideBuy && r.Side != models.SideSell {
		return nil, fmt.Errorf("unsupported side %q", r.Side)
	}
	if !r.Size.IsPositive() {
		return nil, fmt.Errorf("size must be > 0, got %s", r.Size)
	}
	ordType := r.OrdType
	if ordType == "" {
		ordType = models.OrdTypeLimit
	}

	body := orderBody{
		InstID:  r.InstID,
		TdMode:  models.TradeModeCash,
		Side:    string(r.Side),
		OrdType: string(ordType),
		Sz:      r.Size.String(),
	}
	if ordType == models.OrdTypeLimit && r.Price != nil && r.Price.IsPositive() {
		body.Px = r.Price.String()
	}
	return sonic.Marshal(body)
}

// PlaceOrder — одна попытка, без ретраев и без отслеживания ordId.
// Исход (успех или ошибка) пишется в лог и уходит в уведомления.
func (c *Client) PlaceOrder(ctx context.Context, r models.OrderRequest) (models.OrderResult, error) {
	res, err := c.placeOrder(ctx, r)
	if err != nil {
		logger.Error("order %s %s failed: %v", r.Side, r.InstID, err)
		c.notify(fmt.Sprintf("❌ Order error %s %s: %v", r.Side, r.InstID, err))
		return res, err
	}

	logger.Info("order placed: %s", res.Raw)
	c.notify(fmt.Sprintf("✅ %s order placed: %s at price %s (ordId=%s)",
		r.Side, r.InstID, priceText(r), res.OrdID))
	return res, nil
}

func (c *Client) placeOrder(ctx context.Context, r models.OrderRequest) (models.OrderResult, error) {
	payload, err := buildOrderBody(r)
	if err != nil {
		return models.OrderResult{}, errors.Wrapf(models.ErrParse, "build order: %v", err)
	}

	headers, err := c.signer.Headers(http.MethodPost, orderPath, string(payload))
	if err != nil {
		return models.OrderResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+orderPath, bytes.NewReader(payload))
	if err != nil {
		return models.OrderResult{}, errors.Wrapf(models.ErrTransport, "new request: %v", err)
	}
	req.Header = headers

	resp, err := c.http.Do(req)
	if err != nil {
		return models.OrderResult{}, errors.Wrapf(models.ErrTransport, "do: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.OrderResult{}, errors.Wrapf(models.ErrTransport, "read body: %v", err)
	}

	var wrap orderResponse
	if err := sonic.Unmarshal(data, &wrap); err != nil || wrap.Code == "" {
		if resp.StatusCode/100 != 2 {
			return models.OrderResult{Raw: string(data)}, errors.Wrapf(models.ErrTransport, "http %d: %s", resp.StatusCode, truncate(string(data), 512))
		}
		return models.OrderResult{Raw: string(data)}, errors.Wrapf(models.ErrParse, "decode: %v; body=%s", err, truncate(string(data), 512))
	}

	res := models.OrderResult{
		Code: wrap.Code,
		Msg:  wrap.Msg,
		Raw:  string(data),
	}
	if len(wrap.Data) > 0 {
		res.OrdID = wrap.Data[0].OrdID
		res.SCode = wrap.Data[0].SCode
		res.SMsg = wrap.Data[0].SMsg
	}

	if !res.OK() {
		return res, errors.Wrapf(models.ErrExchange, "code=%s msg=%s sCode=%s sMsg=%s RAW=%s",
			res.Code, res.Msg, res.SCode, res.SMsg, truncate(res.Raw, 512))
	}
	return res, nil
}

func priceText(r models.OrderRequest) string {
	if r.OrdType == models.OrdTypeMarket || r.Price == nil {
		return "market"
	}
	return r.Price.String()
}
