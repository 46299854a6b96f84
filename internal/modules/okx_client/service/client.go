package service

import (
	"net/http"
	"strings"
	"time"

	"signal_bot/internal/modules/config"
)

// Notifier — куда клиент сообщает об исходе ордера.
type Notifier interface {
	Send(msg string)
}

type Client struct {
	baseURL string
	http    *http.Client
	signer  *Signer
	n       Notifier
}

func NewClient(cfg *config.Config, n Notifier) *Client {
	timeout := cfg.OKX.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.OKX.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		signer:  NewSigner(cfg.OKX.APIKey, cfg.OKX.SecretKey, cfg.OKX.Passphrase),
		n:       n,
	}
}

func (c *Client) notify(msg string) {
	if c.n != nil {
		c.n.Send(msg)
	}
}
