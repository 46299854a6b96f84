package service

import (
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"signal_bot/internal/modules/config"
)

const testSecret = "test-secret"

type recordNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordNotifier) Send(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordNotifier) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

func newTestClient(t *testing.T, baseURL string, n Notifier) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.OKX.BaseURL = baseURL
	cfg.OKX.APIKey = "api-key"
	cfg.OKX.SecretKey = base64.StdEncoding.EncodeToString([]byte(testSecret))
	cfg.OKX.Passphrase = "phrase"
	cfg.OKX.Timeout = 2 * time.Second
	return NewClient(&cfg, n)
}
