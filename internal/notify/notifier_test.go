package notify

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"signal_bot/internal/modules/config"
)

func TestTelegram_SendPostsForm(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "42", r.PostForm.Get("chat_id"))
		assert.Equal(t, "buy order placed: BTC-USDT at price 100", r.PostForm.Get("text"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
	}))
	defer srv.Close()

	tg := NewTelegram("TOKEN", 42, srv.URL+"/bot%s/%s", time.Second)
	tg.Sendf("%s order placed: %s at price %d", "buy", "BTC-USDT", 100)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestTelegram_FailuresAreSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	tg := NewTelegram("TOKEN", 42, srv.URL+"/bot%s/%s", time.Second)
	assert.NotPanics(t, func() { tg.Send("hello") })

	// недоступный endpoint
	down := NewTelegram("TOKEN", 42, "http://127.0.0.1:1/bot%s/%s", 200*time.Millisecond)
	assert.NotPanics(t, func() { down.Send("hello") })
}

func TestTelegram_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	tg := NewTelegram("TOKEN", 42, srv.URL+"/bot%s/%s", 100*time.Millisecond)
	start := time.Now()
	tg.Send("slow")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNew_FallsBackToStdout(t *testing.T) {
	cfg := config.Default()
	_, ok := New(&cfg).(*Stdout)
	assert.True(t, ok)

	cfg.Telegram.Token = "TOKEN"
	cfg.Telegram.ChatID = 42
	_, ok = New(&cfg).(*Telegram)
	assert.True(t, ok)
}

func TestNilTelegramIsNoop(t *testing.T) {
	var tg *Telegram
	assert.NotPanics(t, func() { tg.Send("x") })
}
