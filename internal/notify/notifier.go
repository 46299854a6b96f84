package notify

import (
	"fmt"
	"net/http"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"
)

// Notifier — fire-and-forget: ошибки доставки только логируются.
type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// New выбирает Telegram, если заданы токен и chat id, иначе Stdout.
func New(cfg *config.Config) Notifier {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		logger.Warn("telegram is not configured, notifications go to the log")
		return NewStdout()
	}
	return NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Telegram.Endpoint, cfg.Telegram.Timeout)
}

// Telegram — пассивный нотифайер: только sendMessage, без getUpdates.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

// NewTelegram не ходит в getMe (в отличие от tgbot.NewBotAPI), чтобы старт не зависел от сети.
// endpoint в формате tgbot: "https://api.telegram.org/bot%s/%s".
func NewTelegram(token string, chatID int64, endpoint string, timeout time.Duration) *Telegram {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if endpoint == "" {
		endpoint = tgbot.APIEndpoint
	}
	bot := &tgbot.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: timeout},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(endpoint)
	return &Telegram{bot: bot, chatID: chatID}
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		logger.Error("telegram send: %v", err)
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// Stdout — заглушка, всё пишет в лог.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { logger.Info("[NOTIFY] %s", msg) }
func (s *Stdout) Sendf(format string, args ...any) { s.Send(fmt.Sprintf(format, args...)) }
