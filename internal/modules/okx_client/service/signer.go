package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

// okxTimeLayout — OK-ACCESS-TIMESTAMP: ISO-8601 UTC с миллисекундами.
const okxTimeLayout = "2006-01-02T15:04:05.000Z"

// Signer строит заголовки подписанного запроса OKX.
// Секрет декодируется из base64 один раз; битый секрет не паникует, а даёт ErrAuth на каждом вызове.
type Signer struct {
	apiKey     string
	passphrase string
	secret     []byte
	secretErr  error

	now func() time.Time
}

func NewSigner(apiKey, secretKey, passphrase string) *Signer {
	s := &Signer{
		apiKey:     apiKey,
		passphrase: passphrase,
		now:        time.Now,
	}
	switch {
	case strings.TrimSpace(secretKey) == "":
		s.secretErr = errors.Wrap(models.ErrAuth, "secret key is empty")
	default:
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(secretKey))
		if err != nil {
			s.secretErr = errors.Wrapf(models.ErrAuth, "secret key is not base64: %v", err)
		} else {
			s.secret = b
		}
	}
	return s
}

// Sign = base64(HMAC-SHA256(secret, ts + METHOD + path + body)).
func (s *Signer) Sign(ts, method, requestPath, body string) (string, error) {
	if s.secretErr != nil {
		return "", s.secretErr
	}
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(ts + strings.ToUpper(method) + requestPath + body))
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// Headers ставит метку времени и возвращает набор OK-ACCESS-* заголовков.
func (s *Signer) Headers(method, requestPath, body string) (http.Header, error) {
	ts := s.now().UTC().Format(okxTimeLayout)
	sign, err := s.Sign(ts, method, requestPath, body)
	if err != nil {
		return nil, err
	}

	h := make(http.Header, 5)
	h.Set("OK-ACCESS-KEY", s.apiKey)
	h.Set("OK-ACCESS-SIGN", sign)
	h.Set("OK-ACCESS-TIMESTAMP", ts)
	h.Set("OK-ACCESS-PASSPHRASE", s.passphrase)
	h.Set("Content-Type", "application/json")
	return h, nil
}
