package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDirENV      = "CONFIG_DIR"
	defaultConfigFile = "values_local.yaml"
	defaultConfigDir  = "configs"

	// между циклами меньше секунды не спим: иначе ордера уходят с сетевой скоростью
	minPollInterval = time.Second
)

// Config ...
type Config struct {
	OKX struct {
		BaseURL    string        `yaml:"base_url"`
		APIKey     string        `yaml:"api_key"`
		SecretKey  string        `yaml:"secret_key"` // base64
		Passphrase string        `yaml:"passphrase"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"okx"`

	Telegram struct {
		Token    string        `yaml:"token"`
		ChatID   int64         `yaml:"chat_id"`
		Endpoint string        `yaml:"endpoint"` // формат tgbot: ".../bot%s/%s"
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"telegram"`

	Strategy struct {
		InstID        string        `yaml:"inst_id"`
		Timeframe     string        `yaml:"timeframe"`
		CandleLimit   int           `yaml:"candle_limit"`
		PollInterval  time.Duration `yaml:"poll_interval"`
		RSIPeriod     int           `yaml:"rsi_period"`
		RSIOverbought float64       `yaml:"rsi_overbought"`
		RSIOSold      float64       `yaml:"rsi_oversold"`
		MACDFast      int           `yaml:"macd_fast"`
		MACDSlow      int           `yaml:"macd_slow"`
		MACDSignal    int           `yaml:"macd_signal"`
	} `yaml:"strategy"`

	Order struct {
		Size string `yaml:"size"`
		Type string `yaml:"type"` // limit | market
	} `yaml:"order"`

	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`

	Health struct {
		Addr string `yaml:"addr"` // пусто — сервер не поднимаем
	} `yaml:"health"`

	Tracing struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"tracing"`

	DB string `yaml:"db_dsn"`
}

// Default — значения, с которыми бот работает без файла конфигурации.
func Default() Config {
	var c Config
	c.OKX.BaseURL = "https://www.okx.com"
	c.OKX.Timeout = 10 * time.Second

	c.Telegram.Timeout = 10 * time.Second

	c.Strategy.InstID = "BTC-USDT"
	c.Strategy.Timeframe = "1m"
	c.Strategy.CandleLimit = 100
	c.Strategy.PollInterval = 60 * time.Second
	c.Strategy.RSIPeriod = 14
	c.Strategy.RSIOverbought = 70
	c.Strategy.RSIOSold = 30
	c.Strategy.MACDFast = 12
	c.Strategy.MACDSlow = 26
	c.Strategy.MACDSignal = 9

	c.Order.Size = "0.001"
	c.Order.Type = "limit"

	c.Log.File = "bot.log"
	c.Log.Level = "info"
	return c
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	dir := os.Getenv(configDirENV)
	if dir == "" {
		dir = defaultConfigDir
	}
	name := os.Getenv(configFilePathENV)
	if name == "" {
		name = defaultConfigFile
	}
	if err := cfg.loadFile(filepath.Join(dir, name)); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(newEnv()); err != nil {
		return nil, err
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadFile накладывает YAML поверх дефолтов. Отсутствующий файл — не ошибка.
func (c *Config) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "open config %s", path)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewDecoder(file).Decode(c); err != nil {
		return errors.Wrapf(err, "decode config %s", path)
	}
	return nil
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

func (c *Config) applyEnv(v *viper.Viper) error {
	setString(v, "API_KEY", &c.OKX.APIKey)
	setString(v, "SECRET_KEY", &c.OKX.SecretKey)
	setString(v, "PASSPHRASE", &c.OKX.Passphrase)
	setString(v, "OKX_BASE_URL", &c.OKX.BaseURL)

	setString(v, "TELEGRAM_BOT_TOKEN", &c.Telegram.Token)
	if v.IsSet("TELEGRAM_CHAT_ID") {
		if id := v.GetInt64("TELEGRAM_CHAT_ID"); id != 0 {
			c.Telegram.ChatID = id
		}
	}

	setString(v, "INST_ID", &c.Strategy.InstID)
	setString(v, "TIMEFRAME", &c.Strategy.Timeframe)
	if s := strings.TrimSpace(v.GetString("POLL_INTERVAL")); s != "" {
		d, err := parseInterval(s)
		if err != nil {
			return errors.Wrap(err, "POLL_INTERVAL")
		}
		c.Strategy.PollInterval = d
	}

	setString(v, "ORDER_SIZE", &c.Order.Size)
	setString(v, "ORDER_TYPE", &c.Order.Type)

	setString(v, "DATABASE_DSN", &c.DB)
	setString(v, "LOG_FILE", &c.Log.File)
	setString(v, "LOG_LEVEL", &c.Log.Level)
	setString(v, "HEALTH_ADDR", &c.Health.Addr)
	setString(v, "JAEGER_HOST", &c.Tracing.Host)
	if v.IsSet("JAEGER_PORT") {
		if p := v.GetInt("JAEGER_PORT"); p > 0 {
			c.Tracing.Port = p
		}
	}
	return nil
}

// parseInterval: голое число — секунды ("60" = 1m), иначе формат time.ParseDuration ("90s", "2m").
func parseInterval(s string) (time.Duration, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Errorf("invalid interval %q", s)
	}
	return d, nil
}

// normalize приводит значения к виду, который ждёт биржа.
func (c *Config) normalize() {
	c.Order.Type = strings.ToLower(strings.TrimSpace(c.Order.Type))
}

func setString(v *viper.Viper, key string, dst *string) {
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		*dst = s
	}
}

func (c *Config) Validate() error {
	s := c.Strategy
	if strings.TrimSpace(s.InstID) == "" {
		return errors.New("strategy.inst_id is required")
	}
	if s.PollInterval < minPollInterval {
		return errors.Errorf("strategy.poll_interval must be >= %s, got %s", minPollInterval, s.PollInterval)
	}
	if s.RSIPeriod < 2 {
		return errors.New("strategy.rsi_period must be >= 2")
	}
	if s.RSIOSold <= 0 || s.RSIOverbought >= 100 || s.RSIOSold >= s.RSIOverbought {
		return errors.Errorf("rsi thresholds out of order: oversold=%.2f overbought=%.2f", s.RSIOSold, s.RSIOverbought)
	}
	if s.MACDFast <= 0 || s.MACDSignal <= 0 || s.MACDFast >= s.MACDSlow {
		return errors.New("MACD_FAST must be < MACD_SLOW")
	}

	size, err := decimal.NewFromString(c.Order.Size)
	if err != nil {
		return errors.Wrapf(err, "order.size %q", c.Order.Size)
	}
	if !size.IsPositive() {
		return errors.Errorf("order.size must be > 0, got %s", c.Order.Size)
	}
	switch c.Order.Type {
	case "limit", "market":
	default:
		return errors.Errorf("order.type must be limit or market, got %q", c.Order.Type)
	}
	return nil
}

// OrderSize — размер ордера уже провалидирован в Validate.
func (c *Config) OrderSize() decimal.Decimal {
	d, _ := decimal.NewFromString(c.Order.Size)
	return d
}
