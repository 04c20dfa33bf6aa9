package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	ProviderMercadoPago = "mercadopago"
	ProviderSimulator   = "simulator"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Cache struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"cache"`

	Rabbit struct {
		Enabled bool   `koanf:"enabled"`
		URL     string `koanf:"url"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Enabled bool     `koanf:"enabled"`
		Brokers []string `koanf:"brokers"`
		Topic   string   `koanf:"topic"`
		GroupID string   `koanf:"group_id"`
	} `koanf:"kafka"`

	Payment struct {
		Provider        string        `koanf:"provider"`
		BaseURL         string        `koanf:"base_url"`
		AccessToken     string        `koanf:"access_token"`
		WebhookSecret   string        `koanf:"webhook_secret"`
		POSID           string        `koanf:"pos_id"`
		Timeout         time.Duration `koanf:"timeout"`
		NotificationURL string        `koanf:"notification_url"`
		ProcessingDelay time.Duration `koanf:"processing_delay"`
	} `koanf:"payment"`
}

// Load reads base.yaml, an optional environment overlay, then
// KIOSK_-prefixed env vars (nested keys with __, e.g. KIOSK_MYSQL__DSN).
func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	if err := k.Load(env.Provider("KIOSK_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "KIOSK_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn required")
	}
	switch c.Payment.Provider {
	case ProviderMercadoPago:
		if c.Payment.AccessToken == "" {
			return fmt.Errorf("payment.access_token required for %s", ProviderMercadoPago)
		}
	case ProviderSimulator:
	default:
		return fmt.Errorf("payment.provider must be %q or %q", ProviderMercadoPago, ProviderSimulator)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka is enabled")
	}
	if c.Rabbit.Enabled && c.Rabbit.URL == "" {
		return fmt.Errorf("rabbitmq.url required when rabbitmq is enabled")
	}
	return nil
}
