package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Провайдеры платежей.
const (
	GatewaySandbox = "sandbox"
	GatewayDaraja  = "daraja"
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	ServerAddress  string        `mapstructure:"SERVER_ADDRESS"`
	PostgresConn   string        `mapstructure:"POSTGRES_CONN"`
	PostgresUser   string        `mapstructure:"POSTGRES_USERNAME"`
	PostgresPass   string        `mapstructure:"POSTGRES_PASSWORD"`
	PostgresHost   string        `mapstructure:"POSTGRES_HOST"`
	PostgresPort   string        `mapstructure:"POSTGRES_PORT"`
	PostgresDB     string        `mapstructure:"POSTGRES_DATABASE"`
	MigrationURL   string        `mapstructure:"MIGRATION_URL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`

	JWTSecret          string   `mapstructure:"JWT_SECRET"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	PaymentGateway       string        `mapstructure:"PAYMENT_GATEWAY"`
	PaymentExpiryWindow  time.Duration `mapstructure:"PAYMENT_EXPIRY_WINDOW"`
	PaymentPushTimeout   time.Duration `mapstructure:"PAYMENT_PUSH_TIMEOUT"`
	DarajaBaseURL        string        `mapstructure:"DARAJA_BASE_URL"`
	DarajaConsumerKey    string        `mapstructure:"DARAJA_CONSUMER_KEY"`
	DarajaConsumerSecret string        `mapstructure:"DARAJA_CONSUMER_SECRET"`
	DarajaShortCode      string        `mapstructure:"DARAJA_SHORTCODE"`
	DarajaPassKey        string        `mapstructure:"DARAJA_PASSKEY"`
	DarajaCallbackURL    string        `mapstructure:"DARAJA_CALLBACK_URL"`
	SandboxCallbackDelay time.Duration `mapstructure:"SANDBOX_CALLBACK_DELAY"`
	SandboxFailureRate   float64       `mapstructure:"SANDBOX_FAILURE_RATE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	TracingEnabled  bool   `mapstructure:"TRACING_ENABLED"`
	TracingEndpoint string `mapstructure:"TRACING_ENDPOINT"`
	SQSQueueURL     string `mapstructure:"SQS_QUEUE_URL"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":         "0.0.0.0:8080",
	"POSTGRES_CONN":          "",
	"POSTGRES_USERNAME":      "",
	"POSTGRES_PASSWORD":      "",
	"POSTGRES_HOST":          "",
	"POSTGRES_PORT":          "5432",
	"POSTGRES_DATABASE":      "",
	"MIGRATION_URL":          "file://db/migration",
	"REQUEST_TIMEOUT":        "5s",
	"LOG_LEVEL":              "info",
	"JWT_SECRET":             "",
	"CORS_ALLOWED_ORIGINS":   "*",
	"PAYMENT_GATEWAY":        GatewaySandbox,
	"PAYMENT_EXPIRY_WINDOW":  "5m",
	"PAYMENT_PUSH_TIMEOUT":   "10s",
	"DARAJA_BASE_URL":        "https://sandbox.safaricom.co.ke",
	"DARAJA_CONSUMER_KEY":    "",
	"DARAJA_CONSUMER_SECRET": "",
	"DARAJA_SHORTCODE":       "",
	"DARAJA_PASSKEY":         "",
	"DARAJA_CALLBACK_URL":    "",
	"SANDBOX_CALLBACK_DELAY": "3s",
	"SANDBOX_FAILURE_RATE":   0.1,
	"REDIS_ADDR":             "",
	"REDIS_PASSWORD":         "",
	"REDIS_DB":               0,
	"TRACING_ENABLED":        false,
	"TRACING_ENDPOINT":       "http://localhost:14268/api/traces",
	"SQS_QUEUE_URL":          "",
}

// LoadConfig загружает конфигурацию из app.env в каталоге path.
// Переменные окружения и необязательный .env переопределяют значения файла.
func LoadConfig(path string) (cfg Config, err error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	switch c.PaymentGateway {
	case GatewaySandbox:
	case GatewayDaraja:
		if c.DarajaConsumerKey == "" || c.DarajaConsumerSecret == "" || c.DarajaShortCode == "" ||
			c.DarajaPassKey == "" || c.DarajaCallbackURL == "" {
			return errors.New("daraja gateway requires DARAJA_CONSUMER_KEY, DARAJA_CONSUMER_SECRET, DARAJA_SHORTCODE, DARAJA_PASSKEY and DARAJA_CALLBACK_URL")
		}
	default:
		return fmt.Errorf("unknown PAYMENT_GATEWAY %q", c.PaymentGateway)
	}
	if c.SandboxFailureRate < 0 || c.SandboxFailureRate > 1 {
		return errors.New("SANDBOX_FAILURE_RATE must be within [0, 1]")
	}
	if c.PaymentExpiryWindow <= 0 || c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT and PAYMENT_EXPIRY_WINDOW must be positive")
	}
	return nil
}
