package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"golang.org/x/text/currency"
)

// Config holds terminal configuration loaded from the environment.
type Config struct {
	StoreName        string `validate:"required"`
	PayeeID          string `validate:"required,contains=@"`
	PayeeName        string `validate:"required"`
	PaymentNote      string `validate:"required"`
	Currency         currency.Unit
	CurrencySymbol   string `validate:"required"`
	PrintCommand     string `validate:"required"`
	QRSize           int    `validate:"gte=64,lte=2048"`
	MetricsAddr      string
	MetricsNamespace string `validate:"required"`
	LogFormat        string `validate:"oneof=json console text"`
	LogLevel         string `validate:"required"`
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	unit, err := currency.ParseISO(valueOrDefault(k.String("POS_CURRENCY"), "INR"))
	if err != nil {
		return nil, fmt.Errorf("POS_CURRENCY[%s] is not valid: %w", k.String("POS_CURRENCY"), err)
	}

	cfg := &Config{
		StoreName:        valueOrDefault(k.String("POS_STORE_NAME"), "Own Mart"),
		PayeeID:          valueOrDefault(k.String("POS_PAYEE_ID"), "ownmart@okhdfcbank"),
		PayeeName:        valueOrDefault(k.String("POS_PAYEE_NAME"), "OwnMart"),
		PaymentNote:      valueOrDefault(k.String("POS_PAYMENT_NOTE"), "OwnMart Payment"),
		Currency:         unit,
		CurrencySymbol:   valueOrDefault(k.String("POS_CURRENCY_SYMBOL"), "₹"),
		PrintCommand:     valueOrDefault(k.String("POS_PRINT_COMMAND"), "lpr"),
		QRSize:           parseInt(k.String("POS_QR_SIZE"), 256),
		MetricsAddr:      strings.TrimSpace(k.String("POS_METRICS_ADDR")),
		MetricsNamespace: valueOrDefault(k.String("POS_METRICS_NAMESPACE"), "pos"),
		LogFormat:        strings.ToLower(valueOrDefault(k.String("LOG_FORMAT"), "console")),
		LogLevel:         valueOrDefault(k.String("LOG_LEVEL"), "info"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad behaves like Load but panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
