package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Elastic  ElasticsearchConfig
	Billing  BillingConfig
	Shop     ShopConfig
	WhatsApp WhatsAppConfig
	I18n     I18nConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	AppEnv   string
	GRPCPort string
	HTTPPort string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
	AutoMigrate     bool
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers   []string
	BillTopic string
	GroupID   string
}

type ElasticsearchConfig struct {
	Addresses []string
	Username  string
	Password  string
}

// BillingConfig holds the pricing policy applied to every cart and bill.
// TaxRate is a fraction (0.08 = 8%). The default is 0: tax disabled.
type BillingConfig struct {
	TaxRate string
	CartTTL time.Duration
}

type ShopConfig struct {
	Name     string
	Address  []string
	Contact  string
	GSTIN    string
	Currency string
	GSTLabel string
	Timezone string
}

type WhatsAppConfig struct {
	Enabled       bool
	APIURL        string
	Token         string
	PhoneNumberID string
	Timeout       time.Duration
}

type I18nConfig struct {
	DefaultLanguage string
	LocaleFiles     []string
}

// AuthConfig seeds an admin operator at startup when BootstrapEmail is set.
type AuthConfig struct {
	BootstrapEmail    string
	BootstrapName     string
	BootstrapPassword string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:   getEnv("APP_ENV", "dev"),
			GRPCPort: getEnv("GRPC_PORT", ":8083"),
			HTTPPort: getEnv("HTTP_PORT", ":9093"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5433"),
			User:            getEnv("POSTGRES_USER", "omnipos"),
			Password:        getEnv("POSTGRES_PASSWORD", "omnipos"),
			DBName:          getEnv("POSTGRES_DB", "omnipos_billing"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
			AutoMigrate:     getEnvBool("POSTGRES_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", "your-secret-key-change-this-in-prod"),
			TTL:       getEnvDuration("JWT_TTL", 12*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:   getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			BillTopic: getEnv("KAFKA_TOPIC_BILLS", "bills.events"),
			GroupID:   getEnv("KAFKA_GROUP_RECEIPTS", "receipts"),
		},
		Elastic: ElasticsearchConfig{
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
		},
		Billing: BillingConfig{
			TaxRate: getEnv("BILLING_TAX_RATE", "0"),
			CartTTL: getEnvDuration("BILLING_CART_TTL", 8*time.Hour),
		},
		Shop: ShopConfig{
			Name:     getEnv("SHOP_NAME", "OmniPOS Store"),
			Address:  getEnvSlice("SHOP_ADDRESS", []string{}),
			Contact:  getEnv("SHOP_CONTACT", ""),
			GSTIN:    getEnv("SHOP_GSTIN", ""),
			Currency: getEnv("SHOP_CURRENCY", "₹"),
			GSTLabel: getEnv("SHOP_GST_LABEL", "GST"),
			Timezone: getEnv("SHOP_TIMEZONE", "Asia/Kolkata"),
		},
		WhatsApp: WhatsAppConfig{
			Enabled:       getEnvBool("WHATSAPP_ENABLED", false),
			APIURL:        getEnv("WHATSAPP_API_URL", "https://graph.facebook.com/v19.0"),
			Token:         getEnv("WHATSAPP_TOKEN", ""),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			Timeout:       getEnvDuration("WHATSAPP_TIMEOUT", 10*time.Second),
		},
		I18n: I18nConfig{
			DefaultLanguage: getEnv("I18N_DEFAULT_LANGUAGE", "en"),
			LocaleFiles:     getEnvSlice("I18N_LOCALE_FILES", []string{}),
		},
		Auth: AuthConfig{
			BootstrapEmail:    getEnv("AUTH_BOOTSTRAP_EMAIL", ""),
			BootstrapName:     getEnv("AUTH_BOOTSTRAP_NAME", "Administrator"),
			BootstrapPassword: getEnv("AUTH_BOOTSTRAP_PASSWORD", ""),
		},
	}
}

// TaxRateDecimal returns the configured tax rate, or zero when it does not parse.
func (b BillingConfig) TaxRateDecimal() decimal.Decimal {
	rate, err := decimal.NewFromString(strings.TrimSpace(b.TaxRate))
	if err != nil {
		return decimal.Zero
	}
	return rate
}

func (c *Config) Validate() error {
	var errs []error

	rate, err := decimal.NewFromString(strings.TrimSpace(c.Billing.TaxRate))
	if err != nil {
		errs = append(errs, fmt.Errorf("BILLING_TAX_RATE %q is not a number", c.Billing.TaxRate))
	} else if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, fmt.Errorf("BILLING_TAX_RATE must be between 0 and 1, got %s", rate))
	}

	if c.JWT.SecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.WhatsApp.Enabled && (c.WhatsApp.Token == "" || c.WhatsApp.PhoneNumberID == "") {
		errs = append(errs, errors.New("WHATSAPP_TOKEN and WHATSAPP_PHONE_NUMBER_ID are required when WhatsApp is enabled"))
	}

	if c.Auth.BootstrapEmail != "" && len(c.Auth.BootstrapPassword) < 8 {
		errs = append(errs, errors.New("AUTH_BOOTSTRAP_PASSWORD must be at least 8 characters"))
	}
	if c.Billing.CartTTL <= 0 {
		errs = append(errs, errors.New("BILLING_CART_TTL must be positive"))
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		if value == "" {
			return []string{}
		}
		return strings.Split(value, ",")
	}
	return fallback
}
