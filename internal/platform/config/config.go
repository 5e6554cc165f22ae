package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the onboarding services.
// Values come from configs/config.defaults.yaml and APP_ prefixed environment variables.
type Config struct {
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"` // json or text

	PostgresDSN string `mapstructure:"POSTGRES_DSN"`
	NATSUrl     string `mapstructure:"NATS_URL"`

	// Run status storage: "memory" or "redis".
	RunStore          string `mapstructure:"RUN_STORE"`
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int    `mapstructure:"REDIS_DB"`
	RunStatusTTLHours int    `mapstructure:"RUN_STATUS_TTL_HOURS"`

	OnboardingServicePort int    `mapstructure:"ONBOARDING_SERVICE_PORT"`
	APIJWTSecret          string `mapstructure:"API_JWT_SECRET"` // empty disables auth
	CORSAllowedOrigin     string `mapstructure:"CORS_ALLOWED_ORIGIN"`

	// Retell platform
	RetellAPIToken       string `mapstructure:"RETELL_API_TOKEN"`
	RetellOrgID          string `mapstructure:"RETELL_ORG_ID"`
	RetellBaseURL        string `mapstructure:"RETELL_BASE_URL"`
	RemoteTimeoutSeconds int    `mapstructure:"REMOTE_TIMEOUT_SECONDS"`
	NumberProvider       string `mapstructure:"NUMBER_PROVIDER"`
	PhoneCountryCode     string `mapstructure:"PHONE_COUNTRY_CODE"`
	AddressToolURL       string `mapstructure:"ADDRESS_TOOL_URL"`
	AddressToolToken     string `mapstructure:"ADDRESS_TOOL_TOKEN"`

	// Dashboard
	DashboardRegisterURL   string `mapstructure:"DASHBOARD_REGISTER_URL"`
	DashboardOrigin        string `mapstructure:"DASHBOARD_ORIGIN"`
	CredentialsEmailDomain string `mapstructure:"CREDENTIALS_EMAIL_DOMAIN"`

	MaxConcurrentRuns int `mapstructure:"MAX_CONCURRENT_RUNS"`
	RunTimeoutMinutes int `mapstructure:"RUN_TIMEOUT_MINUTES"`
}

var ErrMissingRetellToken = errors.New("RETELL_API_TOKEN is required")

// Load reads config.defaults.yaml (if present) and overlays environment variables.
// serviceName is only used for log context.
func Load(serviceName string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config.defaults")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.AllowEmptyEnv(true) // APP_POSTGRES_DSN= disables persistence
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix("APP") // APP_LOG_LEVEL, APP_RETELL_API_TOKEN etc.

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Printf("%s: config.defaults.yaml not found; using defaults and environment variables.", serviceName)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("NATS_URL", "")

	v.SetDefault("RUN_STORE", "memory")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RUN_STATUS_TTL_HOURS", 72)

	v.SetDefault("ONBOARDING_SERVICE_PORT", 8000)
	v.SetDefault("API_JWT_SECRET", "")
	v.SetDefault("CORS_ALLOWED_ORIGIN", "*")

	v.SetDefault("RETELL_API_TOKEN", "")
	v.SetDefault("RETELL_ORG_ID", "")
	v.SetDefault("RETELL_BASE_URL", "https://api.retellai.com")
	v.SetDefault("REMOTE_TIMEOUT_SECONDS", 60)
	v.SetDefault("NUMBER_PROVIDER", "twilio")
	v.SetDefault("PHONE_COUNTRY_CODE", "US")
	v.SetDefault("ADDRESS_TOOL_URL", "https://clara-validate-address.vercel.app/api/validate-address")
	v.SetDefault("ADDRESS_TOOL_TOKEN", "")

	v.SetDefault("DASHBOARD_REGISTER_URL", "https://clara-answering-services.justclara.ai/api/auth/register")
	v.SetDefault("DASHBOARD_ORIGIN", "https://voice.justclara.ai")
	v.SetDefault("CREDENTIALS_EMAIL_DOMAIN", "justclara.ai")

	v.SetDefault("MAX_CONCURRENT_RUNS", 4)
	v.SetDefault("RUN_TIMEOUT_MINUTES", 15)
}

// Validate checks the keys a provisioning run cannot work without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RetellAPIToken) == "" {
		return ErrMissingRetellToken
	}
	switch c.RunStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported RUN_STORE %q (want memory or redis)", c.RunStore)
	}
	if c.MaxConcurrentRuns < 1 {
		return fmt.Errorf("MAX_CONCURRENT_RUNS must be positive, got %d", c.MaxConcurrentRuns)
	}
	return nil
}

func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutSeconds) * time.Second
}

func (c *Config) RunTimeout() time.Duration {
	return time.Duration(c.RunTimeoutMinutes) * time.Minute
}

func (c *Config) RunStatusTTL() time.Duration {
	return time.Duration(c.RunStatusTTLHours) * time.Hour
}
