package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/studyforge/studyforge/internal/shared/config"
)

// minJWTSecretLen is the shortest HS256 key accepted at start-up.
const minJWTSecretLen = 32

type Config struct {
	Server       sharedConfig.ServerConfig       `mapstructure:"server"`
	Database     sharedConfig.DatabaseConfig     `mapstructure:"database"`
	Logger       sharedConfig.LoggerConfig       `mapstructure:"logger"`
	Auth         sharedConfig.AuthConfig         `mapstructure:"auth"`
	Email        sharedConfig.EmailConfig        `mapstructure:"email"`
	Redis        sharedConfig.RedisConfig        `mapstructure:"redis"`
	RateLimit    sharedConfig.RateLimitConfig    `mapstructure:"rate_limit"`
	Generator    sharedConfig.GeneratorConfig    `mapstructure:"generator"`
	Plans        sharedConfig.PlansConfig        `mapstructure:"plans"`
	Subscription sharedConfig.SubscriptionConfig `mapstructure:"subscription"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml when present and overlays STUDYFORGE_*
// environment variables. configPath overrides the search path when set.
// The result is validated; a missing secret is a start-up error.
func Load(env, configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("STUDYFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the last configuration returned by Load.
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate rejects configurations the server cannot safely start with.
func (c *Config) Validate() error {
	var problems []string

	switch {
	case c.Auth.JWT.Secret == "":
		problems = append(problems, "auth.jwt.secret is required (STUDYFORGE_AUTH_JWT_SECRET)")
	case len(c.Auth.JWT.Secret) < minJWTSecretLen:
		problems = append(problems, fmt.Sprintf("auth.jwt.secret must be at least %d bytes", minJWTSecretLen))
	}

	switch c.Generator.Provider {
	case "gemini":
		if c.Generator.APIKey == "" {
			problems = append(problems, "generator.api_key is required for the gemini provider (STUDYFORGE_GENERATOR_API_KEY)")
		}
	default:
		problems = append(problems, fmt.Sprintf("generator.provider %q is not supported", c.Generator.Provider))
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			problems = append(problems, "database.path is required for sqlite")
		}
	case "mysql":
	default:
		problems = append(problems, fmt.Sprintf("database.driver %q is not supported", c.Database.Driver))
	}

	if c.Plans.FreeRequests < 0 {
		problems = append(problems, "plans.free_requests must not be negative")
	}
	if c.Subscription.PeriodDays <= 0 {
		problems = append(problems, "subscription.period_days must be positive")
	}
	if c.Subscription.ExpirySweep.Enabled && c.Subscription.ExpirySweep.IntervalMinutes <= 0 {
		problems = append(problems, "subscription.expiry_sweep.interval_minutes must be positive when the sweep is enabled")
	}
	if c.Redis.Enabled && c.RateLimit.Requests <= 0 {
		problems = append(problems, "rate_limit.requests must be positive when redis is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	// Database
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "studyforge.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "studyforge")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Auth; the JWT secret deliberately has no default.
	v.SetDefault("auth.password.bcrypt_cost", 12)
	v.SetDefault("auth.jwt.secret", "")
	v.SetDefault("auth.jwt.access_exp_minutes", 60)

	// Email; empty host disables notifications.
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from_address", "noreply@studyforge.local")
	v.SetDefault("email.from_name", "StudyForge")

	// Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.requests", 30)
	v.SetDefault("rate_limit.window_seconds", 60)

	// Generator
	v.SetDefault("generator.provider", "gemini")
	v.SetDefault("generator.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.model", "gemini-1.5-flash")
	v.SetDefault("generator.timeout_seconds", 60)

	// Plans and subscriptions
	v.SetDefault("plans.free_requests", 5)
	v.SetDefault("subscription.period_days", 30)
	v.SetDefault("subscription.expiry_sweep.enabled", false)
	v.SetDefault("subscription.expiry_sweep.interval_minutes", 10)
}
