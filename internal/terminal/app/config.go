package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the terminal. Values are read by viper
// from CORRESPONSAL_* environment variables or a local .env file.
type Config struct {
	CoreAPIURL       string `mapstructure:"CORE_API_URL"`
	DeviceID         string `mapstructure:"DEVICE_ID"`
	DeviceSecretFile string `mapstructure:"DEVICE_SECRET_FILE"`
	DatabaseFile     string `mapstructure:"DATABASE_FILE"`
	ReceiptHeader    string `mapstructure:"RECEIPT_HEADER"`

	SessionDuration     time.Duration `mapstructure:"SESSION_DURATION"`
	ShutdownGracePeriod time.Duration `mapstructure:"SHUTDOWN_GRACE_PERIOD"`

	Env       string `mapstructure:"ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	Port      int    `mapstructure:"PORT"`
}

// LoadConfig reads configuration from the environment or a .env file.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.SetEnvPrefix("CORRESPONSAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("CORE_API_URL", "")
	v.SetDefault("DEVICE_ID", "")
	v.SetDefault("DEVICE_SECRET_FILE", "")
	v.SetDefault("DATABASE_FILE", "terminal.db")
	v.SetDefault("RECEIPT_HEADER", "")
	v.SetDefault("SESSION_DURATION", 15*time.Minute)
	v.SetDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second)
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PORT", 8080)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.CoreAPIURL == "" {
		return Config{}, fmt.Errorf("CORRESPONSAL_CORE_API_URL is required")
	}
	if cfg.DeviceID == "" {
		return Config{}, fmt.Errorf("CORRESPONSAL_DEVICE_ID is required")
	}

	return cfg, nil
}
