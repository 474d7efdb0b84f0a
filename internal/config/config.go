package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Storage       StorageConfig       `mapstructure:"storage"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Reminders     RemindersConfig     `mapstructure:"reminders"`
	Dashboard     DashboardConfig     `mapstructure:"dashboard"`
	LinkMeta      LinkMetaConfig      `mapstructure:"link_meta"`
}

// StorageConfig selects where the dashboard document is persisted.
type StorageConfig struct {
	Driver    string `mapstructure:"driver" validate:"oneof=file mysql memory"`
	Directory string `mapstructure:"directory" validate:"required_if=Driver file"`
	Key       string `mapstructure:"key" validate:"required"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port" validate:"gt=0"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type NotificationsConfig struct {
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig configures the HTTP notification platform. An empty URL disables it.
type WebhookConfig struct {
	URL              string        `mapstructure:"url" validate:"omitempty,url"`
	Token            string        `mapstructure:"token"`
	Permission       string        `mapstructure:"permission" validate:"permission"`
	MaxRetryAttempts uint          `mapstructure:"max_retry_attempts"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"`
}

type RemindersConfig struct {
	MaxTimerDelay     time.Duration `mapstructure:"max_timer_delay" validate:"gt=0"`
	HighlightAttempts int           `mapstructure:"highlight_attempts" validate:"gt=0"`
	HighlightInterval time.Duration `mapstructure:"highlight_interval" validate:"gt=0"`
	NotifyTimeout     time.Duration `mapstructure:"notify_timeout" validate:"gt=0"`
}

type DashboardConfig struct {
	DefaultTitle string `mapstructure:"default_title"`
	MaxIconBytes int    `mapstructure:"max_icon_bytes" validate:"gt=0"`
}

type LinkMetaConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/linkboard")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.directory", filepath.Join("data", "linkboard"))
	v.SetDefault("storage.key", "linkboard")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "linkboard")
	v.SetDefault("database.username", "user")
	v.SetDefault("notifications.webhook.permission", "default")
	v.SetDefault("notifications.webhook.max_retry_attempts", 2)
	v.SetDefault("notifications.webhook.retry_delay", "500ms")
	// 2^31-1 milliseconds
	v.SetDefault("reminders.max_timer_delay", "596h31m23.647s")
	v.SetDefault("reminders.highlight_attempts", 10)
	v.SetDefault("reminders.highlight_interval", "200ms")
	v.SetDefault("reminders.notify_timeout", "10s")
	v.SetDefault("dashboard.default_title", "My Dashboard")
	v.SetDefault("dashboard.max_icon_bytes", 512*1024)
	v.SetDefault("link_meta.timeout", "10s")

	// Secrets come from the environment only
	if err := v.BindEnv("database.password", "LINKBOARD_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind LINKBOARD_DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("notifications.webhook.token", "LINKBOARD_WEBHOOK_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind LINKBOARD_WEBHOOK_TOKEN environment variable: %w", err)
	}
	if err := v.BindEnv("notifications.webhook.url", "LINKBOARD_WEBHOOK_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind LINKBOARD_WEBHOOK_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
