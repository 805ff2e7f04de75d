package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type NotifierConfig struct {
	DispatchTimeout time.Duration `mapstructure:"dispatch_timeout"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RetentionDays   int           `mapstructure:"retention_days"`
}

type EmailConfig struct {
	From     string `mapstructure:"from"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type SMSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Provider string `mapstructure:"provider"`
	SenderID string `mapstructure:"sender_id"`
}

type PushConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ProjectID string `mapstructure:"project_id"`
	Topic     string `mapstructure:"topic"`
}

type WebhookConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

type ChannelsConfig struct {
	Email   EmailConfig   `mapstructure:"email"`
	SMS     SMSConfig     `mapstructure:"sms"`
	Push    PushConfig    `mapstructure:"push"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

type Config struct {
	DatabaseURL string         `mapstructure:"database_url"`
	ServerPort  string         `mapstructure:"server_port"`
	JWTSecret   string         `mapstructure:"jwt_secret"`
	Notifier    NotifierConfig `mapstructure:"notifier"`
	Channels    ChannelsConfig `mapstructure:"channels"`
}

// Load reads the configuration from a YAML file and returns a Config instance.
func Load() *Config {
	v := viper.New()

	// Look for config in the current directory and ./config
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.AddConfigPath("./config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		log.Fatalf("Error unmarshalling config: %v", err)
	}

	// Fallback defaults
	if config.ServerPort == "" {
		config.ServerPort = "8080"
	}

	if config.JWTSecret == "" {
		log.Fatal("JWT secret must be set in the config file")
	}

	if config.Notifier.DispatchTimeout == 0 {
		config.Notifier.DispatchTimeout = 5 * time.Second
	}
	if config.Notifier.SweepInterval == 0 {
		config.Notifier.SweepInterval = time.Minute
	}
	if config.Notifier.CleanupInterval == 0 {
		config.Notifier.CleanupInterval = 24 * time.Hour
	}
	if config.Notifier.RetentionDays == 0 {
		config.Notifier.RetentionDays = 30
	}
	if config.Channels.Email.SMTPPort == 0 {
		config.Channels.Email.SMTPPort = 587
	}

	return &config
}
