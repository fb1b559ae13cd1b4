package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv        string
	EncryptionKey string
	Database      DatabaseConfig
	HTTP          HTTPConfig
	OTP           OTPConfig
	Redis         RedisConfig
	Twilio        TwilioConfig
	Bot           BotConfig
}

type DatabaseConfig struct {
	URL string
}

type HTTPConfig struct {
	Port      int
	JWTSecret string
}

// OTPConfig controls code delivery and request throttling.
type OTPConfig struct {
	DevMode           bool
	Delivery          string // log, sms or telegram
	BcryptCost        int
	RequestsPerWindow int
	RequestWindow     time.Duration
}

// RedisConfig is optional; without a URL the throttle is in-process.
type RedisConfig struct {
	URL string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// BotConfig configures the moderator bot. An empty Token disables it.
type BotConfig struct {
	Token           string
	Mode            string // polling or webhook
	ModeratorChatID int64
	Polling         struct {
		WorkerPoolSize int
	}
	Webhook struct {
		URL        string
		ListenPort int
	}
}

// IsDev reports whether the app runs in development mode.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

// EncryptionKeyBytes decodes the hex encryption key.
func (c *Config) EncryptionKeyBytes() ([]byte, error) {
	return hex.DecodeString(c.EncryptionKey)
}

var bindings = [][2]string{
	{"app.env", "APP_ENV"},
	{"encryption.key", "ENCRYPTION_KEY"},
	{"database.url", "DATABASE_URL"},
	{"http.port", "HTTP_PORT"},
	{"http.jwt_secret", "JWT_SECRET"},
	{"otp.dev_mode", "OTP_DEV_MODE"},
	{"otp.delivery", "OTP_DELIVERY"},
	{"otp.bcrypt_cost", "OTP_BCRYPT_COST"},
	{"otp.requests_per_window", "OTP_REQUESTS_PER_WINDOW"},
	{"otp.request_window", "OTP_REQUEST_WINDOW"},
	{"redis.url", "REDIS_URL"},
	{"twilio.account_sid", "TWILIO_ACCOUNT_SID"},
	{"twilio.auth_token", "TWILIO_AUTH_TOKEN"},
	{"twilio.from_number", "TWILIO_FROM_NUMBER"},
	{"bot.token", "BOT_TOKEN"},
	{"bot.mode", "BOT_MODE"},
	{"bot.workers", "BOT_WORKERS"},
	{"bot.webhook_url", "BOT_WEBHOOK_URL"},
	{"bot.webhook_port", "BOT_WEBHOOK_PORT"},
	{"bot.moderator_chat_id", "BOT_MODERATOR_CHAT_ID"},
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// A missing .env is fine in prod; anything else is not.
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", b[0], err)
		}
	}

	v.SetDefault("app.env", "dev")
	v.SetDefault("http.port", 8080)
	v.SetDefault("otp.dev_mode", false)
	v.SetDefault("otp.delivery", "log")
	v.SetDefault("otp.bcrypt_cost", 10)
	v.SetDefault("otp.requests_per_window", 3)
	v.SetDefault("otp.request_window", "10m")
	v.SetDefault("bot.mode", "polling")
	v.SetDefault("bot.workers", 4)
	v.SetDefault("bot.webhook_port", 8443)

	cfg := Config{
		AppEnv:        v.GetString("app.env"),
		EncryptionKey: v.GetString("encryption.key"),
		Database:      DatabaseConfig{URL: v.GetString("database.url")},
		HTTP: HTTPConfig{
			Port:      v.GetInt("http.port"),
			JWTSecret: v.GetString("http.jwt_secret"),
		},
		OTP: OTPConfig{
			DevMode:           v.GetBool("otp.dev_mode"),
			Delivery:          strings.ToLower(v.GetString("otp.delivery")),
			BcryptCost:        v.GetInt("otp.bcrypt_cost"),
			RequestsPerWindow: v.GetInt("otp.requests_per_window"),
			RequestWindow:     v.GetDuration("otp.request_window"),
		},
		Redis: RedisConfig{URL: v.GetString("redis.url")},
		Twilio: TwilioConfig{
			AccountSID: v.GetString("twilio.account_sid"),
			AuthToken:  v.GetString("twilio.auth_token"),
			FromNumber: v.GetString("twilio.from_number"),
		},
	}
	cfg.Bot.Token = v.GetString("bot.token")
	cfg.Bot.Mode = v.GetString("bot.mode")
	cfg.Bot.ModeratorChatID = v.GetInt64("bot.moderator_chat_id")
	cfg.Bot.Polling.WorkerPoolSize = v.GetInt("bot.workers")
	cfg.Bot.Webhook.URL = v.GetString("bot.webhook_url")
	cfg.Bot.Webhook.ListenPort = v.GetInt("bot.webhook_port")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.EncryptionKey == "" {
		return errors.New("ENCRYPTION_KEY is not set in environment or .env file")
	}
	if len(c.EncryptionKey) != 64 {
		return fmt.Errorf("ENCRYPTION_KEY must be a 64-character hex string (32 bytes), but got %d chars", len(c.EncryptionKey))
	}
	if _, err := c.EncryptionKeyBytes(); err != nil {
		return fmt.Errorf("ENCRYPTION_KEY is not valid hex: %w", err)
	}
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if c.HTTP.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.OTP.RequestsPerWindow < 1 || c.OTP.RequestWindow <= 0 {
		return errors.New("OTP_REQUESTS_PER_WINDOW and OTP_REQUEST_WINDOW must be positive")
	}

	switch c.OTP.Delivery {
	case "log":
	case "sms":
		if c.Twilio.AccountSID == "" || c.Twilio.AuthToken == "" || c.Twilio.FromNumber == "" {
			return errors.New("OTP_DELIVERY=sms needs TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER")
		}
	case "telegram":
		if c.Bot.Token == "" {
			return errors.New("OTP_DELIVERY=telegram needs BOT_TOKEN")
		}
	default:
		return fmt.Errorf("unknown OTP_DELIVERY: %q", c.OTP.Delivery)
	}

	if c.Bot.Token != "" {
		if c.Bot.Mode != "polling" && c.Bot.Mode != "webhook" {
			return fmt.Errorf("unknown BOT_MODE: %q", c.Bot.Mode)
		}
		if c.Bot.Mode == "webhook" && c.Bot.Webhook.URL == "" {
			return errors.New("BOT_MODE=webhook needs BOT_WEBHOOK_URL")
		}
		if c.Bot.Polling.WorkerPoolSize < 1 {
			c.Bot.Polling.WorkerPoolSize = 1
		}
	}
	return nil
}
