// Package config loads checkd's settings from defaults, an optional YAML
// file and CHECKD_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/sandeepkv93/checkd/internal/scheduler"
)

const (
	EnvPrefix         = "CHECKD"
	DefaultConfigFile = "checkd.yaml"
)

type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Log       LogConfig       `mapstructure:"log"`
}

type TelegramConfig struct {
	Token         string  `mapstructure:"token"`
	ChatID        int64   `mapstructure:"chat_id"`
	APIURL        string  `mapstructure:"api_url" validate:"required,url"`
	WebhookSecret string  `mapstructure:"webhook_secret"`
	RatePerSecond float64 `mapstructure:"rate_per_second" validate:"gte=0"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite badger memory"`
	Path   string `mapstructure:"path" validate:"required_unless=Driver memory"`
}

type ScheduleConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	At      string `mapstructure:"at" validate:"required,datetime=15:04"`
	// UTCOffsetHours fixes the zone used to decide what "today" is.
	UTCOffsetHours int `mapstructure:"utc_offset_hours" validate:"gte=-12,lte=14"`
}

type TemplatesConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=auto text json"`
}

func Default() Config {
	return Config{
		Telegram: TelegramConfig{
			APIURL:        "https://api.telegram.org",
			RatePerSecond: 25,
		},
		Server: ServerConfig{Addr: ":8080"},
		Store:  StoreConfig{Driver: "sqlite", Path: "checkd.db"},
		Schedule: ScheduleConfig{
			Enabled:        true,
			At:             "07:00",
			UTCOffsetHours: 8,
		},
		Log: LogConfig{Level: "info", Format: "auto"},
	}
}

// Load reads path when given; otherwise checkd.yaml in the working directory
// is used if it exists.
func Load(path string) (Config, error) {
	cfg := Default()
	v := viper.New()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("telegram.token", cfg.Telegram.Token)
	v.SetDefault("telegram.chat_id", cfg.Telegram.ChatID)
	v.SetDefault("telegram.api_url", cfg.Telegram.APIURL)
	v.SetDefault("telegram.webhook_secret", cfg.Telegram.WebhookSecret)
	v.SetDefault("telegram.rate_per_second", cfg.Telegram.RatePerSecond)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("store.driver", cfg.Store.Driver)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("schedule.enabled", cfg.Schedule.Enabled)
	v.SetDefault("schedule.at", cfg.Schedule.At)
	v.SetDefault("schedule.utc_offset_hours", cfg.Schedule.UTCOffsetHours)
	v.SetDefault("templates.path", cfg.Templates.Path)
	v.SetDefault("templates.watch", cfg.Templates.Watch)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: invalid fields: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// RequireTelegram checks the settings needed to talk to the Bot API.
func (c Config) RequireTelegram() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("config: telegram.token is required (CHECKD_TELEGRAM_TOKEN)")
	}
	return nil
}

// RequireChat checks the destination of the daily checklist.
func (c Config) RequireChat() error {
	if c.Telegram.ChatID == 0 {
		return errors.New("config: telegram.chat_id is required (CHECKD_TELEGRAM_CHAT_ID)")
	}
	return nil
}

// Zone is the fixed-offset location used to compute "today".
func (c Config) Zone() *time.Location {
	offset := c.Schedule.UTCOffsetHours
	name := fmt.Sprintf("UTC%+d", offset)
	if offset == 0 {
		name = "UTC"
	}
	return time.FixedZone(name, offset*60*60)
}

func (c Config) ScheduleClock() (scheduler.Clock, error) {
	return scheduler.ParseClock(c.Schedule.At)
}
