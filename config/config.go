package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	TelegramToken     string        `mapstructure:"telegram_bot_token"`
	OwnerTelegramID   int64         `mapstructure:"owner_telegram_id"`
	PartnerTelegramID int64         `mapstructure:"partner_telegram_id"`
	DatabasePath      string        `mapstructure:"database_path"`
	TimezoneName      string        `mapstructure:"timezone"`
	WebhookURL        string        `mapstructure:"webhook_url"`
	WebhookSecret     string        `mapstructure:"webhook_secret"`
	ServerPort        string        `mapstructure:"server_port"`
	LoginUsers        string        `mapstructure:"login_users"`
	CheckInterval     time.Duration `mapstructure:"reminder_check_interval"`
	BRLToCLPRate      float64       `mapstructure:"brl_to_clp_rate"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`

	CalDAVURL      string `mapstructure:"caldav_url"`
	CalDAVUsername string `mapstructure:"caldav_username"`
	CalDAVPassword string `mapstructure:"caldav_password"`
	CalDAVCalendar string `mapstructure:"caldav_calendar"`

	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`
	AppEnv    string `mapstructure:"app_env"`

	OTELEnable      bool    `mapstructure:"otel_enable"`
	OTELEndpoint    string  `mapstructure:"otel_endpoint"`
	OTELSampleRatio float64 `mapstructure:"otel_sample_ratio"`

	Timezone *time.Location    `mapstructure:"-"`
	Users    map[string]string `mapstructure:"-"`
}

// Load reads the configuration from the environment and, when CONFIG_PATH is
// set, from a YAML file using the same lower-case keys.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config_path"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.TelegramToken != "" && cfg.OwnerTelegramID == 0 {
		return nil, fmt.Errorf("OWNER_TELEGRAM_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	tz, err := time.LoadLocation(cfg.TimezoneName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Timezone = tz

	users, err := parseUsers(cfg.LoginUsers)
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_USERS: %w", err)
	}
	cfg.Users = users

	if cfg.CheckInterval <= 0 {
		return nil, fmt.Errorf("REMINDER_CHECK_INTERVAL must be positive")
	}
	if cfg.BRLToCLPRate <= 0 {
		return nil, fmt.Errorf("BRL_TO_CLP_RATE must be positive")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram_bot_token", "")
	v.SetDefault("owner_telegram_id", 0)
	v.SetDefault("partner_telegram_id", 0)
	v.SetDefault("database_path", "./data/tripbot.db")
	v.SetDefault("timezone", "America/Santiago")
	v.SetDefault("webhook_url", "")
	v.SetDefault("webhook_secret", "")
	v.SetDefault("server_port", "8080")
	v.SetDefault("login_users", "Deco:Deco,Rafa:Rafa")
	v.SetDefault("reminder_check_interval", "60s")
	v.SetDefault("brl_to_clp_rate", 175)

	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-2.5-flash")

	v.SetDefault("caldav_url", "")
	v.SetDefault("caldav_username", "")
	v.SetDefault("caldav_password", "")
	v.SetDefault("caldav_calendar", "")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("app_env", "prod")

	v.SetDefault("otel_enable", false)
	v.SetDefault("otel_endpoint", "localhost:4317")
	v.SetDefault("otel_sample_ratio", 1.0)
}

// parseUsers reads "name:password,name2:password2".
func parseUsers(s string) (map[string]string, error) {
	users := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, pass, ok := strings.Cut(pair, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("entry %q is not name:password", pair)
		}
		users[name] = pass
	}
	return users, nil
}

func (c *Config) IsAllowedUser(telegramID int64) bool {
	return telegramID == c.OwnerTelegramID || (c.PartnerTelegramID != 0 && telegramID == c.PartnerTelegramID)
}

// FamilyChats are the Telegram chats that receive notifications.
func (c *Config) FamilyChats() []int64 {
	chats := []int64{c.OwnerTelegramID}
	if c.PartnerTelegramID != 0 {
		chats = append(chats, c.PartnerTelegramID)
	}
	return chats
}

// CheckLogin is the login gate. It is a plain credential comparison.
func (c *Config) CheckLogin(user, password string) bool {
	want, ok := c.Users[user]
	return ok && want == password
}

func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

func (c *Config) CalDAVEnabled() bool {
	return c.CalDAVUsername != "" && c.CalDAVPassword != ""
}
