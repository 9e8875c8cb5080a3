package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variables
const (
	EnvDBPath        = "YTMP4_DB_PATH"
	EnvNoHistory     = "YTMP4_NO_HISTORY"
	EnvTelegramToken = "TELEGRAM_BOT_TOKEN"
	EnvTelegramChat  = "TELEGRAM_CHAT_ID"
)

// Default values
const (
	DefaultQuality   = "highest"
	DefaultOutputDir = "."
	DefaultDBName    = "history.db"
	AppDirName       = "ytmp4"
)

// Config holds settings that do not come from command-line flags
type Config struct {
	DBPath         string
	HistoryEnabled bool
	TelegramToken  string
	TelegramChatID int64
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBPath:         getenv(EnvDBPath),
		HistoryEnabled: !parseBool(getenv(EnvNoHistory)),
		TelegramToken:  strings.TrimSpace(getenv(EnvTelegramToken)),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}

	if raw := strings.TrimSpace(getenv(EnvTelegramChat)); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvTelegramChat, raw, err)
		}
		cfg.TelegramChatID = id
	}

	return cfg, nil
}

// NotificationsEnabled reports whether Telegram notifications are configured
func (c *Config) NotificationsEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, AppDirName, DefaultDBName)
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && v
}
