package config

import (
	"path/filepath"
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(envMap(nil))
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	if !cfg.HistoryEnabled {
		t.Error("History should be enabled by default")
	}
	if filepath.Base(cfg.DBPath) != DefaultDBName {
		t.Errorf("Expected default db name %s, got %s", DefaultDBName, cfg.DBPath)
	}
	if filepath.Base(filepath.Dir(cfg.DBPath)) != AppDirName {
		t.Errorf("Expected db inside %s dir, got %s", AppDirName, cfg.DBPath)
	}
	if cfg.NotificationsEnabled() {
		t.Error("Notifications should be disabled without a token")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	cfg, err := load(envMap(map[string]string{
		EnvDBPath:        "/data/ytmp4.db",
		EnvNoHistory:     "true",
		EnvTelegramToken: " 123:abc ",
		EnvTelegramChat:  "-100200300",
	}))
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	if cfg.DBPath != "/data/ytmp4.db" {
		t.Errorf("DBPath = %s", cfg.DBPath)
	}
	if cfg.HistoryEnabled {
		t.Error("History should be disabled")
	}
	if cfg.TelegramToken != "123:abc" {
		t.Errorf("TelegramToken = %q", cfg.TelegramToken)
	}
	if cfg.TelegramChatID != -100200300 {
		t.Errorf("TelegramChatID = %d", cfg.TelegramChatID)
	}
	if !cfg.NotificationsEnabled() {
		t.Error("Notifications should be enabled")
	}
}

func TestLoad_InvalidChatID(t *testing.T) {
	_, err := load(envMap(map[string]string{EnvTelegramChat: "not-a-number"}))
	if err == nil {
		t.Error("Expected error for invalid chat id")
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1", true},
		{"true", true},
		{" TRUE ", true},
		{"0", false},
		{"", false},
		{"yes", false},
	}

	for _, tt := range tests {
		if got := parseBool(tt.input); got != tt.expected {
			t.Errorf("parseBool(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
