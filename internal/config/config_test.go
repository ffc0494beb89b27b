package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tagalert/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
telegram:
  token: "123456:test-token"
  admin_chat_id: 987654
`)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Telegram.Token != "123456:test-token" {
		t.Errorf("telegram.token = %q, want value from file", cfg.Telegram.Token)
	}
	if cfg.Telegram.AdminChatID != 987654 {
		t.Errorf("telegram.admin_chat_id = %d, want 987654", cfg.Telegram.AdminChatID)
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("logger.level = %q, want default %q", cfg.Logger.Level, "info")
	}
	if cfg.Database.Path != "tagalert.db" {
		t.Errorf("database.path = %q, want default %q", cfg.Database.Path, "tagalert.db")
	}
	if cfg.Retrieval.Limit != 1 {
		t.Errorf("retrieval.limit = %d, want default 1", cfg.Retrieval.Limit)
	}
	if cfg.Messages.Booting == "" {
		t.Error("messages.booting default is empty")
	}
	if cfg.Messages.MainText == "" {
		t.Error("messages.main_text default is empty")
	}

	task, ok := cfg.Scheduler.Tasks["db_maintenance"]
	if !ok {
		t.Fatal("scheduler.tasks.db_maintenance default is missing")
	}
	if !task.Enabled || task.Schedule == "" {
		t.Errorf("db_maintenance defaults = %+v, want enabled with a schedule", task)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
telegram:
  token: "123456:test-token"
  admin_chat_id: 987654
logger:
  level: debug
  json: false
retrieval:
  limit: 5
`)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Logger.Level != "debug" {
		t.Errorf("logger.level = %q, want %q", cfg.Logger.Level, "debug")
	}
	if cfg.Logger.JSON {
		t.Error("logger.json = true, want false")
	}
	if cfg.Retrieval.Limit != 5 {
		t.Errorf("retrieval.limit = %d, want 5", cfg.Retrieval.Limit)
	}
}

func TestLoadConfigRejectsMissingToken(t *testing.T) {
	path := writeConfigFile(t, `
telegram:
  admin_chat_id: 987654
`)

	if _, err := config.LoadConfig(path); err == nil {
		t.Fatal("LoadConfig succeeded without a bot token, want validation error")
	}
}

func TestLoadConfigRejectsInvalidLogLevel(t *testing.T) {
	path := writeConfigFile(t, `
telegram:
  token: "123456:test-token"
  admin_chat_id: 987654
logger:
  level: verbose
`)

	if _, err := config.LoadConfig(path); err == nil {
		t.Fatal("LoadConfig succeeded with an unknown log level, want validation error")
	}
}

func TestLoadConfigMissingFileIsNotAReadError(t *testing.T) {
	// A missing file falls through to defaults and env vars; the only
	// failure here should be validation of the still-empty token.
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("LoadConfig succeeded without any telegram credentials, want validation error")
	}
	if strings.Contains(err.Error(), "failed to read config file") {
		t.Fatalf("missing config file reported as read error: %v", err)
	}
}
