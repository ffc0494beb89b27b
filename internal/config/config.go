// Package config provides configuration loading and validation for the
// TagAlert bot. Values are layered: defaults, then an optional YAML file,
// then BOT_* environment variables, with the last non-empty source winning.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// LoadConfig loads and validates the configuration from:
// 1. Default values
// 2. The YAML file at configPath (optional)
// 3. BOT_* environment variables
//
// A configuration that fails validation is a fatal startup error; nothing
// defers misconfiguration to request time.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow a missing config file; env vars and defaults may be enough.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values for all optional parameters,
// including the full reply string table.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	v.SetDefault("database.path", "tagalert.db")

	v.SetDefault("retrieval.limit", 1)

	v.SetDefault("scheduler.tasks.db_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.db_maintenance.schedule", "0 30 4 * * *")

	v.SetDefault("messages.booting", "@%s is starting now.")
	v.SetDefault("messages.start_private",
		"Hello.\n<b>You are now enabled</b> to receive notifications from me. "+
			"Just add me to your groups and I'll start working.\n"+
			"When you get tagged I'll send a message to you.")
	v.SetDefault("messages.start_group", "Contact me in private for more infos and enabling me.")
	v.SetDefault("messages.no_username",
		"Sorry.\nYou need to set an username from Telegram's settings before using me.")
	v.SetDefault("messages.main_text",
		"<b>[ Incoming Message ]</b>\n\n<b>[ FROM ]</b>\n\U0001F464  %s\n<b>[ GROUP ]</b>\n\U0001F465  %s\n<b>[ TEXT ]</b>\n✉️  %s")
	v.SetDefault("messages.main_caption",
		"[ Incoming Message ]\n\n[ FROM ]\n\U0001F464  %s\n[ GROUP ]\n\U0001F465  %s\n[ TEXT ]\n✉️  %s")
	v.SetDefault("messages.retrieve_button", "Find the message")
	v.SetDefault("messages.retrieve_group", "Here is your message, %s.")
	v.SetDefault("messages.retrieve_success", "Done!\nNow check the group of the message.")
	v.SetDefault("messages.retrieve_limit_exceeded", "This message has been retrieved too many times.")
}
