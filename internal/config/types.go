package config

// TelegramConfig holds the bot credentials and the admin chat that receives
// the boot notice.
type TelegramConfig struct {
	Token       string  `mapstructure:"token"         validate:"required"`
	AdminChatID int64   `mapstructure:"admin_chat_id" validate:"required"`
	BotInfo     BotInfo `mapstructure:"-"`
}

// BotInfo holds the bot's own identity, populated at startup via GetMe.
type BotInfo struct {
	ID        int64
	Username  string
	FirstName string
}

// DatabaseConfig holds the SQLite database settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// RetrievalConfig controls how many times a message may be retrieved through
// the callback button.
type RetrievalConfig struct {
	Limit int `mapstructure:"limit" validate:"min=0"`
}

// TaskConfig describes a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// Messages is the localized reply string table. The three-slot templates
// interpolate sender, group title, and message body, in that order.
type Messages struct {
	Booting               string `mapstructure:"booting"                 validate:"required"`
	StartPrivate          string `mapstructure:"start_private"           validate:"required"`
	StartGroup            string `mapstructure:"start_group"             validate:"required"`
	NoUsername            string `mapstructure:"no_username"             validate:"required"`
	MainText              string `mapstructure:"main_text"               validate:"required"`
	MainCaption           string `mapstructure:"main_caption"            validate:"required"`
	RetrieveButton        string `mapstructure:"retrieve_button"         validate:"required"`
	RetrieveGroup         string `mapstructure:"retrieve_group"          validate:"required"`
	RetrieveSuccess       string `mapstructure:"retrieve_success"        validate:"required"`
	RetrieveLimitExceeded string `mapstructure:"retrieve_limit_exceeded" validate:"required"`
}

// Config defines the application configuration. Values can be set via
// config.yaml or environment variables prefixed with BOT_
// (e.g. BOT_TELEGRAM_TOKEN).
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  Messages        `mapstructure:"messages"`
}
