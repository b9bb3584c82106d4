package config

import "time"

type Config struct {
	// Root is the application-owned directory holding AutoBackups/.
	Root    string        `yaml:"root" validate:"required"`
	Source  SourceConfig  `yaml:"source"`
	Backup  BackupConfig  `yaml:"backup"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type SourceConfig struct {
	Path string `yaml:"path" validate:"required"`
	// Checkpoint flushes the SQLite WAL into the main file before copying.
	Checkpoint bool `yaml:"checkpoint"`
}

type BackupConfig struct {
	MaxBackups int    `yaml:"maxBackups" validate:"min=1"`
	Hash       string `yaml:"hash" validate:"omitempty,oneof=md5 sha256 blake3"`
	AutoBackup bool   `yaml:"autoBackup"`
	// DailyCheck is a cron spec; empty disables the periodic check.
	DailyCheck string `yaml:"dailyCheck"`
}

type WatchConfig struct {
	Mode           string        `yaml:"mode" validate:"oneof=auto poll fsnotify off"`
	PollInterval   time.Duration `yaml:"pollInterval" validate:"min=0"`
	DebounceWindow time.Duration `yaml:"debounceWindow" validate:"min=0"`
}

type LoggingConfig struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error off disabled"`
	Format     string `yaml:"format" validate:"omitempty,oneof=json console"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB" validate:"min=0"`
	MaxFiles   int    `yaml:"maxFiles" validate:"min=0"`
	MaxAgeDays int    `yaml:"maxAgeDays" validate:"min=0"`
}

type MetricsConfig struct {
	// Textfile, when set, receives a Prometheus text exposition after each backup.
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used for keys absent from the file.
func Default() Config {
	return Config{
		Root: "$(HOME)",
		Backup: BackupConfig{
			MaxBackups: 20,
			Hash:       "md5",
			AutoBackup: true,
			DailyCheck: "@every 1h",
		},
		Source: SourceConfig{
			Checkpoint: true,
		},
		Watch: WatchConfig{
			Mode:           "auto",
			PollInterval:   5 * time.Second,
			DebounceWindow: 250 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  10,
			MaxFiles:   3,
			MaxAgeDays: 30,
		},
	}
}
