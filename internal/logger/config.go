package logger

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds logging configuration
type Config struct {
	Level          string `yaml:"level"`
	ConsoleEnabled *bool  `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
}

type loggingFile struct {
	Logging Config `yaml:"logging"`
}

// DefaultConfig logs INFO and above as text to the console only
func DefaultConfig() Config {
	on := true
	return Config{
		Level:          "INFO",
		ConsoleEnabled: &on,
		ConsoleFormat:  "text",
		FilePath:       "logs/dungeonshuffle.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// Console reports whether console output is on
func (c Config) Console() bool {
	return c.ConsoleEnabled == nil || *c.ConsoleEnabled
}

// LoadConfig reads the logging: section of a YAML file over the defaults
// and then applies LOG_* environment overrides. A missing or unreadable
// file leaves the defaults in place.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			var file loggingFile
			if err := yaml.Unmarshal(data, &file); err == nil {
				config.merge(file.Logging)
			}
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Level = v
	}
	if v := os.Getenv("LOG_CONSOLE_FORMAT"); v != "" {
		config.ConsoleFormat = v
	}
	if v := os.Getenv("LOG_FILE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			config.FileEnabled = enabled
		}
	}
	if v := os.Getenv("LOG_FILE_PATH"); v != "" {
		config.FilePath = v
	}
	return config, nil
}

func (c *Config) merge(o Config) {
	if o.Level != "" {
		c.Level = o.Level
	}
	if o.ConsoleEnabled != nil {
		c.ConsoleEnabled = o.ConsoleEnabled
	}
	if o.ConsoleFormat != "" {
		c.ConsoleFormat = o.ConsoleFormat
	}
	c.FileEnabled = o.FileEnabled
	if o.FilePath != "" {
		c.FilePath = o.FilePath
	}
	if o.FileFormat != "" {
		c.FileFormat = o.FileFormat
	}
	if o.FileMaxSizeMB > 0 {
		c.FileMaxSizeMB = o.FileMaxSizeMB
	}
	if o.FileMaxBackups > 0 {
		c.FileMaxBackups = o.FileMaxBackups
	}
	if o.FileMaxAgeDays > 0 {
		c.FileMaxAgeDays = o.FileMaxAgeDays
	}
}
