package database

import (
	"fmt"
	"time"
)

// Config holds database connection configuration.
type Config struct {
	// Driver is "sqlite" or "postgres"
	Driver string `yaml:"driver"`

	SQLitePath string `yaml:"sqlite_path"`

	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific configuration.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DefaultConfig returns a Config for a SQLite file at sqlitePath.
func DefaultConfig(sqlitePath string) Config {
	return Config{
		Driver:     string(DialectSQLite),
		SQLitePath: sqlitePath,
		Postgres:   DefaultPostgresConfig(),
	}
}

// DefaultPostgresConfig returns PostgresConfig with recommended pool settings.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// DSN is the lib/pq connection string
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}
