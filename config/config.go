package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV equivalent:
//
//	DATA_DIR=./data
//	PRICE_COLUMN=adj_close
//	ANALYSIS_PARALLEL=4
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=retvol
//	POSTGRES_SSLMODE=disable
//	LOG_LEVEL=info
//	LOG_PRETTY=false
//	LOG_FILE=
type Config struct {
	Data     DataConfig     // Source files location and price column
	Server   ServerConfig   // HTTP server configuration
	Postgres PostgresConfig // PostgreSQL connection settings
	Log      LogConfig      // Logger settings
}

// DataConfig locates the price files.
//
// Fields:
//   - Dir: directory holding <ticker>_prc.csv and <name>.dat files.
//   - PriceColumn: source column used as the price (default adj_close).
//   - Parallel: bound on concurrent file reads and aggregation workers (0 = auto).
type DataConfig struct {
	Dir         string
	PriceColumn string
	Parallel    int
}

// ServerConfig is used by the api mode only.
type ServerConfig struct {
	Port string // listen port, e.g. "8080"
}

// PostgresConfig is needed by the api mode and by analyze runs with --persist.
// URL is the DSN built from the other fields by LoadConfig.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// LogConfig mirrors the variables read by the logger package.
type LogConfig struct {
	Level  string
	Pretty bool
	File   string // rotated log file; empty logs to stdout only
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and read by cmd and app wiring.
// Library packages receive the values they need as parameters instead.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("PRICE_COLUMN", "adj_close")
	viper.SetDefault("ANALYSIS_PARALLEL", 0)

	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "retvol")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)
	viper.SetDefault("LOG_FILE", "")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	AppConfig = Config{
		Data: DataConfig{
			Dir:         viper.GetString("DATA_DIR"),
			PriceColumn: viper.GetString("PRICE_COLUMN"),
			Parallel:    viper.GetInt("ANALYSIS_PARALLEL"),
		},
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Pretty: viper.GetBool("LOG_PRETTY"),
			File:   viper.GetString("LOG_FILE"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
func validateConfig() {
	if missing := missingKeys(AppConfig); len(missing) > 0 {
		log.Fatalf("❌ Missing required environment variables: %v\n", missing)
	}
}

func missingKeys(c Config) []string {
	var missing []string

	if c.Data.Dir == "" {
		missing = append(missing, "DATA_DIR")
	}
	if c.Data.PriceColumn == "" {
		missing = append(missing, "PRICE_COLUMN")
	}
	if c.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if c.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if c.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if c.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if c.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if c.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	return missing
}
